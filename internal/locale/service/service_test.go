package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"paraiso/internal/audit"
	blogmodels "paraiso/internal/blog/models"
	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/locale"
	"paraiso/internal/locale/metrics"
	"paraiso/internal/locale/service/mocks"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
)

type memJar struct {
	values map[string]string
}

func newMemJar(values map[string]string) *memJar {
	if values == nil {
		values = map[string]string{}
	}
	return &memJar{values: values}
}

func (j *memJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	return v, ok
}

func (j *memJar) Names() []string { return nil }

func (j *memJar) Set(name, value string, _ time.Duration) error {
	j.values[name] = value
	return nil
}

func (j *memJar) Delete(name, _ string) error {
	delete(j.values, name)
	return nil
}

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	content    *mocks.MockContent
	sessions   *session.Manager
	auditStore *audit.InMemoryStore
	metrics    *metrics.Metrics
	service    *Service
	sessionID  string
	ctx        context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.content = mocks.NewMockContent(s.ctrl)
	s.sessions = session.NewManager(session.NewInMemoryStore())
	s.auditStore = audit.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.content, s.sessions, audit.NewPublisher(s.auditStore),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		WithMetrics(s.metrics),
	)
	s.ctx = context.Background()

	sess, err := s.sessions.Create(s.ctx, func(sess *session.Session) {
		sess.Locale = "es"
		sess.MapLocale = "es"
		sess.Consent = consentmodels.NewState()
	})
	s.Require().NoError(err)
	s.sessionID = sess.ID
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) grantPersonalization() {
	_, err := s.sessions.Update(s.ctx, s.sessionID, func(sess *session.Session) error {
		sess.Consent.Grant(consentmodels.CategoryPersonalization)
		return nil
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) current() *session.Session {
	sess, err := s.sessions.Get(s.ctx, s.sessionID)
	s.Require().NoError(err)
	return sess
}

func (s *ServiceSuite) TestHydrate() {
	s.Run("cookie wins over browser language", func() {
		sess := &session.Session{}
		req := httptest.NewRequest("GET", "/en/carta", nil)
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9")

		s.service.Hydrate(s.ctx, sess, newMemJar(map[string]string{consentmodels.CookieLocale: "en"}), req)

		s.Equal("en", sess.Locale)
		s.Equal("en", sess.MapLocale)
	})

	s.Run("browser language when no cookie", func() {
		sess := &session.Session{}
		req := httptest.NewRequest("GET", "/de", nil)
		req.Header.Set("Accept-Language", "en-GB,en;q=0.8")

		s.service.Hydrate(s.ctx, sess, newMemJar(nil), req)

		s.Equal("en", sess.Locale)
		s.Equal("de", sess.MapLocale)
	})

	s.Run("unsupported everything falls back to spanish", func() {
		sess := &session.Session{}
		req := httptest.NewRequest("GET", "/contacto", nil)
		req.Header.Set("Accept-Language", "fr-FR")

		s.service.Hydrate(s.ctx, sess, newMemJar(map[string]string{consentmodels.CookieLocale: "xx"}), req)

		s.Equal("es", sess.Locale)
		s.Equal("es", sess.MapLocale)
	})

	s.Run("existing locales are kept", func() {
		sess := &session.Session{Locale: "de", MapLocale: "en"}
		req := httptest.NewRequest("GET", "/es", nil)

		s.service.Hydrate(s.ctx, sess, newMemJar(map[string]string{consentmodels.CookieLocale: "es"}), req)

		s.Equal("de", sess.Locale)
		s.Equal("en", sess.MapLocale)
	})
}

func (s *ServiceSuite) TestChangeLocaleKeepsBasePath() {
	jar := newMemJar(nil)

	nav, err := s.service.ChangeLocale(s.ctx, s.sessionID, jar, locale.DE, "/en/carta?seccion=postres")
	s.Require().NoError(err)

	s.Equal(locale.DE, nav.Locale)
	s.Equal("/carta", nav.Path)
	s.Equal("/de/carta?seccion=postres", nav.Location)
	s.Equal("de", s.current().Locale)
	s.Equal("es", s.current().MapLocale)

	_, written := jar.Get(consentmodels.CookieLocale)
	s.False(written, "no personalization consent means session only")
	s.InDelta(1, testutil.ToFloat64(s.metrics.Changes.WithLabelValues("de", "session")), 0)
}

func (s *ServiceSuite) TestChangeLocalePersistsWithPersonalization() {
	s.grantPersonalization()
	jar := newMemJar(nil)

	nav, err := s.service.ChangeLocale(s.ctx, s.sessionID, jar, locale.EN, "/")
	s.Require().NoError(err)

	s.Equal("/en", nav.Location)
	v, ok := jar.Get(consentmodels.CookieLocale)
	s.True(ok)
	s.Equal("en", v)

	events, err := s.auditStore.ListBySession(s.ctx, s.sessionID)
	s.Require().NoError(err)
	s.Require().Len(events, 1)
	s.Equal(string(audit.ActionLocaleChanged), events[0].Action)
	s.Equal("cookie", events[0].Decision)
}

func (s *ServiceSuite) TestChangeLocaleTranslatesBlogSlug() {
	gomock.InOrder(
		s.content.EXPECT().Token(gomock.Any()).Return("tok", nil),
		s.content.EXPECT().BlogBySlug(gomock.Any(), "tok", "jamon-de-bellota", "es").
			Return(&blogmodels.Post{ID: 12, Locale: "es", Slug: "jamon-de-bellota"}, nil),
		s.content.EXPECT().BlogByID(gomock.Any(), "tok", 12, "en").
			Return(&blogmodels.Post{ID: 12, Locale: "en", Slug: "acorn-fed-ham"}, nil),
	)

	nav, err := s.service.ChangeLocale(s.ctx, s.sessionID, newMemJar(nil), locale.EN, "/blog/jamon-de-bellota")
	s.Require().NoError(err)

	s.Equal("/blog/acorn-fed-ham", nav.Path)
	s.Equal("/en/blog/acorn-fed-ham", nav.Location)
}

func (s *ServiceSuite) TestChangeLocaleBlogFallbacks() {
	s.Run("lookup error lands on blog index", func() {
		s.content.EXPECT().Token(gomock.Any()).Return("tok", nil)
		s.content.EXPECT().BlogBySlug(gomock.Any(), "tok", "missing", "de").Return(nil, errors.New("not found"))

		nav, err := s.service.ChangeLocale(s.ctx, s.sessionID, newMemJar(nil), locale.ES, "/de/blog/missing")
		s.Require().NoError(err)
		s.Equal("/es/blog", nav.Location)
	})

	s.Run("empty translated slug lands on blog index", func() {
		s.content.EXPECT().Token(gomock.Any()).Return("tok", nil)
		s.content.EXPECT().BlogBySlug(gomock.Any(), "tok", "iberian-ham", "en").Return(&blogmodels.Post{ID: 3}, nil)
		s.content.EXPECT().BlogByID(gomock.Any(), "tok", 3, "de").Return(&blogmodels.Post{ID: 3}, nil)

		nav, err := s.service.ChangeLocale(s.ctx, s.sessionID, newMemJar(nil), locale.DE, "/en/blog/iberian-ham")
		s.Require().NoError(err)
		s.Equal("/de/blog", nav.Location)
	})

	s.Run("token failure lands on blog index", func() {
		s.content.EXPECT().Token(gomock.Any()).Return("", errors.New("api down"))

		nav, err := s.service.ChangeLocale(s.ctx, s.sessionID, newMemJar(nil), locale.EN, "/blog/x")
		s.Require().NoError(err)
		s.Equal("/en/blog", nav.Location)
	})

	s.InDelta(3, testutil.ToFloat64(s.metrics.SlugLookupErrors), 0)
}

func (s *ServiceSuite) TestChangeLocaleSupersededByNewerChange() {
	s.content.EXPECT().Token(gomock.Any()).DoAndReturn(func(ctx context.Context) (string, error) {
		// A second change completes while this chain is still resolving.
		_, err := s.service.ChangeLocale(ctx, s.sessionID, newMemJar(nil), locale.DE, "/carta")
		s.Require().NoError(err)
		return "tok", nil
	})
	s.content.EXPECT().BlogBySlug(gomock.Any(), "tok", "x", "es").Return(&blogmodels.Post{ID: 1}, nil)
	s.content.EXPECT().BlogByID(gomock.Any(), "tok", 1, "en").Return(&blogmodels.Post{ID: 1, Slug: "y"}, nil)

	_, err := s.service.ChangeLocale(s.ctx, s.sessionID, newMemJar(nil), locale.EN, "/blog/x")

	s.ErrorIs(err, ErrSuperseded)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal("de", s.current().Locale)
	s.EqualValues(2, s.current().LocaleGeneration)
	s.InDelta(1, testutil.ToFloat64(s.metrics.Superseded), 0)
}

func (s *ServiceSuite) TestChangeLocaleRejectsUnsupported() {
	_, err := s.service.ChangeLocale(s.ctx, s.sessionID, newMemJar(nil), locale.Locale("fr"), "/")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestChangeLocaleUnknownSession() {
	_, err := s.service.ChangeLocale(s.ctx, "4f8a1c1e-0000-4000-8000-000000000000", newMemJar(nil), locale.EN, "/")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
