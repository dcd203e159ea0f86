package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Content

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"paraiso/internal/audit"
	blogmodels "paraiso/internal/blog/models"
	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/locale"
	"paraiso/internal/locale/metrics"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/requestcontext"
)

// Content is the slice of the content API the locale flow needs.
type Content interface {
	Token(ctx context.Context) (string, error)
	BlogBySlug(ctx context.Context, token, slug, locale string) (*blogmodels.Post, error)
	BlogByID(ctx context.Context, token string, id int, locale string) (*blogmodels.Post, error)
}

// ErrSuperseded is returned when a newer locale change started while this
// one was resolving its target path.
var ErrSuperseded = dErrors.New(dErrors.CodeConflict, "locale change superseded by a newer request")

// ErrNoTranslation means the article exists but has no slug in the target locale.
var ErrNoTranslation = errors.New("blog post has no translation")

// blogIndex is where a blog detail page lands when its translation is unknown.
const blogIndex = "/blog"

// Navigation is where the browser goes after a locale change.
type Navigation struct {
	Locale   locale.Locale `json:"locale"`
	Path     string        `json:"path"`
	Location string        `json:"location"`
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

type Service struct {
	content  Content
	sessions *session.Manager
	auditor  *audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func New(content Content, sessions *session.Manager, auditor *audit.Publisher, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		content:  content,
		sessions: sessions,
		auditor:  auditor,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate seeds the session locales. The map locale is frozen once set.
func (s *Service) Hydrate(_ context.Context, sess *session.Session, jar cookies.Jar, r *http.Request) {
	acceptLanguage := r.Header.Get("Accept-Language")
	if sess.Locale == "" {
		cookieValue, _ := jar.Get(consentmodels.CookieLocale)
		l, _ := locale.Resolve(cookieValue, acceptLanguage)
		sess.Locale = l.String()
	}
	if sess.MapLocale == "" {
		routerLocale, _, _ := locale.Split(r.URL.Path)
		sess.MapLocale = locale.ResolveMap(routerLocale.String(), acceptLanguage).String()
	}
}

// ChangeLocale switches the session to target and computes where the page
// at currentPath lives in that locale. The _locale cookie is only written
// when personalization is granted.
func (s *Service) ChangeLocale(ctx context.Context, sessionID string, jar cookies.Jar, target locale.Locale, currentPath string) (*Navigation, error) {
	if !target.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unsupported locale")
	}

	var generation uint64
	if _, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.LocaleGeneration++
		generation = sess.LocaleGeneration
		return nil
	}); err != nil {
		return nil, err
	}

	pathOnly, query, _ := strings.Cut(currentPath, "?")
	from, base, _ := locale.Split(pathOnly)
	path := base
	if slug, ok := locale.BlogSlug(base); ok {
		path = s.blogPath(ctx, slug, from, target)
	}
	nav := &Navigation{Locale: target, Path: path, Location: locale.Prefixed(target, path)}
	if query != "" {
		nav.Location += "?" + query
	}

	persisted := false
	_, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		if sess.LocaleGeneration != generation {
			return ErrSuperseded
		}
		sess.Locale = target.String()
		if !sess.Consent.Granted(consentmodels.CategoryPersonalization) {
			return nil
		}
		if err := jar.Set(consentmodels.CookieLocale, target.String(), consentmodels.CookieMaxAge); err != nil {
			s.logger.WarnContext(ctx, "failed to persist locale cookie",
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
			return nil
		}
		persisted = true
		return nil
	})
	if errors.Is(err, ErrSuperseded) {
		if s.metrics != nil {
			s.metrics.IncrementSuperseded()
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementChange(target.String(), persisted)
	}
	s.emit(ctx, sessionID, target, persisted)
	return nav, nil
}

// TranslateSlug finds the slug of the article known as slug in from, in
// locale to. A fresh token is fetched for every chain.
func (s *Service) TranslateSlug(ctx context.Context, slug string, from, to locale.Locale) (string, error) {
	token, err := s.content.Token(ctx)
	if err != nil {
		return "", err
	}
	post, err := s.content.BlogBySlug(ctx, token, slug, from.String())
	if err != nil {
		return "", err
	}
	translated, err := s.content.BlogByID(ctx, token, post.ID, to.String())
	if err != nil {
		return "", err
	}
	if translated.Slug == "" {
		return "", ErrNoTranslation
	}
	return translated.Slug, nil
}

func (s *Service) blogPath(ctx context.Context, slug string, from, to locale.Locale) string {
	translated, err := s.TranslateSlug(ctx, slug, from, to)
	if err != nil {
		s.logger.WarnContext(ctx, "blog translation lookup failed",
			"request_id", requestcontext.RequestID(ctx),
			"slug", slug,
			"from", from.String(),
			"to", to.String(),
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementSlugLookupError()
		}
		return blogIndex
	}
	return blogIndex + "/" + translated
}

func (s *Service) emit(ctx context.Context, sessionID string, target locale.Locale, persisted bool) {
	if s.auditor == nil {
		return
	}
	decision := "session"
	if persisted {
		decision = "cookie"
	}
	if err := s.auditor.Emit(ctx, audit.Event{
		SessionID: sessionID,
		Action:    string(audit.ActionLocaleChanged),
		Decision:  decision,
		Reason:    target.String(),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit locale audit event", "error", err)
	}
}
