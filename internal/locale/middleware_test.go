package locale

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"paraiso/internal/locale/metrics"
)

type stubTranslator struct {
	slug  string
	err   error
	calls int
}

func (s *stubTranslator) TranslateSlug(_ context.Context, _ string, _, _ Locale) (string, error) {
	s.calls++
	return s.slug, s.err
}

var served = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newRedirector(tr SlugTranslator) (*Redirector, *metrics.Metrics) {
	m := metrics.New(prometheus.NewRegistry())
	return NewRedirector(tr, slog.New(slog.NewTextHandler(io.Discard, nil)), WithRedirectMetrics(m)), m
}

func get(h http.Handler, path, cookie, referer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "_locale", Value: cookie})
	}
	if referer != "" {
		req.Header.Set("Referer", referer)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRedirectByCookie(t *testing.T) {
	rd, m := newRedirector(&stubTranslator{})
	h := rd.RedirectByCookie(served)

	cases := []struct {
		name     string
		path     string
		cookie   string
		referer  string
		location string
	}{
		{name: "no cookie", path: "/en/carta"},
		{name: "invalid cookie", path: "/en/carta", cookie: "fr"},
		{name: "upper case cookie is not a preference", path: "/en/carta", cookie: "DE"},
		{name: "cookie matches url", path: "/de/carta", cookie: "de"},
		{name: "unprefixed path is spanish", path: "/carta", cookie: "es"},
		{name: "redirects to cookie locale", path: "/en/carta", cookie: "de", location: "/de/carta"},
		{name: "redirects unprefixed path", path: "/contacto?x=1", cookie: "en", location: "/en/contacto?x=1"},
		{name: "redirects locale root", path: "/de", cookie: "es", location: "/es"},
		{name: "same locale referer still redirects", path: "/en/carta", cookie: "de", referer: "https://paraisodeljamon.com/en/blog", location: "/de/carta"},
		{name: "foreign locale referer blocks redirect", path: "/en/carta", cookie: "de", referer: "https://paraisodeljamon.com/es/carta"},
		{name: "referer without locale prefix is ignored", path: "/en/carta", cookie: "de", referer: "https://www.google.com/search", location: "/de/carta"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := get(h, tc.path, tc.cookie, tc.referer)
			if tc.location == "" {
				assert.Equal(t, http.StatusOK, w.Code)
				return
			}
			assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
			assert.Equal(t, tc.location, w.Header().Get("Location"))
		})
	}
	assert.InDelta(t, 5, testutil.ToFloat64(m.Redirects.WithLabelValues("page")), 0)
}

func TestRedirectByCookieSlug(t *testing.T) {
	t.Run("redirects to the translated slug", func(t *testing.T) {
		tr := &stubTranslator{slug: "acorn-fed-ham"}
		rd, _ := newRedirector(tr)

		w := get(rd.RedirectByCookieSlug(served), "/es/blog/jamon-de-bellota", "en", "")

		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "/en/blog/acorn-fed-ham", w.Header().Get("Location"))
	})

	t.Run("lookup failure serves the page", func(t *testing.T) {
		tr := &stubTranslator{err: errors.New("api down")}
		rd, m := newRedirector(tr)

		w := get(rd.RedirectByCookieSlug(served), "/es/blog/jamon-de-bellota", "en", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, tr.calls)
		assert.InDelta(t, 1, testutil.ToFloat64(m.SlugLookupErrors), 0)
	})

	t.Run("empty slug serves the page", func(t *testing.T) {
		rd, _ := newRedirector(&stubTranslator{})

		w := get(rd.RedirectByCookieSlug(served), "/blog/jamon", "de", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no lookup when cookie matches", func(t *testing.T) {
		tr := &stubTranslator{slug: "x"}
		rd, _ := newRedirector(tr)

		w := get(rd.RedirectByCookieSlug(served), "/de/blog/schinken", "de", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, tr.calls)
	})

	t.Run("foreign referer blocks lookup", func(t *testing.T) {
		tr := &stubTranslator{slug: "x"}
		rd, _ := newRedirector(tr)

		w := get(rd.RedirectByCookieSlug(served), "/de/blog/schinken", "es", "http://localhost:3000/en/blog/ham")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Zero(t, tr.calls)
	})
}
