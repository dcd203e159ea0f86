package locale

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/locale/metrics"
	"paraiso/pkg/requestcontext"
)

// refererLocale captures the locale prefix of a same-site referer URL.
var refererLocale = regexp.MustCompile(`^https?://[^/]+/(en|de|es)(/|$)`)

// SlugTranslator resolves the slug of a blog article in another locale.
type SlugTranslator interface {
	TranslateSlug(ctx context.Context, slug string, from, to Locale) (string, error)
}

type RedirectOption func(*Redirector)

func WithRedirectMetrics(m *metrics.Metrics) RedirectOption {
	return func(rd *Redirector) {
		rd.metrics = m
	}
}

// Redirector sends visitors with a stored locale preference to the version
// of the page in that locale.
type Redirector struct {
	translator SlugTranslator
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewRedirector(translator SlugTranslator, logger *slog.Logger, opts ...RedirectOption) *Redirector {
	rd := &Redirector{translator: translator, logger: logger}
	for _, opt := range opts {
		opt(rd)
	}
	return rd
}

// RedirectByCookie answers 307 to the cookie locale version of the page.
// A referer carrying another locale means the visitor just switched
// language by hand, so the request passes through.
func (rd *Redirector) RedirectByCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target, base, ok := rd.preferred(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		rd.redirect(w, r, "page", Prefixed(target, base))
	})
}

// RedirectByCookieSlug is RedirectByCookie for blog detail pages, whose slug
// differs per locale. Any lookup failure serves the requested page.
func (rd *Redirector) RedirectByCookieSlug(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target, base, ok := rd.preferred(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		slug, ok := BlogSlug(base)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		current, _, _ := Split(r.URL.Path)
		translated, err := rd.translator.TranslateSlug(ctx, slug, current, target)
		if err != nil || translated == "" {
			rd.logger.WarnContext(ctx, "blog redirect skipped",
				"request_id", requestcontext.RequestID(ctx),
				"slug", slug,
				"target", target.String(),
				"error", err,
			)
			if rd.metrics != nil {
				rd.metrics.IncrementSlugLookupError()
			}
			next.ServeHTTP(w, r)
			return
		}
		rd.redirect(w, r, "blog", Prefixed(target, "/blog/"+translated))
	})
}

// preferred returns the cookie locale and base path when the request should
// be redirected.
func (rd *Redirector) preferred(r *http.Request) (Locale, string, bool) {
	c, err := r.Cookie(consentmodels.CookieLocale)
	if err != nil {
		return "", "", false
	}
	target, ok := FromCookie(c.Value)
	if !ok {
		return "", "", false
	}
	current, base, _ := Split(r.URL.Path)
	if target == current {
		return "", "", false
	}
	if m := refererLocale.FindStringSubmatch(r.Referer()); m != nil && Locale(m[1]) != current {
		return "", "", false
	}
	return target, base, true
}

func (rd *Redirector) redirect(w http.ResponseWriter, r *http.Request, kind, location string) {
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}
	if rd.metrics != nil {
		rd.metrics.IncrementRedirect(kind)
	}
	http.Redirect(w, r, location, http.StatusTemporaryRedirect)
}
