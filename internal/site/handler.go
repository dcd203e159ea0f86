// Package site serves the page contexts of the public site: locale and
// consent state, embedded API content and visit tracking.
package site

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Content,Tracker

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	blogmodels "paraiso/internal/blog/models"
	charcmodels "paraiso/internal/charcuterie/models"
	consentmodels "paraiso/internal/consent/models"
	"paraiso/internal/content/client"
	"paraiso/internal/locale"
	"paraiso/internal/platform/i18n"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/requestcontext"
)

// Content is the content API as seen by the site.
type Content interface {
	Token(ctx context.Context) (string, error)
	BlogBySlug(ctx context.Context, token, slug, locale string) (*blogmodels.Post, error)
	BlogByID(ctx context.Context, token string, id int, locale string) (*blogmodels.Post, error)
	BlogList(ctx context.Context, token, locale string) ([]blogmodels.Post, error)
	Charcuterie(ctx context.Context, token, locale string) ([]charcmodels.Product, error)
	SubmitContact(ctx context.Context, token string, sub client.ContactSubmission) (string, error)
}

// Tracker records page visits.
type Tracker interface {
	Track(r *http.Request, sess *session.Session, jar cookies.Jar, page string)
}

// Translator resolves localized notification texts.
type Translator interface {
	Message(locale, id string) string
}

type Handler struct {
	content    Content
	tracker    Tracker
	sessions   *session.Manager
	redirector *locale.Redirector
	translator Translator
	logger     *slog.Logger
}

func New(content Content, tracker Tracker, sessions *session.Manager, redirector *locale.Redirector, translator Translator, logger *slog.Logger) *Handler {
	return &Handler{
		content:    content,
		tracker:    tracker,
		sessions:   sessions,
		redirector: redirector,
		translator: translator,
		logger:     logger,
	}
}

// Register registers every page under the bare path and each locale prefix.
// The session middleware must run first.
func (h *Handler) Register(r chi.Router) {
	prefixes := []string{""}
	for _, l := range locale.Supported {
		prefixes = append(prefixes, "/"+l.String())
	}

	for _, prefix := range prefixes {
		pages := r.With(h.redirector.RedirectByCookie)
		for _, p := range Pages {
			path := prefix + p.Path
			if prefix != "" && p.Path == "/" {
				path = prefix
			}
			pages.Get(path, h.handlePage(p))
		}
		r.With(h.redirector.RedirectByCookieSlug).Get(prefix+"/blog/{slug}", h.handleBlogDetail)
	}
	r.Post("/contact", h.handleContact)
}

func (h *Handler) handlePage(p Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess, ok := h.visit(w, r, p.ID)
		if !ok {
			return
		}
		pageLocale, base, _ := locale.Split(r.URL.Path)
		resp := h.newResponse(sess, p.ID, pageLocale, base)

		switch p.Content {
		case ContentCharcuterie:
			resp.Products, resp.ContentError = h.loadCharcuterie(ctx, pageLocale)
		case ContentBlogList:
			resp.Posts, resp.ContentError = h.loadBlogList(ctx, pageLocale)
		}
		httputil.WriteJSON(w, http.StatusOK, resp)
	}
}

// handleBlogDetail loads a post by slug. A post found in another language
// redirects to its translation in the URL locale when one exists.
func (h *Handler) handleBlogDetail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	slug := chi.URLParam(r, "slug")

	sess, ok := h.visit(w, r, blogPageID)
	if !ok {
		return
	}
	pageLocale, base, _ := locale.Split(r.URL.Path)
	resp := h.newResponse(sess, blogPageID, pageLocale, base)
	// Slugs differ per locale; POST /locale resolves the other versions.
	resp.Alternates = nil

	post, err := h.fetchPost(ctx, slug, pageLocale)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to load blog post",
			"request_id", requestID,
			"slug", slug,
			"category", string(client.CategoryOf(err)),
			"error", err,
		)
		status := httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(client.ToDomain(err)))
		resp.ContentError = h.translator.Message(pageLocale.String(), i18n.MsgBlogDetailsError)
		httputil.WriteJSON(w, status, resp)
		return
	}
	if post.Slug != slug && post.Slug != "" {
		location := locale.Prefixed(pageLocale, "/blog/"+post.Slug)
		if r.URL.RawQuery != "" {
			location += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, location, http.StatusTemporaryRedirect)
		return
	}
	resp.Post = post
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// fetchPost returns the post for slug in l, following a translation when
// the slug belongs to another locale.
func (h *Handler) fetchPost(ctx context.Context, slug string, l locale.Locale) (*blogmodels.Post, error) {
	token, err := h.content.Token(ctx)
	if err != nil {
		return nil, err
	}
	post, err := h.content.BlogBySlug(ctx, token, slug, "")
	if err != nil {
		return nil, err
	}
	if post.Locale == "" || post.Locale == l.String() {
		return post, nil
	}
	translated, err := h.content.BlogByID(ctx, token, post.ID, l.String())
	if err != nil {
		if client.IsNotFound(err) {
			return post, nil
		}
		return nil, err
	}
	if translated.Slug == "" {
		return post, nil
	}
	return translated, nil
}

func (h *Handler) loadCharcuterie(ctx context.Context, l locale.Locale) ([]charcmodels.Product, string) {
	token, err := h.content.Token(ctx)
	if err == nil {
		var products []charcmodels.Product
		if products, err = h.content.Charcuterie(ctx, token, l.String()); err == nil {
			return products, ""
		}
	}
	h.logger.WarnContext(ctx, "failed to load charcuterie catalogue",
		"request_id", requestcontext.RequestID(ctx),
		"category", string(client.CategoryOf(err)),
		"error", err,
	)
	return nil, h.translator.Message(l.String(), i18n.MsgContentUnavailable)
}

func (h *Handler) loadBlogList(ctx context.Context, l locale.Locale) ([]blogmodels.Post, string) {
	token, err := h.content.Token(ctx)
	if err == nil {
		var posts []blogmodels.Post
		if posts, err = h.content.BlogList(ctx, token, l.String()); err == nil {
			return posts, ""
		}
	}
	h.logger.WarnContext(ctx, "failed to load blog list",
		"request_id", requestcontext.RequestID(ctx),
		"category", string(client.CategoryOf(err)),
		"error", err,
	)
	return nil, h.translator.Message(l.String(), i18n.MsgContentUnavailable)
}

// visit moves the session to the URL locale and records tracking.
func (h *Handler) visit(w http.ResponseWriter, r *http.Request, page string) (*session.Session, bool) {
	ctx := r.Context()
	sessionID, err := httputil.RequireSessionID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	jar := cookies.FromContext(ctx)
	if jar == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "cookie context error"))
		return nil, false
	}
	pageLocale, _, prefixed := locale.Split(r.URL.Path)

	sess, err := h.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		if prefixed {
			sess.Locale = pageLocale.String()
			h.syncLocaleCookie(ctx, sess, jar, pageLocale)
		}
		h.tracker.Track(r, sess, jar, page)
		return nil
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load session",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return nil, false
	}
	return sess, true
}

// syncLocaleCookie keeps _locale on the locale the visitor is browsing, so a
// switch through a prefixed link sticks on the next navigation.
func (h *Handler) syncLocaleCookie(ctx context.Context, sess *session.Session, jar cookies.Jar, l locale.Locale) {
	if !sess.Consent.Granted(consentmodels.CategoryPersonalization) {
		return
	}
	if current, ok := jar.Get(consentmodels.CookieLocale); ok && current == l.String() {
		return
	}
	if err := jar.Set(consentmodels.CookieLocale, l.String(), consentmodels.CookieMaxAge); err != nil {
		h.logger.WarnContext(ctx, "failed to persist locale cookie",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (h *Handler) newResponse(sess *session.Session, page string, l locale.Locale, base string) PageResponse {
	return PageResponse{
		Page:       page,
		Locale:     l,
		MapLocale:  locale.OrDefault(sess.MapLocale),
		Path:       base,
		Alternates: alternates(base),
		Consent:    consentmodels.NewStateResponse(sess.Consent),
	}
}
