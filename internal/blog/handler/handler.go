package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paraiso/internal/blog/models"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/requestcontext"
)

// Store reads blog posts.
type Store interface {
	List(ctx context.Context, locale string) ([]models.Post, error)
	FindBySlug(ctx context.Context, slug, locale string) (*models.Post, error)
	FindByID(ctx context.Context, id int, locale string) (*models.Post, error)
}

var errBlogNotFound = dErrors.New(dErrors.CodeNotFound, "Blog not found")

type Handler struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/blog", h.HandleList)
	r.Get("/blog/by-id/{id}", h.HandleByID)
	r.Get("/blog/{slug}", h.HandleBySlug)
}

// HandleList returns every post of a language, newest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := parseList(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	posts, err := h.store.List(ctx, req.Locale)
	if err != nil {
		h.fail(ctx, w, "list blog posts failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, posts)
}

func (h *Handler) HandleBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := parseSlug(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	post, err := h.store.FindBySlug(ctx, req.Slug, req.Locale)
	if err != nil {
		h.fail(ctx, w, "find blog post by slug failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) HandleByID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := parseID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	post, err := h.store.FindByID(ctx, req.ID, req.Locale)
	if err != nil {
		h.fail(ctx, w, "find blog post by id failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, post)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, models.ErrNotFound) {
		httputil.WriteError(w, errBlogNotFound)
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}
