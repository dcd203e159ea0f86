package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"paraiso/internal/charcuterie/models"
	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/requestcontext"
	"paraiso/pkg/validation"
)

type Store interface {
	List(ctx context.Context, locale string) ([]models.Product, error)
}

// ListRequest selects the catalogue language; empty means Spanish.
type ListRequest struct {
	Locale string `validate:"required,oneof=es en de"`
}

func (r *ListRequest) Normalize() {
	r.Locale = strings.ToLower(strings.TrimSpace(r.Locale))
	if r.Locale == "" {
		r.Locale = "es"
	}
}

type Handler struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/charcuteria", h.HandleList)
}

// HandleList returns the catalogue grouped by category, then name.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := &ListRequest{Locale: r.URL.Query().Get("idioma")}
	req.Normalize()
	if err := validation.Validate(req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	products, err := h.store.List(ctx, req.Locale)
	if err != nil {
		h.logger.ErrorContext(ctx, "list charcuterie failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, products)
}
