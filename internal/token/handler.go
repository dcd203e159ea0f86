package token

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/requestcontext"
)

// Issuer mints timed tokens.
type Issuer interface {
	Issue(ctx context.Context) (string, error)
}

type Response struct {
	Token string `json:"token"`
}

type Handler struct {
	issuer Issuer
	logger *slog.Logger
}

func NewHandler(issuer Issuer, logger *slog.Logger) *Handler {
	return &Handler{issuer: issuer, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/get-token", h.handleGetToken)
}

func (h *Handler) handleGetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tok, err := h.issuer.Issue(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue timed token",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, Response{Token: tok})
}
