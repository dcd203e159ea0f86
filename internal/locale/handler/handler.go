package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paraiso/internal/locale"
	"paraiso/internal/locale/service"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/requestcontext"
)

// Service changes the session locale.
type Service interface {
	ChangeLocale(ctx context.Context, sessionID string, jar cookies.Jar, target locale.Locale, currentPath string) (*service.Navigation, error)
}

type Handler struct {
	locales  Service
	sessions *session.Manager
	logger   *slog.Logger
}

func New(locales Service, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{locales: locales, sessions: sessions, logger: logger}
}

// Register registers the locale routes. The session middleware must run first.
func (h *Handler) Register(r chi.Router) {
	r.Get("/locale", h.handleGetLocale)
	r.Post("/locale", h.handleChangeLocale)
}

func (h *Handler) handleGetLocale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _, err := session.Current(ctx, h.sessions, h.logger)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load session",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StateResponse{
		Locale:    locale.OrDefault(sess.Locale),
		MapLocale: locale.OrDefault(sess.MapLocale),
		Supported: locale.Supported,
	})
}

func (h *Handler) handleChangeLocale(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[ChangeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sessionID, err := httputil.RequireSessionID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	jar := cookies.FromContext(ctx)
	if jar == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "cookie context error"))
		return
	}

	nav, err := h.locales.ChangeLocale(ctx, sessionID, jar, locale.Locale(req.Locale), req.Path)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			h.logger.InfoContext(ctx, "locale change superseded",
				"request_id", requestID,
				"locale", req.Locale,
			)
		} else {
			h.logger.ErrorContext(ctx, "failed to change locale",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, nav)
}
