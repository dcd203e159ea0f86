package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paraiso/internal/consent/models"
	"paraiso/internal/consent/service"
	"paraiso/internal/platform/i18n"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/requestcontext"
)

// Service defines the consent operations exposed over HTTP.
type Service interface {
	AcceptAll(ctx context.Context, sess *session.Session, jar cookies.Jar)
	DeclineAll(ctx context.Context, sess *session.Session)
	Customize(ctx context.Context, sess *session.Session)
	SetPending(ctx context.Context, sess *session.Session, analysis, analysisGoogle, personalization bool)
	Confirm(ctx context.Context, sess *session.Session, jar cookies.Jar) error
	FollowPolicyLink(ctx context.Context, sess *session.Session, target models.PolicyTarget) (string, error)
	Reopen(ctx context.Context, sess *session.Session)
	Revoke(ctx context.Context, sess *session.Session, jar cookies.Jar, categories []models.Category) error
}

// Translator resolves localized notification texts.
type Translator interface {
	Message(locale, id string) string
}

type Handler struct {
	consent    Service
	sessions   *session.Manager
	translator Translator
	logger     *slog.Logger
}

func New(consent Service, sessions *session.Manager, translator Translator, logger *slog.Logger) *Handler {
	return &Handler{
		consent:    consent,
		sessions:   sessions,
		translator: translator,
		logger:     logger,
	}
}

// Register registers the consent routes. The session middleware must run first.
func (h *Handler) Register(r chi.Router) {
	r.Route("/consent", func(r chi.Router) {
		r.Get("/", h.handleGetState)
		r.Post("/accept-all", h.handleAcceptAll)
		r.Post("/decline-all", h.handleDeclineAll)
		r.Post("/customize", h.handleCustomize)
		r.Put("/pending", h.handleSetPending)
		r.Post("/confirm", h.handleConfirm)
		r.Post("/policy-link", h.handlePolicyLink)
		r.Post("/reopen", h.handleReopen)
		r.Post("/revoke", h.handleRevoke)
	})
}

func (h *Handler) handleGetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := httputil.RequireSessionID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sess, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load session",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewStateResponse(sess.Consent))
}

func (h *Handler) handleAcceptAll(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "accept all", func(ctx context.Context, sess *session.Session, jar cookies.Jar) error {
		h.consent.AcceptAll(ctx, sess, jar)
		return nil
	})
}

func (h *Handler) handleDeclineAll(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "decline all", func(ctx context.Context, sess *session.Session, _ cookies.Jar) error {
		h.consent.DeclineAll(ctx, sess)
		return nil
	})
}

func (h *Handler) handleCustomize(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "customize", func(ctx context.Context, sess *session.Session, _ cookies.Jar) error {
		h.consent.Customize(ctx, sess)
		return nil
	})
}

func (h *Handler) handleSetPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[models.PendingRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.mutate(w, r, "set pending", func(ctx context.Context, sess *session.Session, _ cookies.Jar) error {
		h.consent.SetPending(ctx, sess, req.Analysis, req.AnalysisGoogle, req.Personalization)
		return nil
	})
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "confirm", func(ctx context.Context, sess *session.Session, jar cookies.Jar) error {
		err := h.consent.Confirm(ctx, sess, jar)
		if errors.Is(err, service.ErrNothingSelected) {
			return dErrors.New(dErrors.CodeValidation, h.translator.Message(sess.Locale, i18n.MsgConsentConfirmEmpty))
		}
		return err
	})
}

func (h *Handler) handlePolicyLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[models.PolicyLinkRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sessionID, err := httputil.RequireSessionID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var location string
	_, err = h.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		var err error
		location, err = h.consent.FollowPolicyLink(ctx, sess, req.Target)
		return err
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to follow policy link",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.PolicyLinkResponse{Location: location})
}

func (h *Handler) handleReopen(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "reopen", func(ctx context.Context, sess *session.Session, _ cookies.Jar) error {
		h.consent.Reopen(ctx, sess)
		return nil
	})
}

func (h *Handler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[models.RevokeRequest](w, r, h.logger, ctx, requestID)
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

	sess, err := h.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		return h.consent.Revoke(ctx, sess, jar, req.Categories)
	})
	switch {
	case err == nil:
		httputil.WriteJSON(w, http.StatusOK, models.RevokeResponse{
			Success: true,
			Message: h.translator.Message(sess.Locale, i18n.MsgCookieDeleted),
			State:   models.NewStateResponse(sess.Consent),
		})
	case errors.Is(err, service.ErrRevokeFailed) && sess != nil:
		httputil.WriteJSON(w, http.StatusInternalServerError, models.RevokeResponse{
			Success: false,
			Message: h.translator.Message(sess.Locale, i18n.MsgCookieDeleteFailed),
			State:   models.NewStateResponse(sess.Consent),
		})
	default:
		h.logger.ErrorContext(ctx, "failed to revoke consent",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
	}
}

// mutate runs fn on the request session under its lock and answers with the
// resulting consent state.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, *session.Session, cookies.Jar) error) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sessionID, err := httputil.RequireSessionID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	jar := cookies.FromContext(ctx)
	if jar == nil {
		h.logger.ErrorContext(ctx, "cookie jar missing from context despite session middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "cookie context error"))
		return
	}

	sess, err := h.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		return fn(ctx, sess, jar)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "consent action rejected",
				"op", op,
				"request_id", requestID,
				"error", err,
			)
		} else {
			h.logger.ErrorContext(ctx, "consent action failed",
				"op", op,
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, models.NewStateResponse(sess.Consent))
}
