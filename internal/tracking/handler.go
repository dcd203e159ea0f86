package tracking

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/requestcontext"
	"paraiso/pkg/validation"
)

type DeviceReportRequest struct {
	ScreenResolution string `json:"screen_resolution" validate:"required,max=11"`
}

func (r *DeviceReportRequest) Normalize() {
	r.ScreenResolution = strings.ToLower(strings.TrimSpace(r.ScreenResolution))
}

func (r *DeviceReportRequest) Validate() error {
	return validation.Validate(r)
}

type EventRequest struct {
	Button string `json:"button" validate:"required,notblank,max=64"`
}

func (r *EventRequest) Normalize() {
	r.Button = strings.TrimSpace(r.Button)
}

func (r *EventRequest) Validate() error {
	return validation.Validate(r)
}

// TrackedResponse tells the client whether anything was recorded.
type TrackedResponse struct {
	Recorded bool `json:"recorded"`
}

type Handler struct {
	recorder *Recorder
	ga       *GATracker
	sessions *session.Manager
	logger   *slog.Logger
}

func NewHandler(recorder *Recorder, ga *GATracker, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{recorder: recorder, ga: ga, sessions: sessions, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/tracking/device", h.handleDeviceReport)
	r.Post("/tracking/event", h.handleEvent)
}

func (h *Handler) handleDeviceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[DeviceReportRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	sess, jar, err := session.Current(ctx, h.sessions, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	recorded, err := h.recorder.ReportScreen(ctx, sess, jar, req.ScreenResolution)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.ErrorContext(ctx, "failed to store screen resolution",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TrackedResponse{Recorded: recorded})
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EventRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	sess, jar, err := session.Current(ctx, h.sessions, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TrackedResponse{Recorded: h.ga.ButtonClick(ctx, sess, jar, req.Button)})
}

// Track records a page visit and a GA page view. Failures are logged;
// tracking never fails a page.
func (h *Handler) Track(r *http.Request, sess *session.Session, jar cookies.Jar, page string) {
	ctx := r.Context()
	if _, err := h.recorder.RecordVisit(ctx, sess, jar, page); err != nil {
		h.logger.WarnContext(ctx, "failed to record visit",
			"page", page,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	h.ga.PageView(ctx, sess, jar, page)
}
