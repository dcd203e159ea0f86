package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paraiso/internal/contact/models"
	"paraiso/internal/contact/service"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/platform/privacy"
	"paraiso/pkg/requestcontext"
	"paraiso/pkg/validation"
)

const (
	multipartMemory = 1 << 20
	successMessage  = "Formulario enviado correctamente"
)

type Service interface {
	Submit(ctx context.Context, sub *models.Submission) error
}

type Response struct {
	Message string `json:"message"`
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/contacto", h.HandleSubmit)
}

// HandleSubmit accepts the multipart contact form and mails it.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxMultipartBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodePayloadTooLarge, "El archivo es demasiado grande"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Error: Datos inválidos"))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	sub := &models.Submission{
		Name:    r.FormValue("name"),
		Reason:  r.FormValue("reason"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}

	att, err := readAttachment(r)
	if err != nil {
		h.logger.InfoContext(ctx, "contact attachment rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	sub.Attachment = att

	if err := h.service.Submit(ctx, sub); err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			h.logger.InfoContext(ctx, "contact form rejected",
				"request_id", requestID,
				"reason", sub.Reason,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "contact form delivered",
		"request_id", requestID,
		"reason", sub.Reason,
		"client_ip_prefix", privacy.AnonymizeIP(requestcontext.ClientIP(ctx)),
	)
	httputil.WriteJSON(w, http.StatusOK, Response{Message: successMessage})
}

func readAttachment(r *http.Request) (*models.Attachment, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Error: Datos inválidos")
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, validation.MaxUploadSize+1))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "Error al leer el archivo")
	}
	return service.InspectAttachment(header.Filename, content)
}
