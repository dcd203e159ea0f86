package site

import (
	"errors"
	"net/http"

	"paraiso/internal/content/client"
	"paraiso/internal/locale"
	"paraiso/internal/platform/i18n"
	"paraiso/internal/session"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/httputil"
	"paraiso/pkg/requestcontext"
	"paraiso/pkg/validation"
)

// multipartMemory is how much of a form is buffered before spilling to disk.
const multipartMemory = 1 << 20

// handleContact forwards the contact form to the API with a fresh token.
// Every failure answers with the same localized retry message.
func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	sess, _, err := session.Current(ctx, h.sessions, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	lang := locale.OrDefault(sess.Locale).String()

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxMultipartBody)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodePayloadTooLarge, "contact form too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	sub := client.ContactSubmission{
		Name:    r.FormValue("name"),
		Reason:  r.FormValue("reason"),
		Email:   r.FormValue("email"),
		Message: r.FormValue("message"),
	}
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		sub.File = &client.Attachment{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Content:     file,
		}
	case !errors.Is(err, http.ErrMissingFile):
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid attachment"))
		return
	}

	message, err := h.submit(r, sub)
	if err != nil {
		h.logContactFailure(r, err)
		httputil.WriteJSON(w, contactStatus(err), ContactResponse{
			Success: false,
			Message: h.translator.Message(lang, i18n.MsgContactRetry),
		})
		return
	}
	h.logger.InfoContext(ctx, "contact form forwarded",
		"request_id", requestID,
		"reason", sub.Reason,
		"api_message", message,
	)
	httputil.WriteJSON(w, http.StatusOK, ContactResponse{
		Success: true,
		Message: h.translator.Message(lang, i18n.MsgContactSuccess),
	})
}

func (h *Handler) submit(r *http.Request, sub client.ContactSubmission) (string, error) {
	ctx := r.Context()
	token, err := h.content.Token(ctx)
	if err != nil {
		return "", err
	}
	return h.content.SubmitContact(ctx, token, sub)
}

func (h *Handler) logContactFailure(r *http.Request, err error) {
	ctx := r.Context()
	var cerr *client.Error
	kind := "request_construction"
	if errors.As(err, &cerr) {
		switch {
		case cerr.Responded():
			kind = "server_responded"
		case cerr.Category == client.ErrorNoResponse || cerr.Category == client.ErrorTimeout:
			kind = "no_response"
		}
	}
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"failure", kind,
		"error", err,
	}
	if cerr != nil && cerr.Responded() {
		attrs = append(attrs, "status", cerr.Status)
	}
	h.logger.ErrorContext(ctx, "contact form submission failed", attrs...)
}

func contactStatus(err error) int {
	var cerr *client.Error
	if errors.As(err, &cerr) && cerr.Category == client.ErrorBadData {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}
