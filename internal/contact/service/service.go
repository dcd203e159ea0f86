package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Mailer

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"paraiso/internal/contact/metrics"
	"paraiso/internal/contact/models"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/platform/privacy"
	"paraiso/pkg/requestcontext"
	"paraiso/pkg/validation"
)

// Mailer delivers a composed message.
type Mailer interface {
	Send(ctx context.Context, msg *models.Message) error
}

// Recipients routes submissions. Webmaster receives error reports.
type Recipients struct {
	From      string
	Info      string
	Webmaster string
}

var (
	ErrAttachmentRequired = dErrors.New(dErrors.CodeValidation, "Error: Se requiere adjuntar un archivo debido al motivo seleccionado")
	ErrDelivery           = dErrors.New(dErrors.CodeInternal, "Error al enviar el correo electrónico")
)

type Service struct {
	mailer     Mailer
	recipients Recipients
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(mailer Mailer, recipients Recipients, logger *slog.Logger, opts ...Option) (*Service, error) {
	if mailer == nil {
		return nil, fmt.Errorf("mailer is required")
	}
	if recipients.Info == "" || recipients.Webmaster == "" {
		return nil, fmt.Errorf("info and webmaster recipients are required")
	}
	if recipients.From == "" {
		recipients.From = recipients.Info
	}
	s := &Service{mailer: mailer, recipients: recipients, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit validates a submission and mails it to the matching recipient.
func (s *Service) Submit(ctx context.Context, sub *models.Submission) error {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Reason = strings.TrimSpace(sub.Reason)
	sub.Email = strings.TrimSpace(sub.Email)

	if err := validation.Validate(sub); err != nil {
		s.record(sub.Reason, metrics.OutcomeRejected)
		return err
	}
	if models.RequiresAttachment(sub.Reason) && sub.Attachment == nil {
		s.record(sub.Reason, metrics.OutcomeRejected)
		return ErrAttachmentRequired
	}

	if att := sub.Attachment; att != nil {
		s.logger.InfoContext(ctx, "contact attachment accepted",
			"request_id", requestcontext.RequestID(ctx),
			"filename", att.Filename,
			"content_type", att.ContentType,
			"size", len(att.Content),
			"sha256", att.SHA256,
		)
		if s.metrics != nil {
			s.metrics.ObserveAttachment(len(att.Content))
		}
	}

	msg, err := s.compose(sub)
	if err != nil {
		s.record(sub.Reason, metrics.OutcomeFailed)
		return dErrors.Wrap(err, dErrors.CodeInternal, "Error al enviar el correo electrónico")
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.ErrorContext(ctx, "contact mail delivery failed",
			"request_id", requestcontext.RequestID(ctx),
			"reason", sub.Reason,
			"sender", privacy.MaskEmail(sub.Email),
			"error", err,
		)
		s.record(sub.Reason, metrics.OutcomeFailed)
		return ErrDelivery
	}
	s.record(sub.Reason, metrics.OutcomeSent)
	return nil
}

func (s *Service) compose(sub *models.Submission) (*models.Message, error) {
	to := s.recipients.Info
	if sub.Reason == models.ReasonError {
		to = s.recipients.Webmaster
	}

	var html strings.Builder
	if err := mailTemplate.Execute(&html, sub); err != nil {
		return nil, fmt.Errorf("render contact mail: %w", err)
	}

	return &models.Message{
		From:    s.recipients.From,
		To:      to,
		ReplyTo: sub.Email,
		Subject: "Nuevo mensaje de " + sub.Name,
		Text: fmt.Sprintf("Este es un correo electrónico enviado desde el sitio web por el formulario de contacto.\n\n"+
			"Nombre: %s\n\nCorreo Electrónico: %s\n\nMotivo: %s\n\nMensaje:\n%s",
			sub.Name, sub.Email, sub.Reason, sub.Message),
		HTML:       html.String(),
		Attachment: sub.Attachment,
	}, nil
}

func (s *Service) record(reason, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementSubmission(reasonLabel(reason), outcome)
}

func reasonLabel(reason string) string {
	switch reason {
	case models.ReasonInformation, models.ReasonCommercial, models.ReasonInvoice,
		models.ReasonCurriculum, models.ReasonError, models.ReasonOther:
		return reason
	}
	return "unknown"
}

var mailTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.email-container { max-width: 600px; margin: auto; border: 1px solid #ddd; border-radius: 8px; }
.content { padding: 20px; }
.footer { background-color: #f4f4f4; text-align: center; padding: 10px; font-size: 0.8em; color: #666; }
.highlight { color: #0056b3; }
</style>
</head>
<body>
<div class="email-container">
<div class="content">
<h2>Nuevo mensaje</h2>
<p><strong>Nombre:</strong> <span class="highlight">{{.Name}}</span></p>
<p><strong>Correo Electrónico:</strong> <span class="highlight">{{.Email}}</span></p>
<p><strong>Motivo:</strong> <span class="highlight">{{.Reason}}</span></p>
<p><strong>Mensaje:</strong></p>
<p>{{.Message}}</p>
</div>
<div class="footer">
<p>Este correo fue enviado automáticamente desde el formulario de contacto del sitio web Paraíso Del Jamón.</p>
</div>
</div>
</body>
</html>
`))
