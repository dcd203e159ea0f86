package mailer

import (
	"context"
	"log/slog"

	"paraiso/internal/contact/models"
)

// LogMailer logs messages instead of sending them. Development only.
type LogMailer struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, msg *models.Message) error {
	attrs := []any{
		"to", msg.To,
		"reply_to", msg.ReplyTo,
		"subject", msg.Subject,
	}
	if msg.Attachment != nil {
		attrs = append(attrs, "attachment", msg.Attachment.Filename, "sha256", msg.Attachment.SHA256)
	}
	m.logger.InfoContext(ctx, "contact mail not sent: no smtp server configured", attrs...)
	return nil
}
