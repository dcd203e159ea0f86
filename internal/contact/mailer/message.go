package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"

	"paraiso/internal/contact/models"
)

const base64LineLength = 76

// Compose renders msg as a MIME message: a plain and HTML alternative,
// wrapped in multipart/mixed when an attachment is present.
func Compose(msg *models.Message, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	header := func(k, v string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
	}

	header("From", msg.From)
	header("To", msg.To)
	if msg.ReplyTo != "" {
		header("Reply-To", msg.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header("Date", now.Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(msg.From)))
	header("MIME-Version", "1.0")

	altType, altBody, err := alternative(msg)
	if err != nil {
		return nil, err
	}

	if msg.Attachment == nil {
		header("Content-Type", altType)
		buf.WriteString("\r\n")
		buf.Write(altBody)
		return buf.Bytes(), nil
	}

	mixed := multipart.NewWriter(&buf)
	header("Content-Type", "multipart/mixed; boundary="+mixed.Boundary())
	buf.WriteString("\r\n")

	part, err := mixed.CreatePart(textproto.MIMEHeader{"Content-Type": {altType}})
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(altBody); err != nil {
		return nil, err
	}

	att := msg.Attachment
	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", mime.FormatMediaType(att.ContentType, map[string]string{"name": att.Filename}))
	attHeader.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": att.Filename}))
	attHeader.Set("Content-Transfer-Encoding", "base64")
	part, err = mixed.CreatePart(attHeader)
	if err != nil {
		return nil, err
	}
	if err := writeBase64(part, att.Content); err != nil {
		return nil, err
	}
	if err := mixed.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func alternative(msg *models.Message) (string, []byte, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)
	bodies := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	}
	for _, body := range bodies {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", body.contentType)
		h.Set("Content-Transfer-Encoding", "quoted-printable")
		part, err := alt.CreatePart(h)
		if err != nil {
			return "", nil, err
		}
		qp := quotedprintable.NewWriter(part)
		if _, err := qp.Write([]byte(body.content)); err != nil {
			return "", nil, err
		}
		if err := qp.Close(); err != nil {
			return "", nil, err
		}
	}
	if err := alt.Close(); err != nil {
		return "", nil, err
	}
	return "multipart/alternative; boundary=" + alt.Boundary(), buf.Bytes(), nil
}

func writeBase64(w io.Writer, content []byte) error {
	encoded := base64.StdEncoding.EncodeToString(content)
	for len(encoded) > base64LineLength {
		if _, err := io.WriteString(w, encoded[:base64LineLength]+"\r\n"); err != nil {
			return err
		}
		encoded = encoded[base64LineLength:]
	}
	_, err := io.WriteString(w, encoded+"\r\n")
	return err
}

func domainOf(addr string) string {
	if _, domain, ok := strings.Cut(addr, "@"); ok {
		return strings.Trim(domain, "> ")
	}
	return "localhost"
}
