package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net"
	"net/mail"
	"net/textproto"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paraiso/internal/contact/models"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func testMessage() *models.Message {
	return &models.Message{
		From:    "web@paraisodeljamon.com",
		To:      "info@paraisodeljamon.com",
		ReplyTo: "ana@example.com",
		Subject: "Nuevo mensaje de Ana Pérez",
		Text:    "Nombre: Ana Pérez",
		HTML:    "<p>Nombre: Ana Pérez</p>",
	}
}

func TestComposeWithoutAttachment(t *testing.T) {
	raw, err := Compose(testMessage(), fixedNow)
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	dec := new(mime.WordDecoder)
	subject, err := dec.DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Nuevo mensaje de Ana Pérez", subject)
	assert.Equal(t, "ana@example.com", msg.Header.Get("Reply-To"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])
	var types []string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		types = append(types, part.Header.Get("Content-Type"))
	}
	assert.Equal(t, []string{"text/plain; charset=utf-8", "text/html; charset=utf-8"}, types)
}

func TestComposeWithAttachment(t *testing.T) {
	content := bytes.Repeat([]byte("%PDF-1.4 "), 40)
	m := testMessage()
	m.Attachment = &models.Attachment{Filename: "factura.pdf", ContentType: "application/pdf", Content: content}

	raw, err := Compose(m, fixedNow)
	require.NoError(t, err)

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	require.Equal(t, "multipart/mixed", mediaType)

	reader := multipart.NewReader(msg.Body, params["boundary"])
	first, err := reader.NextPart()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first.Header.Get("Content-Type"), "multipart/alternative"))

	second, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "factura.pdf", second.FileName())
	encoded, err := io.ReadAll(second)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, content, decoded)
}

func TestNewSMTPRequiresServer(t *testing.T) {
	_, err := NewSMTP(Config{})
	assert.ErrorIs(t, err, ErrMissingServer)
}

// fakeSMTP accepts one session and records the envelope and data.
type fakeSMTP struct {
	ln   net.Listener
	done chan struct{}
	from string
	to   string
	data []byte
}

func startFakeSMTP(t *testing.T) *fakeSMTP {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	f := &fakeSMTP{ln: ln, done: make(chan struct{})}
	t.Cleanup(func() { _ = ln.Close() })
	go f.serve()
	return f
}

func (f *fakeSMTP) port() int {
	return f.ln.Addr().(*net.TCPAddr).Port
}

func (f *fakeSMTP) serve() {
	defer close(f.done)
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()
	tp := textproto.NewConn(conn)
	_ = tp.PrintfLine("220 localhost ESMTP")
	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		cmd := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			_ = tp.PrintfLine("250 localhost")
		case strings.HasPrefix(cmd, "MAIL FROM:"):
			f.from = strings.Trim(line[len("MAIL FROM:"):], "<> ")
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO:"):
			f.to = strings.Trim(line[len("RCPT TO:"):], "<> ")
			_ = tp.PrintfLine("250 OK")
		case cmd == "DATA":
			_ = tp.PrintfLine("354 go ahead")
			f.data, _ = tp.ReadDotBytes()
			_ = tp.PrintfLine("250 queued")
		case cmd == "QUIT":
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("502 unsupported")
		}
	}
}

func TestSMTPMailerSend(t *testing.T) {
	server := startFakeSMTP(t)
	m, err := NewSMTP(Config{Server: "127.0.0.1", Port: server.port(), Timeout: 5 * time.Second}, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)

	require.NoError(t, m.Send(context.Background(), testMessage()))

	select {
	case <-server.done:
	case <-time.After(5 * time.Second):
		t.Fatal("fake smtp server did not finish")
	}
	assert.Equal(t, "web@paraisodeljamon.com", server.from)
	assert.Equal(t, "info@paraisodeljamon.com", server.to)
	assert.Contains(t, string(server.data), "Reply-To: ana@example.com")
}

func TestSMTPMailerDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	m, err := NewSMTP(Config{Server: "127.0.0.1", Port: port, Timeout: time.Second})
	require.NoError(t, err)

	err = m.Send(context.Background(), testMessage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial smtp 127.0.0.1:"+strconv.Itoa(port))
}

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	m := NewLog(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, m.Send(context.Background(), testMessage()))
	assert.Contains(t, buf.String(), "info@paraisodeljamon.com")
}
