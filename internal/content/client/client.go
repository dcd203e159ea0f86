// Package client calls the content API: timed tokens, blog posts, the
// charcuterie catalogue and contact form submissions.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	blogmodels "paraiso/internal/blog/models"
	charcmodels "paraiso/internal/charcuterie/models"
	"paraiso/internal/platform/tracer"
)

// TokenHeader carries the timed token on protected API calls.
const TokenHeader = "x-timed-token"

// maxResponseBytes bounds how much of an API answer is read.
const maxResponseBytes = 4 << 20

// ErrMissingBaseURL is returned by New when no API address is configured.
var ErrMissingBaseURL = errors.New("content api base url is required")

type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     tracer.Tracer
	metrics    *Metrics
}

type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client for the API rooted at baseURL, e.g.
// "https://api.paraisodeljamon.com/api".
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid content api base url: %w", err)
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     tracer.NoopTracer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Token fetches a fresh timed token. Tokens are never cached: each
// protected call sequence asks for its own.
func (c *Client) Token(ctx context.Context) (string, error) {
	resp, err := getJSON[tokenResponse](ctx, c, "token", "/get-token", nil, "")
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", newError(ErrorBadData, "token", http.StatusOK, "empty token in response", nil)
	}
	return resp.Token, nil
}

// BlogBySlug fetches the post with slug in locale.
func (c *Client) BlogBySlug(ctx context.Context, token, slug, locale string) (*blogmodels.Post, error) {
	if slug == "" {
		return nil, newError(ErrorRequestConstruction, "blog_by_slug", 0, "slug is required", nil)
	}
	post, err := getJSON[blogmodels.Post](ctx, c, "blog_by_slug", "/blog/"+url.PathEscape(slug), localeQuery(locale), token)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// BlogByID fetches the translation of post id in locale.
func (c *Client) BlogByID(ctx context.Context, token string, id int, locale string) (*blogmodels.Post, error) {
	post, err := getJSON[blogmodels.Post](ctx, c, "blog_by_id", "/blog/by-id/"+strconv.Itoa(id), localeQuery(locale), token)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// BlogList fetches every post in locale, newest first.
func (c *Client) BlogList(ctx context.Context, token, locale string) ([]blogmodels.Post, error) {
	return getJSON[[]blogmodels.Post](ctx, c, "blog_list", "/blog", localeQuery(locale), token)
}

// Charcuterie fetches the catalogue in locale.
func (c *Client) Charcuterie(ctx context.Context, token, locale string) ([]charcmodels.Product, error) {
	return getJSON[[]charcmodels.Product](ctx, c, "charcuterie", "/charcuteria", localeQuery(locale), token)
}

// Attachment is a file forwarded with a contact submission.
type Attachment struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// ContactSubmission mirrors the public contact form.
type ContactSubmission struct {
	Name    string
	Reason  string
	Email   string
	Message string
	File    *Attachment
}

type messageResponse struct {
	Message string `json:"message"`
}

// SubmitContact posts the form as multipart data and returns the API
// confirmation message.
func (c *Client) SubmitContact(ctx context.Context, token string, sub ContactSubmission) (string, error) {
	const op = "contact"

	body, contentType, err := encodeContact(sub)
	if err != nil {
		return "", newError(ErrorRequestConstruction, op, 0, "failed to encode form", err)
	}
	resp, err := doJSON[messageResponse](ctx, c, op, http.MethodPost, "/contacto", nil, token, body, contentType)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func encodeContact(sub ContactSubmission) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"name", sub.Name},
		{"reason", sub.Reason},
		{"email", sub.Email},
		{"message", sub.Message},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if sub.File != nil && sub.File.Content != nil {
		part, err := createFilePart(w, sub.File)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, sub.File.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func createFilePart(w *multipart.Writer, a *Attachment) (io.Writer, error) {
	if a.ContentType == "" {
		return w.CreateFormFile("file", a.Filename)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, a.Filename))
	h.Set("Content-Type", a.ContentType)
	return w.CreatePart(h)
}

func localeQuery(locale string) url.Values {
	if locale == "" {
		return nil
	}
	return url.Values{"idioma": []string{locale}}
}

func getJSON[T any](ctx context.Context, c *Client, op, path string, query url.Values, token string) (T, error) {
	return doJSON[T](ctx, c, op, http.MethodGet, path, query, token, nil, "")
}

func doJSON[T any](ctx context.Context, c *Client, op, method, path string, query url.Values, token string, body io.Reader, contentType string) (out T, err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "content."+op,
		tracer.String("http.method", method),
		tracer.String("content.path", path),
	)
	defer func() {
		span.End(err)
		c.metrics.observe(op, err, time.Since(start).Seconds())
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return out, newError(ErrorRequestConstruction, op, 0, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(TokenHeader, token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return out, newError(ErrorTimeout, op, 0, "request timeout", err)
		}
		return out, newError(ErrorNoResponse, op, 0, "no response from content api", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(tracer.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return out, newError(ErrorProviderOutage, op, resp.StatusCode, "failed to read response body", err)
	}

	if cerr := statusError(op, resp.StatusCode, raw); cerr != nil {
		return out, cerr
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, newError(ErrorBadData, op, resp.StatusCode, "failed to parse response", err)
	}
	return out, nil
}

type timeoutError interface{ Timeout() bool }

func isTimeout(err error) bool {
	var t timeoutError
	return errors.As(err, &t) && t.Timeout()
}

// errorBody accepts both error shapes the API may produce.
type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Detail      string `json:"detail"`
}

func statusError(op string, status int, raw []byte) *Error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := http.StatusText(status)
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		switch {
		case eb.Description != "":
			msg = eb.Description
		case eb.Detail != "":
			msg = eb.Detail
		}
	}

	switch {
	case status == http.StatusNotFound:
		return newError(ErrorNotFound, op, status, msg, nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newError(ErrorAuthentication, op, status, msg, nil)
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return newError(ErrorTimeout, op, status, msg, nil)
	case status >= 400 && status < 500:
		return newError(ErrorBadData, op, status, msg, nil)
	default:
		return newError(ErrorProviderOutage, op, status, msg, nil)
	}
}
