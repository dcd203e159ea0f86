package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	blogmodels "paraiso/internal/blog/models"
	dErrors "paraiso/pkg/domain-errors"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL+"/api/", time.Second, opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew(t *testing.T) {
	_, err := New("  ", time.Second)
	assert.ErrorIs(t, err, ErrMissingBaseURL)

	_, err = New("not a url", time.Second)
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Run("returns the issued token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/get-token", r.URL.Path)
			assert.Empty(t, r.Header.Get(TokenHeader))
			writeJSON(w, http.StatusOK, map[string]string{"token": "tok-1"})
		})

		tok, err := c.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "tok-1", tok)
	})

	t.Run("empty token is bad data", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{})
		})

		_, err := c.Token(context.Background())
		assert.Equal(t, ErrorBadData, CategoryOf(err))
	})
}

func TestBlogLookups(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.RequestURI())
		assert.Equal(t, "tok", r.Header.Get(TokenHeader))
		switch r.URL.Path {
		case "/api/blog/jamon-iberico":
			writeJSON(w, http.StatusOK, blogmodels.Post{ID: 7, Locale: "es", Slug: "jamon-iberico"})
		case "/api/blog/by-id/7":
			writeJSON(w, http.StatusOK, blogmodels.Post{ID: 7, Locale: r.URL.Query().Get("idioma"), Slug: "iberian-ham"})
		case "/api/blog":
			writeJSON(w, http.StatusOK, []blogmodels.Post{{ID: 1}, {ID: 2}})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Blog not found"})
		}
	})
	ctx := context.Background()

	post, err := c.BlogBySlug(ctx, "tok", "jamon-iberico", "es")
	require.NoError(t, err)
	assert.Equal(t, 7, post.ID)

	translated, err := c.BlogByID(ctx, "tok", post.ID, "en")
	require.NoError(t, err)
	assert.Equal(t, "iberian-ham", translated.Slug)
	assert.Equal(t, "en", translated.Locale)

	list, err := c.BlogList(ctx, "tok", "de")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = c.BlogBySlug(ctx, "tok", "missing", "es")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Blog not found", cerr.Message)
	assert.True(t, cerr.Responded())

	assert.Equal(t, []string{
		"/api/blog/jamon-iberico?idioma=es",
		"/api/blog/by-id/7?idioma=en",
		"/api/blog?idioma=de",
		"/api/blog/missing?idioma=es",
	}, seen)

	_, err = c.BlogBySlug(ctx, "tok", "", "es")
	assert.Equal(t, ErrorRequestConstruction, CategoryOf(err))
}

func TestStatusCategories(t *testing.T) {
	cases := []struct {
		status   int
		category ErrorCategory
		code     dErrors.Code
	}{
		{http.StatusForbidden, ErrorAuthentication, dErrors.CodeUpstream},
		{http.StatusBadRequest, ErrorBadData, dErrors.CodeBadRequest},
		{http.StatusNotFound, ErrorNotFound, dErrors.CodeNotFound},
		{http.StatusGatewayTimeout, ErrorTimeout, dErrors.CodeTimeout},
		{http.StatusServiceUnavailable, ErrorProviderOutage, dErrors.CodeUpstream},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tc.status, map[string]string{"error": "x", "error_description": "nope"})
			})

			_, err := c.Charcuterie(context.Background(), "tok", "es")
			assert.Equal(t, tc.category, CategoryOf(err))
			assert.True(t, dErrors.HasCode(ToDomain(err), tc.code))
		})
	}
}

func TestTransportFailures(t *testing.T) {
	t.Run("unreachable api is no response", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		c, err := New(addr, time.Second)
		require.NoError(t, err)
		_, err = c.Token(context.Background())
		assert.Equal(t, ErrorNoResponse, CategoryOf(err))
		var cerr *Error
		require.ErrorAs(t, err, &cerr)
		assert.False(t, cerr.Responded())
	})

	t.Run("slow api times out", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}, WithHTTPClient(&http.Client{Timeout: 20 * time.Millisecond}))

		_, err := c.Token(context.Background())
		assert.Equal(t, ErrorTimeout, CategoryOf(err))
	})

	t.Run("malformed body is bad data", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("{"))
		})

		_, err := c.BlogList(context.Background(), "tok", "es")
		assert.Equal(t, ErrorBadData, CategoryOf(err))
	})
}

func TestSubmitContact(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/contacto", r.URL.Path)
		assert.Equal(t, "tok", r.Header.Get(TokenHeader))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Ana Pérez", r.FormValue("name"))
		assert.Equal(t, "invoice", r.FormValue("reason"))
		assert.Equal(t, "ana@example.com", r.FormValue("email"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "factura.pdf", hdr.Filename)
		assert.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))
		data, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF-1.4", string(data))

		writeJSON(w, http.StatusOK, map[string]string{"message": "Formulario enviado correctamente"})
	})

	msg, err := c.SubmitContact(context.Background(), "tok", ContactSubmission{
		Name:    "Ana Pérez",
		Reason:  "invoice",
		Email:   "ana@example.com",
		Message: "Necesito la factura",
		File: &Attachment{
			Filename:    "factura.pdf",
			ContentType: "application/pdf",
			Content:     strings.NewReader("%PDF-1.4"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Formulario enviado correctamente", msg)
}

func TestMetricsObserveOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{})
	}, WithMetrics(m))

	_, _ = c.BlogByID(context.Background(), "tok", 3, "de")

	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("blog_by_id", "not_found")), 0)
}
