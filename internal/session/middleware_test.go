package session

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/requestcontext"
)

type recordingHydrator struct {
	calls int
}

func (h *recordingHydrator) Hydrate(_ context.Context, sess *Session, _ cookies.Jar, r *http.Request) {
	h.calls++
	sess.Consent.Stale = false
	if sess.Locale == "" {
		sess.Locale = r.Header.Get("Accept-Language")[:2]
	}
}

func newTestMiddleware() (*Middleware, *Manager, *recordingHydrator) {
	manager := NewManager(NewInMemoryStore())
	h := &recordingHydrator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMiddleware(manager, logger, cookies.Options{}, h), manager, h
}

func TestMiddleware(t *testing.T) {
	var seenID string
	var seenJar cookies.Jar
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = requestcontext.SessionID(r.Context())
		seenJar = cookies.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("new browser gets a hydrated session and cookie", func(t *testing.T) {
		mw, manager, h := newTestMiddleware()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "de-DE,de;q=0.9")
		w := httptest.NewRecorder()

		mw.Handler(next).ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code)
		require.NotEmpty(t, seenID)
		assert.NotNil(t, seenJar)
		assert.Equal(t, 1, h.calls)

		resp := w.Result()
		defer resp.Body.Close()
		require.Len(t, resp.Cookies(), 1)
		c := resp.Cookies()[0]
		assert.Equal(t, CookieName, c.Name)
		assert.Equal(t, seenID, c.Value)
		assert.True(t, c.HttpOnly)

		sess, err := manager.Get(context.Background(), seenID)
		require.NoError(t, err)
		assert.Equal(t, "de", sess.Locale)
	})

	t.Run("known session is reused without hydration", func(t *testing.T) {
		mw, manager, h := newTestMiddleware()
		sess, err := manager.Create(context.Background(), nil)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.ID})
		w := httptest.NewRecorder()

		mw.Handler(next).ServeHTTP(w, req)

		assert.Equal(t, sess.ID, seenID)
		assert.Equal(t, 0, h.calls)
		assert.Empty(t, w.Header().Values("Set-Cookie"))
	})

	t.Run("stale session is hydrated again", func(t *testing.T) {
		mw, manager, h := newTestMiddleware()
		sess, err := manager.Create(context.Background(), func(s *Session) {
			s.Locale = "es"
			s.Consent.Stale = true
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: sess.ID})
		mw.Handler(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, 1, h.calls)
		stored, err := manager.Get(context.Background(), sess.ID)
		require.NoError(t, err)
		assert.False(t, stored.Consent.Stale)
		assert.Equal(t, "es", stored.Locale)
	})

	t.Run("unknown or forged id starts a new session", func(t *testing.T) {
		mw, _, h := newTestMiddleware()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", "en")
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})

		mw.Handler(next).ServeHTTP(httptest.NewRecorder(), req)

		assert.NotEqual(t, "not-a-uuid", seenID)
		assert.Equal(t, 1, h.calls)
	})
}
