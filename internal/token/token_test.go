package token

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/requestcontext"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, now *time.Time) *Service {
	t.Helper()
	s, err := NewService("test-secret", 5*time.Minute, WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return s
}

func issueAt(t *testing.T, s *Service, at time.Time) string {
	t.Helper()
	tok, err := s.Issue(requestcontext.WithTime(context.Background(), at))
	require.NoError(t, err)
	return tok
}

func TestNewService(t *testing.T) {
	_, err := NewService("", time.Minute)
	assert.Error(t, err)
	_, err = NewService("k", 500*time.Millisecond)
	assert.Error(t, err)
}

func TestVerifyWindow(t *testing.T) {
	now := epoch
	s := newTestService(t, &now)
	tok := issueAt(t, s, epoch)

	assert.NoError(t, s.Verify(tok), "same interval")

	now = epoch.Add(5 * time.Minute)
	assert.NoError(t, s.Verify(tok), "previous interval is tolerated")

	now = epoch.Add(10 * time.Minute)
	err := s.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalid, "two intervals later")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}

func TestVerifyRejectsForgeries(t *testing.T) {
	now := epoch
	s := newTestService(t, &now)

	t.Run("empty", func(t *testing.T) {
		assert.ErrorIs(t, s.Verify(""), ErrInvalid)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewService("other-secret", 5*time.Minute)
		require.NoError(t, err)
		assert.ErrorIs(t, s.Verify(issueAt(t, other, epoch)), ErrInvalid)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Interval:         s.intervalOf(epoch),
			RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: jwt.NewNumericDate(epoch.Add(time.Hour))},
		})
		str, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		assert.ErrorIs(t, s.Verify(str), ErrInvalid)
	})

	t.Run("future interval", func(t *testing.T) {
		assert.ErrorIs(t, s.Verify(issueAt(t, s, epoch.Add(time.Hour))), ErrInvalid)
	})
}

func TestHandlerAndMiddleware(t *testing.T) {
	now := time.Now()
	s := newTestService(t, &now)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	NewHandler(s, logger).Register(r)
	r.With(RequireTimedToken(s, logger)).Get("/blog", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get-token", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)

	tok := issueAt(t, s, now)

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	req.Header.Set(Header, tok)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blog", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Token inválido o expirado")
}
