package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/platform/httputil"
	dErrors "paraiso/pkg/domain-errors"
	"paraiso/pkg/requestcontext"
)

// Hydrator seeds a session from what the browser sent. It runs for new
// sessions and for sessions whose consent state went stale.
type Hydrator interface {
	Hydrate(ctx context.Context, sess *Session, jar cookies.Jar, r *http.Request)
}

// HydratorFunc adapts a function to Hydrator.
type HydratorFunc func(ctx context.Context, sess *Session, jar cookies.Jar, r *http.Request)

func (f HydratorFunc) Hydrate(ctx context.Context, sess *Session, jar cookies.Jar, r *http.Request) {
	f(ctx, sess, jar, r)
}

// Middleware attaches the browser session and the cookie jar to every request.
type Middleware struct {
	manager    *Manager
	hydrators  []Hydrator
	cookieOpts cookies.Options
	logger     *slog.Logger
}

func NewMiddleware(manager *Manager, logger *slog.Logger, cookieOpts cookies.Options, hydrators ...Hydrator) *Middleware {
	return &Middleware{
		manager:    manager,
		hydrators:  hydrators,
		cookieOpts: cookieOpts,
		logger:     logger,
	}
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jar := cookies.NewHTTPJar(w, r, m.cookieOpts)
		ctx := cookies.WithJar(r.Context(), jar)
		r = r.WithContext(ctx)

		sess, err := m.resolve(ctx, w, r, jar)
		if err != nil {
			m.logger.ErrorContext(ctx, "failed to resolve session",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, err)
			return
		}

		ctx = requestcontext.WithSessionID(ctx, sess.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) resolve(ctx context.Context, w http.ResponseWriter, r *http.Request, jar cookies.Jar) (*Session, error) {
	if id, ok := jar.Get(CookieName); ok && uuid.Validate(id) == nil {
		sess, err := m.manager.Update(ctx, id, func(s *Session) error {
			if s.Consent.Stale {
				m.hydrate(ctx, s, jar, r)
			}
			return nil
		})
		if err == nil {
			return sess, nil
		}
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, err
		}
	}

	sess, err := m.manager.Create(ctx, func(s *Session) {
		m.hydrate(ctx, s, jar, r)
	})
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.cookieOpts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess, nil
}

func (m *Middleware) hydrate(ctx context.Context, sess *Session, jar cookies.Jar, r *http.Request) {
	for _, h := range m.hydrators {
		h.Hydrate(ctx, sess, jar, r)
	}
}

// Current loads the session of the request. It must run behind Handler.
func Current(ctx context.Context, manager *Manager, logger *slog.Logger) (*Session, cookies.Jar, error) {
	id, err := httputil.RequireSessionID(ctx, logger)
	if err != nil {
		return nil, nil, err
	}
	jar := cookies.FromContext(ctx)
	if jar == nil {
		return nil, nil, dErrors.New(dErrors.CodeInternal, "cookie context error")
	}
	sess, err := manager.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return sess, jar, nil
}
