// Package httptransport assembles the chi routers of both binaries.
// Handlers own their routes; this package only orders middleware.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paraiso/internal/ratelimit/models"
	ratelimit "paraiso/internal/ratelimit/middleware"
	"paraiso/internal/session"
	"paraiso/internal/token"
	"paraiso/pkg/platform/middleware/device"
	"paraiso/pkg/platform/middleware/metadata"
	request "paraiso/pkg/platform/middleware/request"
	"paraiso/pkg/validation"
)

// Registrar mounts a handler's routes.
type Registrar interface {
	Register(r chi.Router)
}

type Config struct {
	Logger         *slog.Logger
	Gatherer       prometheus.Gatherer
	Metrics        *request.Metrics
	Metadata       *metadata.Middleware
	RequestTimeout time.Duration
}

func newBase(cfg Config, health Registrar) *chi.Mux {
	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	if cfg.Metadata != nil {
		r.Use(cfg.Metadata.Handler)
	}
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.LatencyMiddleware(cfg.Metrics))
	if cfg.RequestTimeout > 0 {
		r.Use(request.Timeout(cfg.RequestTimeout))
	}

	if health != nil {
		health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// NewSiteRouter serves the site backend. Every handler runs inside a
// hydrated session.
func NewSiteRouter(cfg Config, health Registrar, sessions *session.Middleware, handlers ...Registrar) http.Handler {
	r := newBase(cfg, health)
	r.Group(func(r chi.Router) {
		r.Use(device.Device)
		r.Use(request.BodyLimit(validation.MaxMultipartBody))
		r.Use(sessions.Handler)
		for _, h := range handlers {
			h.Register(r)
		}
	})
	return r
}

// APIConfig adds the content API specifics.
type APIConfig struct {
	Config
	AllowedOrigins []string
	Verifier       token.Verifier
	// RateLimit is optional; nil disables per-IP limits.
	RateLimit *ratelimit.Middleware
}

// NewAPIRouter serves the content API under /api. The token endpoint is
// public; protected handlers require a valid timed token. Requests without
// a valid token are rejected before they count against the IP's limit.
func NewAPIRouter(cfg APIConfig, health Registrar, tokens Registrar, protected ...Registrar) http.Handler {
	r := newBase(cfg.Config, health)
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", token.Header, "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
		r.Group(func(r chi.Router) {
			if cfg.RateLimit != nil {
				r.Use(cfg.RateLimit.RateLimit(models.ClassToken))
			}
			tokens.Register(r)
		})
		r.Group(func(r chi.Router) {
			r.Use(token.RequireTimedToken(cfg.Verifier, cfg.Logger))
			if cfg.RateLimit != nil {
				r.Use(cfg.RateLimit.ByMethod())
			}
			for _, h := range protected {
				h.Register(r)
			}
		})
	})
	return r
}
