// Package service enforces per-IP request limits on the content API.
//
// Each endpoint class has its own sliding window per client IP. A class
// without a configured limit is denied and logged so a missing entry
// surfaces instead of silently lifting the limit.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"paraiso/internal/ratelimit/config"
	"paraiso/internal/ratelimit/metrics"
	"paraiso/internal/ratelimit/models"
	"paraiso/pkg/platform/privacy"
	"paraiso/pkg/requestcontext"
)

// BucketStore checks rate limits using sliding window counters.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Service is safe for concurrent use by HTTP middleware.
type Service struct {
	buckets BucketStore
	logger  *slog.Logger
	config  *config.Config
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig overrides the default limits.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(buckets BucketStore, opts ...Option) (*Service, error) {
	if buckets == nil {
		return nil, errors.New("buckets store is required")
	}
	svc := &Service{
		buckets: buckets,
		logger:  slog.Default(),
		config:  config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// CheckIP consumes one hit from the IP's bucket for class.
func (s *Service) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	limit, window, ok := s.config.GetIPLimit(class)
	if !ok {
		s.logger.ErrorContext(ctx, "rate_limit_config_missing",
			"endpoint_class", class,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.record(class, false)
		return &models.RateLimitResult{Allowed: false, ResetAt: time.Now()}, nil
	}

	key := models.NewRateLimitKey(models.KeyPrefixIP, ip, class)
	result, err := s.buckets.Allow(ctx, key.String(), limit, window)
	if err != nil {
		return nil, err
	}
	s.record(class, result.Allowed)

	if !result.Allowed {
		s.logger.WarnContext(ctx, "rate_limit_exceeded",
			"endpoint_class", class,
			"ip_prefix", privacy.AnonymizeIP(ip),
			"limit", result.Limit,
			"retry_after", result.RetryAfter,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return result, nil
}

func (s *Service) record(class models.EndpointClass, allowed bool) {
	if s.metrics != nil {
		s.metrics.RecordDecision(string(class), allowed)
	}
}
