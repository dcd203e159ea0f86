package cleanup

import (
	"context"
	"log/slog"
	"time"

	"paraiso/internal/ratelimit/metrics"
)

// CleanupResult summarizes a single sweep.
type CleanupResult struct {
	BucketsRemoved   int
	BucketsRemaining int
	Duration         time.Duration
}

type BucketStore interface {
	Sweep(ctx context.Context) (removed, remaining int, err error)
}

type Option func(*BucketCleanupService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *BucketCleanupService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithInterval(interval time.Duration) Option {
	return func(s *BucketCleanupService) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BucketCleanupService) {
		s.metrics = m
	}
}

// BucketCleanupService drops idle buckets so the in-memory store does not
// grow with every address that ever called the API.
type BucketCleanupService struct {
	store    BucketStore
	logger   *slog.Logger
	interval time.Duration
	metrics  *metrics.Metrics
}

func New(store BucketStore, opts ...Option) *BucketCleanupService {
	service := &BucketCleanupService{
		store:    store,
		logger:   slog.Default(),
		interval: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Start sweeps on every tick until ctx is done.
func (s *BucketCleanupService) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			res, err := s.RunOnce(ctx)
			if err != nil {
				s.logger.Error("ratelimit_cleanup_failed", "error", err)
				continue
			}
			s.logger.Debug("ratelimit_cleanup_completed",
				"buckets_removed", res.BucketsRemoved,
				"buckets_remaining", res.BucketsRemaining,
				"duration_ms", res.Duration.Milliseconds(),
			)
		case <-ctx.Done():
			s.logger.Info("ratelimit cleanup worker stopping", "reason", ctx.Err())
			return nil
		}
	}
}

// RunOnce executes a single sweep and records its metrics.
func (s *BucketCleanupService) RunOnce(ctx context.Context) (*CleanupResult, error) {
	start := time.Now()
	removed, remaining, err := s.store.Sweep(ctx)
	duration := time.Since(start)

	if s.metrics != nil {
		s.metrics.CleanupDurationSeconds.Observe(duration.Seconds())
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.CleanupRunsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.CleanupRunsTotal.WithLabelValues("success").Inc()
		s.metrics.CleanupBucketsRemoved.Add(float64(removed))
		s.metrics.TrackedBuckets.Set(float64(remaining))
	}
	return &CleanupResult{BucketsRemoved: removed, BucketsRemaining: remaining, Duration: duration}, nil
}
