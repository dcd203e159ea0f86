package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"paraiso/internal/audit"
	consenthandler "paraiso/internal/consent/handler"
	consentmetrics "paraiso/internal/consent/metrics"
	consentservice "paraiso/internal/consent/service"
	"paraiso/internal/content/client"
	"paraiso/internal/locale"
	localehandler "paraiso/internal/locale/handler"
	localemetrics "paraiso/internal/locale/metrics"
	localeservice "paraiso/internal/locale/service"
	"paraiso/internal/platform/config"
	"paraiso/internal/platform/health"
	"paraiso/internal/platform/i18n"
	"paraiso/internal/platform/logger"
	redisplatform "paraiso/internal/platform/redis"
	"paraiso/internal/platform/tracer"
	"paraiso/internal/session"
	"paraiso/internal/site"
	"paraiso/internal/tracking"
	httptransport "paraiso/internal/transport/http"
	"paraiso/pkg/platform/cookies"
	"paraiso/pkg/platform/middleware/metadata"
	request "paraiso/pkg/platform/middleware/request"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = 10 * time.Minute
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.SiteFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("site server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("site server stopped")
}

// run wires the site backend and blocks until a signal arrives or a
// component fails.
func run(cfg config.Site, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	log.Info("initializing paraiso site",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"content_api", cfg.ContentAPIURL,
		"cookie_domains", cfg.CookieDomains,
	)

	healthHandler := health.New("paraiso-site", cfg.Environment)

	redisClient, err := redisplatform.New(cfg.Redis, reg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	var (
		store       session.Store
		memSessions *session.InMemoryStore
	)
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck // process is exiting
		store = session.NewRedisStore(redisClient.Client)
		healthHandler.RegisterCheck("redis", redisClient.Health)
		log.Info("using redis session store")
	} else {
		memSessions = session.NewInMemoryStore()
		store = memSessions
		log.Info("using in-memory session store")
	}
	sessions := session.NewManager(store, session.WithTTL(cfg.SessionTTL))

	auditStore := audit.NewInMemoryStore()
	auditor := audit.NewPublisher(auditStore, audit.WithAsyncBuffer(1024), audit.WithPublisherLogger(log))
	defer auditor.Close()

	content, err := client.New(cfg.ContentAPIURL, cfg.ContentTimeout,
		client.WithTracer(tracer.NewOTel("paraiso/content")),
		client.WithMetrics(client.NewMetrics(reg)),
	)
	if err != nil {
		return fmt.Errorf("content client: %w", err)
	}

	translator, err := i18n.New()
	if err != nil {
		return fmt.Errorf("load translations: %w", err)
	}

	trackingMetrics := tracking.NewMetrics(reg)
	recorder := tracking.NewRecorder(log, trackingMetrics)
	ga := tracking.NewGATracker(cfg.Analytics, log, trackingMetrics)
	defer ga.Close()
	if cfg.Analytics.MeasurementID == "" {
		log.Warn("GA_MEASUREMENT_ID not set; google analytics consent cannot be applied")
	}

	consent := consentservice.New(ga, recorder, auditor, log,
		consentservice.WithMetrics(consentmetrics.New(reg)),
		consentservice.WithCookieDomains(cfg.CookieDomains),
	)

	localeMetrics := localemetrics.New(reg)
	locales := localeservice.New(content, sessions, auditor, log, localeservice.WithMetrics(localeMetrics))
	redirector := locale.NewRedirector(locales, log, locale.WithRedirectMetrics(localeMetrics))

	proxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("parse TRUSTED_PROXIES: %w", err)
	}

	trackingHandler := tracking.NewHandler(recorder, ga, sessions, log)
	sessionMiddleware := session.NewMiddleware(sessions, log, cookies.Options{Secure: cfg.SecureCookies}, consent, locales)

	router := httptransport.NewSiteRouter(httptransport.Config{
		Logger:         log,
		Gatherer:       reg,
		Metrics:        request.NewMetrics(reg, "site"),
		Metadata:       metadata.NewMiddleware(&metadata.Config{TrustedProxies: proxies}),
		RequestTimeout: cfg.RequestTimeout,
	}, healthHandler, sessionMiddleware,
		consenthandler.New(consent, sessions, translator, log),
		localehandler.New(locales, sessions, log),
		trackingHandler,
		site.New(content, trackingHandler, sessions, redirector, translator, log),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if memSessions != nil {
					if n := memSessions.Sweep(); n > 0 {
						log.Debug("expired sessions swept", "count", n)
					}
				}
				auditStore.Prune(time.Now().Add(-cfg.SessionTTL))
				if redisClient != nil {
					redisClient.RecordPoolStats()
				}
			}
		}
	})

	return g.Wait()
}
