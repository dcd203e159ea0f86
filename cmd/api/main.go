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

	blogHandler "paraiso/internal/blog/handler"
	blogStore "paraiso/internal/blog/store"
	charcHandler "paraiso/internal/charcuterie/handler"
	charcStore "paraiso/internal/charcuterie/store"
	contactHandler "paraiso/internal/contact/handler"
	"paraiso/internal/contact/mailer"
	contactMetrics "paraiso/internal/contact/metrics"
	contactService "paraiso/internal/contact/service"
	"paraiso/internal/platform/config"
	"paraiso/internal/platform/database"
	"paraiso/internal/platform/health"
	"paraiso/internal/platform/logger"
	rlMetrics "paraiso/internal/ratelimit/metrics"
	ratelimit "paraiso/internal/ratelimit/middleware"
	rlService "paraiso/internal/ratelimit/service"
	"paraiso/internal/ratelimit/store/bucket"
	"paraiso/internal/ratelimit/workers/cleanup"
	"paraiso/internal/seeder"
	"paraiso/internal/token"
	httptransport "paraiso/internal/transport/http"
	"paraiso/migrations"
	"paraiso/pkg/platform/middleware/metadata"
	request "paraiso/pkg/platform/middleware/request"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := config.APIFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("content api stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("content api stopped")
}

type postStore interface {
	blogHandler.Store
	seeder.PostStore
}

type productStore interface {
	charcHandler.Store
	seeder.ProductStore
}

func run(cfg config.API, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	log.Info("initializing paraiso content api",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"allowed_origins", cfg.AllowedOrigins,
	)

	healthHandler := health.New("paraiso-api", cfg.Environment)

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	var (
		posts    postStore
		products productStore
	)
	if pool != nil {
		defer pool.Close() //nolint:errcheck // process is exiting
		if err := database.Migrate(pool.DB(), migrations.FS); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		pool.RegisterStats(reg)
		healthHandler.RegisterCheck("postgres", pool.Health)
		posts = blogStore.NewPostgres(pool.DB())
		products = charcStore.NewPostgres(pool.DB())
		log.Info("using postgres content stores")
	} else {
		posts = blogStore.NewInMemory()
		products = charcStore.NewInMemory()
		if err := seeder.New(posts, products, log).SeedAll(ctx); err != nil {
			return fmt.Errorf("seed demo content: %w", err)
		}
		log.Warn("DATABASE_URL not set; serving seeded in-memory content")
	}

	proxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("parse TRUSTED_PROXIES: %w", err)
	}

	tokens, err := token.NewService(cfg.TokenSecret, cfg.TokenInterval)
	if err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	var mail contactService.Mailer
	if cfg.SMTP.Server != "" {
		mail, err = mailer.NewSMTP(mailer.Config{
			Server:   cfg.SMTP.Server,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		})
		if err != nil {
			return fmt.Errorf("smtp mailer: %w", err)
		}
	} else {
		mail = mailer.NewLog(log)
		log.Warn("SMTP_SERVER not set; contact mail is logged, not sent")
	}
	contact, err := contactService.New(mail, contactService.Recipients{
		From:      cfg.SMTP.From,
		Info:      cfg.SMTP.InfoRecipient,
		Webmaster: cfg.SMTP.WebmasterAddress,
	}, log, contactService.WithMetrics(contactMetrics.New(reg)))
	if err != nil {
		return fmt.Errorf("contact service: %w", err)
	}

	buckets := bucket.NewInMemoryBucketStore()
	limitMetrics := rlMetrics.New(reg)
	limiter, err := rlService.New(buckets, rlService.WithLogger(log), rlService.WithMetrics(limitMetrics))
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	bucketCleanup := cleanup.New(buckets, cleanup.WithLogger(log), cleanup.WithMetrics(limitMetrics))

	router := httptransport.NewAPIRouter(httptransport.APIConfig{
		Config: httptransport.Config{
			Logger:         log,
			Gatherer:       reg,
			Metrics:        request.NewMetrics(reg, "api"),
			Metadata:       metadata.NewMiddleware(&metadata.Config{TrustedProxies: proxies}),
			RequestTimeout: cfg.RequestTimeout,
		},
		AllowedOrigins: cfg.AllowedOrigins,
		Verifier:       tokens,
		RateLimit:      ratelimit.New(limiter, log),
	}, healthHandler,
		token.NewHandler(tokens, log),
		blogHandler.New(posts, log),
		charcHandler.New(products, log),
		contactHandler.New(contact, log),
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
		return bucketCleanup.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
