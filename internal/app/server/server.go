package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"appraise/internal/domain/appraisal"
	"appraise/internal/domain/audit"
	"appraise/internal/domain/auth"
	"appraise/internal/domain/notifications"
	"appraise/internal/domain/reports"
	"appraise/internal/platform/config"
	"appraise/internal/platform/db"
	"appraise/internal/platform/email"
	"appraise/internal/platform/metrics"
	"appraise/internal/platform/storage"
	"appraise/internal/transport/http/api"
	appraisalhandlers "appraise/internal/transport/http/handlers/appraisal"
	audithandlers "appraise/internal/transport/http/handlers/audit"
	authhandlers "appraise/internal/transport/http/handlers/auth"
	notificationhandlers "appraise/internal/transport/http/handlers/notifications"
	reporthandlers "appraise/internal/transport/http/handlers/reports"
	"appraise/internal/transport/http/middleware"
)

type App struct {
	cfg     config.Config
	pool    *pgxpool.Pool
	router  chi.Router
	metrics *metrics.Collector
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	collector := metrics.New()
	permissions := auth.Permissions{}

	artifacts := storage.New(cfg.SignatureDir)
	appraisalService := appraisal.NewService(appraisal.NewStore(pool), artifacts)
	authService := auth.NewService(auth.NewStore(pool))
	auditService := audit.New(pool)
	notificationService := notifications.New(notifications.NewStore(pool), email.New(cfg))
	notificationService.DefaultFrom = cfg.EmailFrom
	reportService := reports.NewService(reports.NewStore(pool), appraisalService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database unreachable", middleware.GetRequestID(r.Context()))
			return
		}
		api.Success(w, map[string]string{"status": "ready"}, middleware.GetRequestID(r.Context()))
	})
	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandlers.NewHandler(authService, auditService, cfg.JWTSecret, permissions).RegisterRoutes(r)
		appraisalhandlers.NewHandler(appraisalService, auditService, notificationService, collector, permissions).RegisterRoutes(r)
		reporthandlers.NewHandler(reportService, permissions).RegisterRoutes(r)
		audithandlers.NewHandler(auditService, permissions).RegisterRoutes(r)
		notificationhandlers.NewHandler(notificationService).RegisterRoutes(r)
	})

	fileServer := http.StripPrefix("/signatures/", http.FileServer(http.Dir(cfg.SignatureDir)))
	router.Get("/signatures/*", fileServer.ServeHTTP)

	return &App{cfg: cfg, pool: pool, router: router, metrics: collector}, nil
}

// Router exposes the handler tree for tests.
func (a *App) Router() chi.Router {
	return a.router
}

func (a *App) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", a.cfg.Addr, "env", a.cfg.Environment)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}

	a.pool.Close()
	return nil
}
