package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	apphttp "bookshelf/internal/http"
	"bookshelf/internal/platform/cognito"
	"bookshelf/internal/platform/recommend"
	"bookshelf/internal/review"
	"bookshelf/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger := mustBuildLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	var (
		bookRepo   book.Repository
		reviewRepo review.Repository
		ready      func(ctx context.Context) error
	)
	switch cfg.StoreDriver {
	case config.DriverMemory:
		mem := store.NewMemory()
		bookRepo = mem.Books()
		reviewRepo = mem.Reviews()
		ready = func(context.Context) error { return nil }
		logger.Warn("using in-memory store, data is lost on restart")
	default:
		pool := mustOpenDB(ctx, logger, cfg.DatabaseDSN)
		defer pool.Close()
		bookRepo = book.NewPostgresRepo(pool, cfg.QueryTimeout)
		reviewRepo = review.NewPostgresRepo(pool, cfg.QueryTimeout)
		ready = pool.Ping
	}

	deps := apphttp.RouterDeps{
		Books:          book.NewService(bookRepo),
		Reviews:        review.NewService(reviewRepo),
		RequiredRole:   cfg.Cognito.RequiredRole,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		AllowedOrigins: cfg.AllowedOrigins,
		Ready:          ready,
		Logger:         logger,
	}

	if cfg.AuthEnabled {
		verifier, err := cognito.NewVerifier(ctx, cfg.Cognito)
		if err != nil {
			logger.Fatal("cognito verifier setup failed", zap.Error(err))
		}
		client, err := cognito.NewClient(ctx, cfg.Cognito)
		if err != nil {
			logger.Fatal("cognito client setup failed", zap.Error(err))
		}
		deps.Verifier = verifier
		deps.Auth = client
	} else {
		logger.Warn("no user pool configured, review mutations are unprotected")
	}

	if cfg.RecommendEnabled {
		deps.Generator = recommend.NewClient(cfg.Recommend)
	}

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      apphttp.NewRouter(deps),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("store", cfg.StoreDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCtx.Done()
	logger.Info("shutting down")

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(drainCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func mustBuildLogger(environment string) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	return logger
}

func mustOpenDB(ctx context.Context, logger *zap.Logger, dsn string) *pgxpool.Pool {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Fatal("cannot create db pool", zap.Error(err))
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		logger.Fatal("cannot ping database", zap.String("dsn", redactDSN(dsn)), zap.Error(err))
	}
	logger.Info("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
