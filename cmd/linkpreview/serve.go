package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/user/linkpreview-service/internal/adapter/postgres"
	"github.com/user/linkpreview-service/internal/adapter/redis"
	"github.com/user/linkpreview-service/internal/delivery/http/handler"
	"github.com/user/linkpreview-service/internal/delivery/http/router"
	"github.com/user/linkpreview-service/internal/repository"
	"github.com/user/linkpreview-service/internal/usecase"
	"github.com/user/linkpreview-service/pkg/logger"
	"github.com/user/linkpreview-service/pkg/metrics"
	"go.uber.org/zap"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the preview HTTP service",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	l, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)

	acquirer, release, err := newAcquirer(cfg, l)
	if err != nil {
		return err
	}
	defer release()

	// Cache and history are optional; leave the interfaces nil when unset.
	var cache repository.PreviewCache
	if cfg.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			l.Error("unable to connect to redis", zap.Error(err))
			return err
		}
		cache = redis.NewCacheRepo(rdb)
		l.Info("redis connection established")
	}

	var store repository.PreviewStore
	if cfg.PostgresURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			l.Error("unable to connect to database", zap.Error(err))
			return err
		}
		defer pool.Close()
		repo := postgres.NewPreviewRepo(pool)
		if err := repo.Migrate(ctx); err != nil {
			l.Error("unable to migrate database", zap.Error(err))
			return err
		}
		store = repo
		l.Info("postgres connection pool established")
	}

	previewer := usecase.NewPreviewUseCase(acquirer, cache, store, cfg.CacheTTL(), m, l)
	httpRouter := router.New(handler.NewHandler(previewer, l), m, prometheus.DefaultGatherer, l)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("server started", zap.String("port", cfg.ServerPort), zap.String("fetch_mode", cfg.FetchMode))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			l.Error("could not start server", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	l.Info("server exiting")
	return nil
}
