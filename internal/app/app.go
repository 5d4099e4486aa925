// Package app wires configuration, storage, providers and services into the
// running API server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres"
	collectionrepo "github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres/collection"
	organismrepo "github.com/heartmarshall/wikinaturalist-backend/internal/adapter/postgres/organism"
	"github.com/heartmarshall/wikinaturalist-backend/internal/config"
	"github.com/heartmarshall/wikinaturalist-backend/internal/metrics"
	collectionsvc "github.com/heartmarshall/wikinaturalist-backend/internal/service/collection"
	organismsvc "github.com/heartmarshall/wikinaturalist-backend/internal/service/organism"
	"github.com/heartmarshall/wikinaturalist-backend/internal/transport/middleware"
	"github.com/heartmarshall/wikinaturalist-backend/internal/transport/rest"
	"github.com/heartmarshall/wikinaturalist-backend/migrations"
)

// Run is the application entry point. It loads configuration, connects to
// the database, applies migrations, and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, migrations.FS, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	m := metrics.New()
	stack := NewStack(cfg.Wikimedia, cfg.Classifier, cfg.Collections, m, logger)
	txm := postgres.NewTxManager(pool)

	organisms := organismsvc.NewService(logger,
		organismrepo.New(pool), txm,
		stack.Wikidata, stack.Wikipedia, stack.Classify,
		cfg.Classifier.ClassifyLang,
	)
	collections := collectionsvc.NewService(logger, stack.MetaWiki, collectionrepo.New(pool), txm)

	langs := rest.NewLanguages(cfg.Classifier.Languages)
	mux := rest.NewRouter(rest.Handlers{
		Health:      rest.NewHealthHandler(pool, BuildVersion()),
		Groups:      rest.NewGroupsHandler(stack.Registry),
		Classify:    rest.NewClassifyHandler(stack.Classify, langs, logger),
		Organisms:   rest.NewOrganismHandler(organisms, stack.Registry, langs, logger),
		Collections: rest.NewCollectionHandler(collections, logger),
		Metrics:     m.Handler(),
	})

	mws := []middleware.Middleware{
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORS),
	}
	if cfg.RateLimit.Enabled {
		rl := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
		defer rl.Stop()
		mws = append(mws, rl.Limit(cfg.RateLimit.PerMinute))
	}

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      middleware.Chain(mws...)(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is cancelled, then shuts it down within timeout.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down http server", slog.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-errCh
}
