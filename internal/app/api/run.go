// Package api boots the order orchestration HTTP process.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/openmarket/orders/internal/clients/http/catalog"
	"github.com/openmarket/orders/internal/clients/http/directory"
	"github.com/openmarket/orders/internal/domains/orders/adapters/external/gateway"
	ordersmemory "github.com/openmarket/orders/internal/domains/orders/adapters/memory"
	ordersobs "github.com/openmarket/orders/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/openmarket/orders/internal/domains/orders/adapters/persistence/postgres"
	"github.com/openmarket/orders/internal/domains/orders/application"
	"github.com/openmarket/orders/internal/domains/orders/ports"
	platformobservability "github.com/openmarket/orders/internal/platform/observability"
	platformpostgres "github.com/openmarket/orders/internal/platform/postgres"
	"github.com/openmarket/orders/internal/server"
	"github.com/openmarket/orders/internal/shared/taskpool"
)

// Run boots the orders HTTP API with observability, the repository, the
// resilient gateway, and the worker pool wired.
func Run(ctx context.Context) error {
	const serviceName = "orders-api"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	repo, cleanupRepo := buildOrderRepository(ctx, logger)
	defer cleanupRepo()

	directoryClient, err := directory.NewClient(cfg.UserDirectoryBaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build user directory client: %w", err)
	}
	catalogClient, err := catalog.NewClient(cfg.CatalogBaseURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog client: %w", err)
	}
	remote := gateway.New(directoryClient, catalogClient,
		gateway.WithLogger(logger),
		gateway.WithBreakerSettings(cfg.Breaker),
	)

	service := ordersobs.New(
		application.NewService(repo, remote),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	pool := taskpool.New(cfg.PoolWorkers, cfg.PoolQueueDepth)
	defer pool.Stop()
	async := application.NewAsync(service, pool)

	router := server.NewRouter(service, async, server.Options{
		ServiceName: serviceName,
		Logger:      logger,
	})
	addr := ":" + cfg.Port
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	logger.Info("Orders API listening", slog.String("addr", addr))
	if err := serve(ctx, &http.Server{Handler: router}, listener); err != nil {
		logger.Error("Orders API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// serve runs srv on listener until ctx is cancelled, then drains in-flight
// requests before returning.
func serve(ctx context.Context, srv *http.Server, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func buildOrderRepository(ctx context.Context, logger *slog.Logger) (ports.Repository, func()) {
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	if db == nil {
		return ordersmemory.NewRepository(), cleanup
	}
	logger.Info("order repository configured with postgres")
	return orderspostgres.NewRepository(db), cleanup
}
