package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"resty.dev/v3"

	"sealevel/internal/cache"
	"sealevel/internal/config"
	"sealevel/internal/coordinator"
	"sealevel/internal/dashboard"
	"sealevel/internal/fetcher"
	"sealevel/internal/normalize"
	"sealevel/internal/observability"
	"sealevel/internal/ratelimit"
	"sealevel/internal/resolver"
	"sealevel/internal/source"
	"sealevel/internal/synthetic"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// Cancel on interrupt for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, observability.NewMetrics()); err != nil {
		logger.Error("dashboard exited with error", "error", err)
		os.Exit(1)
	}
}

// app is the wired dependency graph of the dashboard.
type app struct {
	client    *resty.Client
	snapshots *cache.Snapshots
	server    *dashboard.Server
	scheduler *cache.Scheduler
}

// newApp wires sources, resolvers, the snapshot cache and the HTTP server from cfg.
func newApp(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*app, error) {
	client := fetcher.NewHTTPClient(cfg.RequestTimeout)
	limiter := ratelimit.New(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	policy := cfg.RetryPolicy()

	datasets := []resolver.Dataset{
		{
			Name:      coordinator.DatasetGlobal,
			Sources:   source.NewHTTPTables(cfg.GlobalSourceURLs, client, limiter),
			Rules:     normalize.GlobalRules,
			Synthetic: synthetic.DefaultGlobal,
			Timeout:   cfg.RequestTimeout,
			Retry:     policy,
		},
		{
			Name:      coordinator.DatasetRegional,
			Sources:   source.NewHTTPTables(cfg.RegionalSourceURLs, client, limiter),
			Rules:     normalize.RegionalRules,
			Synthetic: synthetic.DefaultRegional,
			Timeout:   cfg.RequestTimeout,
			Retry:     policy,
		},
	}

	resolvers := make([]coordinator.Resolver, 0, len(datasets))
	for _, ds := range datasets {
		resolvers = append(resolvers, resolver.New(ds, logger, metrics))
	}

	coord := coordinator.New(resolvers, logger, metrics)
	snapshots := cache.NewSnapshots(coord, cfg.CacheTTL, logger, metrics)

	server, err := dashboard.NewServer(dashboard.ServerConfig{
		Addr:            cfg.HTTPAddr,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Snapshots:       snapshots,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create dashboard server: %w", err)
	}

	a := &app{client: client, snapshots: snapshots, server: server}
	if cfg.RefreshCron != "" {
		a.scheduler, err = cache.NewScheduler(cfg.RefreshCron, cache.SnapshotRefresher(snapshots), logger)
		if err != nil {
			return nil, fmt.Errorf("create refresh scheduler: %w", err)
		}
	}
	return a, nil
}

// run serves the dashboard until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	a, err := newApp(cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.client.Close(); err != nil {
			logger.Warn("close http client", "error", err)
		}
	}()

	logger.Info("starting sea level dashboard",
		"addr", cfg.HTTPAddr,
		"global_sources", len(cfg.GlobalSourceURLs),
		"regional_sources", len(cfg.RegionalSourceURLs),
		"cache_ttl", cfg.CacheTTL,
		"refresh_cron", cfg.RefreshCron)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Start(gctx)
	})
	if a.scheduler != nil {
		g.Go(func() error {
			return a.scheduler.Run(gctx)
		})
	}
	g.Go(func() error {
		// Warm the cache before the first page view.
		if _, err := a.snapshots.Refresh(gctx); err != nil {
			logger.Warn("initial snapshot load failed", "error", err)
		}
		return nil
	})

	return g.Wait()
}
