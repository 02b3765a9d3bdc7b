// Package main is the entry point for the content service.
package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/askadit/content-service/internal/adapters/http"
	"github.com/askadit/content-service/internal/adapters/http/handlers"
	"github.com/askadit/content-service/internal/bootstrap"
	"github.com/askadit/content-service/internal/platform/config"
	"github.com/askadit/content-service/internal/platform/logging"
	"github.com/askadit/content-service/internal/platform/telemetry"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := run(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "content-service:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	profile := cmp.Or(os.Getenv("APP_ENVIRONMENT"), "local")

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading %s profile: %w", profile, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := bootstrap.NewLogger(cfg, os.Stdout)
	logging.SetDefault(logger)

	logger.Info("content service starting",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.Driver),
		slog.String("auth", cfg.Auth.Mode),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if err := telProvider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("flushing telemetry on exit", slog.Any("error", err))
		}
	}()

	components, err := bootstrap.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("building components: %w", err)
	}

	defer func() {
		if err := components.Close(); err != nil {
			logger.Error("closing stores", slog.Any("error", err))
		}
	}()

	gate, err := bootstrap.NewGate(cfg, logger)
	if err != nil {
		return fmt.Errorf("creating auth gate: %w", err)
	}

	if cfg.Sync.PullOnStart {
		components.Sync.PullOnStart(ctx)
	}

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Timeout:     cfg.Server.RequestTimeout,
		Gate:        gate,
		AuthMode:    cfg.Auth.Mode,
		LoginRate:   &cfg.Auth.LoginRate,
		Health:      handlers.NewHealthHandler(components.Health, buildInfo, components.Metrics),
		Content:     components.Content,
		Sync:        components.Sync,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("draining connections", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("serving http: %w", err)
	}

	logger.Info("content service stopped")

	return nil
}
