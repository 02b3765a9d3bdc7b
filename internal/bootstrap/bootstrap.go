// Package bootstrap assembles the service's components from configuration.
// The HTTP service and the contentctl CLI share it, so both run against the
// same stores and remote backup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/askadit/content-service/internal/adapters/auth"
	"github.com/askadit/content-service/internal/adapters/blob"
	"github.com/askadit/content-service/internal/adapters/clients"
	"github.com/askadit/content-service/internal/adapters/clients/acl"
	"github.com/askadit/content-service/internal/adapters/embedded"
	"github.com/askadit/content-service/internal/adapters/postgres"
	"github.com/askadit/content-service/internal/app"
	"github.com/askadit/content-service/internal/domain"
	"github.com/askadit/content-service/internal/platform/config"
	"github.com/askadit/content-service/internal/platform/logging"
	"github.com/askadit/content-service/internal/platform/telemetry"
	"github.com/askadit/content-service/internal/ports"
)

// remoteServiceName labels the remote document API in logs, spans and metrics.
const remoteServiceName = "github-gists"

// Components are the wired application services and their dependencies.
type Components struct {
	Config *config.Config
	Logger *slog.Logger

	Blobs   ports.BlobStore
	Store   ports.ContentStore
	Content *app.ContentService
	Sync    *app.SyncService

	Health  *ports.DefaultHealthRegistry
	Metrics *prometheus.Registry

	closers []func() error
}

// NewLogger builds the process logger from the log section, writing to w
// and to the rolling file when enabled.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	return logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, w)
}

// Build opens the blob store and the content store, then wires the sync
// service as the content facade's write-through target. On error everything
// opened so far is closed.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Components, err error) {
	c := &Components{
		Config:  cfg,
		Logger:  logger,
		Health:  ports.NewHealthRegistry(),
		Metrics: prometheus.NewRegistry(),
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, c.Close())
		}
	}()

	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if c.Blobs, err = c.openBlobs(ctx); err != nil {
		return nil, err
	}

	if c.Store, err = c.openStore(ctx); err != nil {
		return nil, err
	}

	mode, err := domain.ParseUpdateMode(cfg.Content.UpdateMode, domain.UpdateReplace)
	if err != nil {
		return nil, err
	}

	c.Content = app.NewContentService(app.ContentServiceConfig{
		Store:      c.Store,
		UpdateMode: mode,
		Logger:     logger,
	})

	if c.Sync, err = c.newSync(ctx); err != nil {
		return nil, err
	}

	c.Content.SetReplicator(c.Sync)

	for _, checker := range []any{c.Store, c.Blobs, c.Sync} {
		hc, ok := checker.(ports.HealthChecker)
		if !ok {
			continue
		}

		if err = c.Health.Register(hc); err != nil {
			return nil, fmt.Errorf("registering health check: %w", err)
		}
	}

	return c, nil
}

// Close releases the stores in reverse order of opening.
func (c *Components) Close() error {
	var errs []error

	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}

	c.closers = nil

	return errors.Join(errs...)
}

func (c *Components) openBlobs(ctx context.Context) (ports.BlobStore, error) {
	cfg := c.Config.Blob

	switch cfg.Driver {
	case "memory":
		return blob.NewMemoryStore(), nil
	case "file":
		s, err := blob.NewFileStore(cfg.Path, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("opening file blob store: %w", err)
		}

		return s, nil
	case "sqlite":
		s, err := blob.OpenSQLite(ctx, cfg.Path, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite blob store: %w", err)
		}

		c.closers = append(c.closers, s.Close)

		return s, nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

func (c *Components) openStore(ctx context.Context) (ports.ContentStore, error) {
	cfg := c.Config.Store

	switch cfg.Driver {
	case "embedded":
		s, err := embedded.Open(ctx, embedded.Config{Blobs: c.Blobs, Logger: c.Logger})
		if err != nil {
			return nil, fmt.Errorf("opening embedded store: %w", err)
		}

		return s, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
			DSN:             cfg.Postgres.DSN,
			MaxConns:        cfg.Postgres.MaxConns,
			MinConns:        cfg.Postgres.MinConns,
			MaxConnLifetime: cfg.Postgres.MaxConnLifetime,
			MaxConnIdleTime: cfg.Postgres.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}

		c.closers = append(c.closers, func() error {
			pool.Close()
			return nil
		})

		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, err
		}

		repo := postgres.NewContentRepo(pool, c.Logger)

		seeded, err := repo.SeedIfEmpty(ctx)
		if err != nil {
			return nil, err
		}

		if seeded {
			c.Logger.InfoContext(ctx, "seeded empty database with default content")
		}

		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (c *Components) newSync(ctx context.Context) (*app.SyncService, error) {
	cfg := c.Config

	client, err := clients.New(clients.Config{
		BaseURL:     cfg.Sync.BaseURL,
		ServiceName: remoteServiceName,
		Timeout:     cfg.Client.Timeout,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Headers: map[string]string{
			"Accept":     acl.GitHubAccept,
			"User-Agent": cfg.App.Name + "/" + cfg.App.Version,
		},
		Logger: c.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating remote document client: %w", err)
	}

	metrics, err := telemetry.NewSyncMetrics(c.Metrics)
	if err != nil {
		return nil, err
	}

	return app.NewSyncService(ctx, app.SyncServiceConfig{
		Store:       c.Store,
		Blobs:       c.Blobs,
		Remote:      acl.NewGistClient(client, c.Logger),
		DocumentID:  cfg.Sync.GistID,
		Token:       cfg.Sync.Token,
		FileName:    cfg.Sync.FileName,
		Description: cfg.Sync.Description,
		Metrics:     metrics,
		Logger:      c.Logger,
	})
}

// NewGate builds the admin gate selected by auth.mode. Cookies are marked
// Secure in production.
func NewGate(cfg *config.Config, logger *slog.Logger) (ports.AuthGate, error) {
	a := cfg.Auth
	secure := cfg.App.IsProduction()

	switch a.Mode {
	case "static":
		return auth.NewStaticGate(auth.StaticConfig{
			Username:     a.Username,
			Password:     a.Password,
			PasswordHash: a.PasswordHash,
			CookieName:   a.CookieName,
			Secret:       a.CookieSecret,
			TTL:          a.CookieTTL,
			Secure:       secure,
			Logger:       logger,
		})
	case "hosted":
		return auth.NewHostedGate(auth.HostedConfig{
			Secret:     a.Hosted.JWTSecret,
			Issuer:     a.Hosted.Issuer,
			Audience:   a.Hosted.Audience,
			CookieName: a.Hosted.CookieName,
			Secure:     secure,
		})
	default:
		return nil, fmt.Errorf("unknown auth mode %q", a.Mode)
	}
}
