package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/faq-chatbot/internal/domain/faq"
	"github.com/yanqian/faq-chatbot/internal/infra/config"
)

// App encapsulates the HTTP server lifecycle and the maintenance commands.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	svc      faq.Service
	exporter *faq.Exporter
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, svc faq.Service, exporter *faq.Exporter) *App {
	return &App{
		cfg:      cfg,
		logger:   logger.With("component", "bootstrap"),
		server:   server,
		svc:      svc,
		exporter: exporter,
	}
}

// Run seeds sample data when configured, then starts the HTTP server and
// blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	if a.cfg.FAQ.SeedOnStart {
		if _, err := a.svc.Seed(ctx, a.cfg.FAQ.Seed, false); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Seed inserts the configured sample pairs, wiping storage first when reset is set.
func (a *App) Seed(ctx context.Context, reset bool) (faq.SeedReport, error) {
	return a.svc.Seed(ctx, a.cfg.FAQ.Seed, reset)
}

// ErrSnapshotNotConfigured is returned by Export when no object storage endpoint is set.
var ErrSnapshotNotConfigured = errors.New("snapshot.endpoint is not configured (set SNAPSHOT_ENDPOINT)")

// Export uploads a snapshot of the knowledge base.
func (a *App) Export(ctx context.Context, key string) (faq.StoredObject, error) {
	if strings.TrimSpace(a.cfg.Snapshot.Endpoint) == "" {
		return faq.StoredObject{}, ErrSnapshotNotConfigured
	}
	return a.exporter.Export(ctx, key)
}
