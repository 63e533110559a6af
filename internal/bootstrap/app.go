package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/farmwise/internal/infra/config"
	"github.com/yanqian/farmwise/internal/infra/mlmodel"
)

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	model  *mlmodel.Forest
}

// NewApp is used by Wire to build the runnable app. The loaded model is
// required so that a missing artifact stops the process before serving.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, model *mlmodel.Forest) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, model: model}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting",
			"address", a.cfg.HTTP.Address,
			"model_version", a.model.Version(),
			"model_kind", a.model.Kind(),
			"timezone", a.cfg.Farm.Location().String(),
		)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
