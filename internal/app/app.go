// Package app initializes and holds long-lived application services, acting as a dependency injection container.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	"github.com/JakeFAU/linkpreview/internal/config"
	collyfetcher "github.com/JakeFAU/linkpreview/internal/fetcher/colly"
	"github.com/JakeFAU/linkpreview/internal/logging"
	"github.com/JakeFAU/linkpreview/internal/metrics"
	"github.com/JakeFAU/linkpreview/internal/preview"
	"github.com/JakeFAU/linkpreview/internal/telemetry"
)

// App holds the shared services built once per process: the logger, the
// fetcher every request reuses, and the preview service on top of it.
type App struct {
	cfg            config.Config
	logger         *zap.Logger
	fetcher        *collyfetcher.Fetcher
	service        *preview.Service
	tracerProvider *sdktrace.TracerProvider
}

// GetConfig returns the configuration the App was built from.
func (a *App) GetConfig() config.Config {
	return a.cfg
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetPreviewer exposes the preview service used by every surface.
func (a *App) GetPreviewer() preview.Previewer {
	return a.service
}

// NewApp builds the application services from cfg. Trace output, when the
// stdout exporter is selected, goes to traceOut (stderr when nil) so that
// command output on stdout stays clean.
func NewApp(ctx context.Context, cfg config.Config, traceOut io.Writer) (*App, error) {
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	a := &App{cfg: cfg, logger: logger}

	if cfg.Tracing.Enabled {
		if traceOut == nil {
			traceOut = os.Stderr
		}
		tp, err := telemetry.InitTracerProvider(ctx, telemetry.Config{
			ServiceName: cfg.Tracing.ServiceName,
			Exporter:    cfg.Tracing.Exporter,
		}, traceOut)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		a.tracerProvider = tp
		logger.Info("tracing enabled", zap.String("exporter", cfg.Tracing.Exporter))
	}

	if cfg.Metrics.Enabled {
		metrics.Init()
	}

	a.fetcher = collyfetcher.New(collyfetcher.Config{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      cfg.Fetch.Timeout,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	}, logger.Named("fetcher"))
	a.service = preview.NewService(a.fetcher, logger.Named("preview"))

	logger.Debug("application services initialized",
		zap.String("user_agent", a.fetcher.UserAgent()),
		zap.Duration("fetch_timeout", cfg.Fetch.Timeout),
	)
	return a, nil
}

// Close flushes pending spans and the logger buffer.
func (a *App) Close(ctx context.Context) {
	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			a.logger.Warn("tracer provider shutdown failed", zap.Error(err))
		}
	}
	// Sync on a console sink returns EINVAL on some platforms; nothing to do about it.
	_ = a.logger.Sync()
}
