// Package app wires configuration, logging, the report service, and the
// HTTP router into a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/config"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/infrastructure"
	custommw "github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/middleware"
	"github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/services"
	transport "github.com/JuniorMoose-sudo/Dashboard-de-Produtividade/internal/transport/http"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Application holds the assembled components of the web server.
type Application struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *services.ReportService
	router  chi.Router
}

// NewApplication loads config, initializes logging, and builds the router.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}

	service := services.NewReportService(cfg, logger)

	app := &Application{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
	app.router = app.buildRouter()
	return app, nil
}

func (a *Application) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(a.logger))
	r.Use(custommw.Recoverer(a.logger))
	r.Use(custommw.RateLimit(a.cfg.Server.RateLimitRPS, a.cfg.Server.RateLimitBurst))

	healthHandler := transport.NewHealthHandler(Version)
	r.Mount("/", healthHandler.Routes())

	reportHandler := transport.NewReportHandler(a.service, a.logger, a.cfg.Upload.MaxSizeBytes)
	r.Mount("/api", reportHandler.Routes())

	return r
}

// Run starts the HTTP server and blocks until shutdown completes.
func (a *Application) Run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", slog.Int("port", a.cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-stop:
		a.logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.logger.Warn("failed to close log file", slog.String("error", err.Error()))
	}
	return nil
}
