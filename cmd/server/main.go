package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nikunjcodes/AirlineManagementSystem/internal/apiclient"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/config"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/handlers"
	"github.com/nikunjcodes/AirlineManagementSystem/internal/router"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Deferred cleanup
// always runs before it returns.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	// Backend clients
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	flights := apiclient.NewFlightClient(apiclient.New(cfg.FlightsServiceURL,
		apiclient.WithHTTPClient(httpClient), apiclient.WithLogger(logger)))
	tickets := apiclient.NewTicketClient(apiclient.New(cfg.TicketsServiceURL,
		apiclient.WithHTTPClient(httpClient), apiclient.WithLogger(logger)))

	h := handlers.NewHandler(flights, tickets, logger)

	opts := router.Options{CORSOrigins: cfg.CORSOrigins, Logger: logger}
	if cfg.RateLimitEnabled() {
		opts.RateLimiter = router.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		defer opts.RateLimiter.Stop()
	}
	r := router.SetupRouter(h, opts)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server starting",
			"port", cfg.Port,
			"flights_service", cfg.FlightsServiceURL,
			"tickets_service", cfg.TicketsServiceURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
