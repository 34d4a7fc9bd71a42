package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/money-game-backend/internal/config"
	"github.com/DoyleJ11/money-game-backend/internal/httpapi"
	"github.com/DoyleJ11/money-game-backend/internal/hub"
	"github.com/DoyleJ11/money-game-backend/internal/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The hub outlives the signal context so it can be drained after the
	// HTTP server stops.
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	h := hub.NewHub(hubCtx, log)
	handler := httpapi.SetupRoutes(h, httpapi.NewSessionFactory(cfg.Rules(), cfg.Game.Seed), cfg.AllowedOrigins, log)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		done := make(chan struct{})
		h.Inbox() <- hub.ShutdownHub{Done: done}
		select {
		case <-done:
		case <-shutdownCtx.Done():
			errs = multierr.Append(errs, fmt.Errorf("hub shutdown: %w", shutdownCtx.Err()))
		}
		return errs
	})

	err = g.Wait()
	if err != nil {
		log.Error("server stopped", zap.Error(err))
	}
	return err
}
