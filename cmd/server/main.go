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

	"github.com/mama165/sdk-go/logs"

	"github.com/devaloi/msgboard/internal/config"
	"github.com/devaloi/msgboard/internal/handler"
	"github.com/devaloi/msgboard/internal/hub"
	"github.com/devaloi/msgboard/internal/middleware"
	"github.com/devaloi/msgboard/internal/service"
	"github.com/devaloi/msgboard/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	s, err := store.Open(cfg.StoreDriver, cfg.DBPath, cfg.BadgerPath, log)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer func() {
		log.Info("Closing store...")
		_ = s.Close()
	}()

	h := hub.New(cfg.MaxSubscriptions, log)
	go h.Run()
	defer h.Stop()

	tables := service.NewTables(s, h, cfg.MaxTextLength, log)
	router := handler.NewRouter(tables, h, log)
	wrapped := middleware.Recover(log)(middleware.Logging(log)(middleware.CORS(router)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           wrapped,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Table service listening", "address", srv.Addr, "driver", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Program stopped cleanly")
	return nil
}
