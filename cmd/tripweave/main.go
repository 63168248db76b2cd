package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tripweave/tripweave/config"
	"github.com/tripweave/tripweave/extract"
	"github.com/tripweave/tripweave/flow"
	"github.com/tripweave/tripweave/httpapi"
	"github.com/tripweave/tripweave/intent"
	"github.com/tripweave/tripweave/llm"
	"github.com/tripweave/tripweave/planner"
	"github.com/tripweave/tripweave/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	level := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	var store session.Store
	if cfg.RedisAddr != "" {
		store = session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		logger.Info("using redis session store", "addr", cfg.RedisAddr)
	} else {
		store = session.NewMemoryStore()
		logger.Info("using in-memory session store")
	}

	controller := flow.NewController(
		store,
		extract.New(gen),
		planner.New(gen),
		intent.NewClassifier(),
		flow.WithLogger(logger),
	)
	api := httpapi.NewServer(store, controller, httpapi.WithLogger(logger))

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr, "provider", cfg.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func newGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	switch cfg.Provider {
	case config.ProviderLocal:
		return llm.NewLocalGenerator(), nil
	case config.ProviderOpenAI:
		return llm.NewOpenAIGenerator(ctx, &llm.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.GenTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
