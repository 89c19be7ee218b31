package app

import (
	"clusterpay_backend/internal/config"
	"clusterpay_backend/internal/config/env"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	ServiceProvider *ServiceProvider
	logger          *zap.Logger
}

func NewApp() *App {
	return &App{}
}

func (s *App) initLogger() error {
	logCfg, err := env.NewLogConfig()
	if err != nil {
		return err
	}
	logger, err := NewLogger(logCfg.Level())
	if err != nil {
		return err
	}
	s.logger = logger
	return nil
}

func (s *App) initServiceProvider() {
	s.ServiceProvider = newServiceProvider(s.logger)
}

func (s *App) Run() error {
	envErr := config.Load(".env")
	if err := s.initLogger(); err != nil {
		return err
	}
	defer func() { _ = s.logger.Sync() }()
	if envErr != nil {
		s.logger.Info("no .env file loaded", zap.Error(envErr))
	}

	s.initServiceProvider()
	defer s.ServiceProvider.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              s.ServiceProvider.HTTPCfg().Address(),
		Handler:           s.ServiceProvider.Router(ctx),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("address", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewLogger builds the production JSON logger at the given level.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
