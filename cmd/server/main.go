// Package main is the entry point for the insurance product catalog
// server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san360/gh-demo/internal/auth"
	"github.com/san360/gh-demo/internal/config"
	"github.com/san360/gh-demo/internal/handler"
	"github.com/san360/gh-demo/internal/server"
	"github.com/san360/gh-demo/internal/service"
	"github.com/san360/gh-demo/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Use a basic logger for startup errors
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := initLogger(cfg.LogLevel, cfg.Debug)
	if err != nil {
		basicLogger, _ := zap.NewProduction()
		basicLogger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("configuration loaded",
		zap.String("address", cfg.Address()),
		zap.String("log_level", cfg.LogLevel),
		zap.Bool("debug", cfg.Debug),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Bool("metrics_enabled", cfg.MetricsEnabled),
		zap.String("auth_mode", cfg.AuthMode),
		zap.String("data_file", cfg.DataFile),
	)

	// Create auth gate based on config
	gate, authenticator, err := createAuthGate(cfg, logger)
	if err != nil {
		logger.Fatal("failed to create auth gate", zap.Error(err))
	}

	// Create file-backed catalog store and service
	catalogStore := store.NewFileStore(cfg.DataFile)
	eventHub := handler.NewEventHub(logger)
	svc := service.New(catalogStore, logger, eventHub)

	// Create and start server
	srv := server.New(cfg, logger, svc, eventHub, gate, authenticator)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- srv.Start()
	}()

	// Wait for shutdown signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", zap.Error(err))
		return 1
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		// Create shutdown context with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		// Graceful shutdown
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			return 1
		}
	}

	logger.Info("server stopped")
	return 0
}

// initLogger initializes a zap logger with the specified log level. The
// debug flag switches to the human-readable development config and must
// stay off outside development.
func initLogger(level string, debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	zapConfig := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: "json",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return zapConfig.Build()
}

// createAuthGate creates the auth gate based on the configured auth
// mode. In "none" mode both return values are nil and the API is fully
// public.
func createAuthGate(
	cfg *config.Config,
	logger *zap.Logger,
) (auth.Gate, auth.Authenticator, error) {
	switch cfg.AuthMode {
	case "none", "":
		logger.Info("authentication disabled")
		return nil, nil, nil
	case "jwt":
		logger.Info("authentication mode: JWT",
			zap.Duration("token_ttl", cfg.TokenTTL),
		)
		users, err := auth.ParseUsers(cfg.AuthUsers)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing auth users: %w", err)
		}
		gate, err := auth.NewJWTGate(cfg.JWTSecret, cfg.TokenTTL, users)
		if err != nil {
			return nil, nil, fmt.Errorf("creating JWT gate: %w", err)
		}
		return gate, gate, nil
	default:
		return nil, nil, fmt.Errorf("unknown auth mode: %s", cfg.AuthMode)
	}
}
