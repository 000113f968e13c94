package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hongminglow/freelancer-be/internal/config"
	"github.com/hongminglow/freelancer-be/internal/logging"
	"github.com/hongminglow/freelancer-be/internal/mail"
	"github.com/hongminglow/freelancer-be/internal/server"
	"github.com/hongminglow/freelancer-be/internal/storage"
	"github.com/hongminglow/freelancer-be/internal/storage/postgres"
	"github.com/hongminglow/freelancer-be/internal/storage/sqlite"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "init database", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	mailer, err := mail.New(cfg, logger)
	if err != nil {
		logger.Error(ctx, "init mail", "error", err)
		os.Exit(1)
	}

	srv := server.New(cfg, store, mailer, logger)

	go func() {
		logger.Info(ctx, "freelancer backend listening", "addr", cfg.HTTPAddress(), "driver", cfg.StorageDriver, "mail_active", cfg.MailActive)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Warn(ctx, "graceful shutdown error", "error", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverSQLite {
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	s, err := postgres.Shared(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}
}
