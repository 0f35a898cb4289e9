package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akarpov/usersvc/internal/config"
	"github.com/akarpov/usersvc/internal/server/handlers"
	"github.com/akarpov/usersvc/internal/server/mail"
	"github.com/akarpov/usersvc/internal/server/service"
	"github.com/akarpov/usersvc/internal/server/storage"
	"github.com/akarpov/usersvc/internal/server/storage/memory"
	"github.com/akarpov/usersvc/internal/server/storage/sqlite"
	"github.com/akarpov/usersvc/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	userStorage, closeStorage, err := newStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}
	defer closeStorage()

	mailer := newMailer(cfg, logger)
	tokens := token.NewService(cfg.TokenSecret)
	svc := service.New(userStorage, tokens, mailer, cfg.MailFrom, logger)

	router := handlers.NewRouter(logger, svc, Version)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
		}
		logger.Info("server stopped")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// newStorage выбирает бэкенд хранилища по конфигурации.
func newStorage(ctx context.Context, cfg *config.Config) (storage.UserStorage, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return memory.New(), func() {}, nil
	default:
		s, err := sqlite.New(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	}
}

// newMailer возвращает SMTP-клиент, либо noop если SMTP не сконфигурирован.
func newMailer(cfg *config.Config, logger *slog.Logger) mail.Mailer {
	if cfg.SMTPHost == "" {
		logger.Info("SMTP not configured, welcome mail disabled")
		return mail.Noop{}
	}

	mailer, err := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	if err != nil {
		logger.Warn("failed to init SMTP client, welcome mail disabled", slog.Any("error", err))
		return mail.Noop{}
	}

	return mailer
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler)
}

func printVersion() {
	fmt.Printf("usersvc server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
