package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/devmonks/metrdotel/internal/api"
	"github.com/devmonks/metrdotel/internal/app"
	"github.com/devmonks/metrdotel/internal/app/maintenance"
	iauth "github.com/devmonks/metrdotel/internal/auth"
	"github.com/devmonks/metrdotel/internal/database"
	"github.com/devmonks/metrdotel/internal/notify"
	"github.com/devmonks/metrdotel/internal/services"
	"github.com/devmonks/metrdotel/internal/storage"
	"github.com/devmonks/metrdotel/pkg/logger"
	"github.com/devmonks/metrdotel/pkg/mail"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("metrdotel-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			if closeErr := sqlDB.Close(); closeErr != nil {
				log.Warn("database close failed", zap.Error(closeErr))
			}
		}
	}()

	if err := database.Migrate(db); err != nil {
		return err
	}

	store, err := storage.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		return fmt.Errorf("initialise file storage: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(mail.SMTPSettings{
		Enabled:  cfg.Email.SMTP.Enabled,
		Host:     cfg.Email.SMTP.Host,
		Port:     cfg.Email.SMTP.Port,
		Username: cfg.Email.SMTP.Username,
		Password: cfg.Email.SMTP.Password,
		From:     cfg.Email.SMTP.From,
		UseTLS:   cfg.Email.SMTP.UseTLS,
		Timeout:  cfg.Email.SMTP.Timeout,
	})
	if err != nil {
		return fmt.Errorf("initialise mailer: %w", err)
	}

	notifier, err := notify.NewMailNotifier(mailer, cfg.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("initialise notifier: %w", err)
	}

	tokens, err := iauth.NewTokenService(iauth.TokenConfig{
		Secret: cfg.Auth.JWT.Secret,
		Issuer: cfg.Auth.JWT.Issuer,
		TTL:    cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return fmt.Errorf("initialise token service: %w", err)
	}

	ledger, err := services.NewTokenLedger(db, services.WithLedgerTTL(cfg.Tokens.TTL))
	if err != nil {
		return fmt.Errorf("initialise token ledger: %w", err)
	}

	accounts, err := services.NewAccountService(db, ledger, notifier)
	if err != nil {
		return fmt.Errorf("initialise account service: %w", err)
	}
	authSvc, err := services.NewAuthService(db, tokens)
	if err != nil {
		return fmt.Errorf("initialise auth service: %w", err)
	}
	users, err := services.NewUserService(db)
	if err != nil {
		return fmt.Errorf("initialise user service: %w", err)
	}
	restaurants, err := services.NewRestaurantService(db)
	if err != nil {
		return fmt.Errorf("initialise restaurant service: %w", err)
	}
	orders, err := services.NewOrderService(db)
	if err != nil {
		return fmt.Errorf("initialise order service: %w", err)
	}
	reservations, err := services.NewReservationService(db)
	if err != nil {
		return fmt.Errorf("initialise reservation service: %w", err)
	}
	reviews, err := services.NewReviewService(db)
	if err != nil {
		return fmt.Errorf("initialise review service: %w", err)
	}
	visits, err := services.NewVisitService(db)
	if err != nil {
		return fmt.Errorf("initialise visit service: %w", err)
	}

	sweeper, err := maintenance.NewSweeper(ledger, maintenance.WithSchedule(cfg.Tokens.SweepSchedule))
	if err != nil {
		return fmt.Errorf("initialise token sweeper: %w", err)
	}
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("start token sweeper: %w", err)
	}
	defer sweeper.Stop()

	router, err := api.NewRouter(db, cfg, api.Services{
		Tokens:      tokens,
		Auth:        authSvc,
		Accounts:    accounts,
		Users:       users,
		Restaurants: restaurants,
		Orders:      orders,
		Reservation: reservations,
		Reviews:     reviews,
		Visits:      visits,
		Store:       store,
	})
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}
