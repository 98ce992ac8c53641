package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jmoiron/sqlx"

	"shawedgym/internal/auth"
	"shawedgym/internal/config"
	"shawedgym/internal/db"
	"shawedgym/internal/email"
	"shawedgym/internal/logger"
	"shawedgym/internal/plan"
	"shawedgym/internal/server"
)

func connect(cfg *config.Config) (*sqlx.DB, error) {
	return db.Connect(cfg.DatabaseURL, db.PoolConfig{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	})
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func runServer() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Info("starting ShawedGym", "env", cfg.Env, "port", cfg.Port)

	tokens, err := auth.NewProvider(cfg.JWTSecret)
	if err != nil {
		return err
	}

	database, err := connect(cfg)
	if err != nil {
		return err
	}
	defer database.Close()
	logger.Info("database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		return err
	}
	logger.Info("migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := plan.NewService(plan.NewRepository(database)).EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed default plans: %w", err)
	}

	emailService := email.New(email.Config{
		From:      cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
		SMTPHost:  cfg.SMTPHost,
		SMTPPort:  cfg.SMTPPort,
		SMTPUser:  cfg.SMTPUser,
		SMTPPass:  cfg.SMTPPass,
		RedisAddr: cfg.RedisAddr,
	})
	defer emailService.Close()

	var workers sync.WaitGroup
	workers.Add(1)
	go func() {
		defer workers.Done()
		emailService.Start(ctx)
	}()

	srv := server.New(server.Deps{
		DB:     database,
		Config: cfg,
		Email:  emailService,
		Tokens: tokens,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("received signal", "signal", sig.String())
	case runErr = <-serverErr:
		if runErr != nil {
			logger.Error("server error", "error", runErr)
		}
	}

	logger.Info("shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	cancel()
	workers.Wait()

	logger.Info("server stopped")
	return runErr
}
