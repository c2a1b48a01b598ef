package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/billscan/billscan/internal/common"
	"github.com/billscan/billscan/internal/repository"
)

// Connectivity probe: opens the configured database, pings it, and prints
// row counts for the three stores.
func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     3 * time.Second,
	}, logger)
	if err != nil {
		logger.Error("opening database failed", "error", err)
		os.Exit(1)
	}
	defer db.Close(logger)

	if err := db.HealthCheck(ctx, 1*time.Second); err != nil {
		logger.Error("database health check failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database health OK", "driver", cfg.Database.Driver)

	for _, table := range []string{"clients", "invoices", "invalid_invoices"} {
		var count int64
		if err := db.Gorm.WithContext(ctx).Table(table).Count(&count).Error; err != nil {
			logger.Error("counting rows failed", "table", table, "error", err)
			continue
		}
		logger.Info("table size", "table", table, "rows", count)
	}
}
