package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/billscan/billscan/internal/entity"
)

type Config struct {
	Driver          string // "postgres" or "sqlite"
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// DB bundles the gorm handle with the pgx pool backing it (nil on sqlite).
type DB struct {
	Gorm *gorm.DB
	pool *pgxpool.Pool
}

// Open connects to the configured database and migrates the invoice schema.
// Postgres goes through a tuned pgx pool; sqlite serves single-node
// deployments and tests.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to database", "driver", cfg.Driver)

	var (
		gdb  *gorm.DB
		pool *pgxpool.Pool
		err  error
	)
	switch cfg.Driver {
	case "postgres":
		gdb, pool, err = openPostgres(ctx, cfg)
	case "sqlite", "":
		gdb, err = gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	if err := gdb.AutoMigrate(&entity.Client{}, &entity.Invoice{}, &entity.InvalidInvoice{}); err != nil {
		logger.Error("failed to migrate schema", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database")
	return &DB{Gorm: gdb, pool: pool}, nil
}

func openPostgres(ctx context.Context, cfg Config) (*gorm.DB, *pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "billscan"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, nil, err
	}

	// Wrap the pool as *sql.DB for gorm
	db := stdlib.OpenDBFromPool(pool)
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return gdb, pool, nil
}

// Close closes the database connections gracefully.
func (d *DB) Close(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("closing database connections")
	if d.pool != nil {
		d.pool.Close()
		return
	}
	if sqlDB, err := d.Gorm.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
}

// HealthCheck pings the database to catch DSN issues early.
func (d *DB) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if d.pool != nil {
		return d.pool.Ping(ctx)
	}
	sqlDB, err := d.Gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
