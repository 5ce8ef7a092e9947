package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/eslsoft/lingvo/internal/infrastructure/config"
)

// NewDB constructs a bun.DB for the configured driver.
func NewDB(cfg *config.Config, logger *logrus.Logger) (*bun.DB, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}

	switch driver {
	case "pgx":
		return newPgxDB(cfg, logger)
	case "postgres":
		return newPostgresDB(cfg)
	case "sqlite3":
		return newSQLiteDB(cfg)
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func newPgxDB(cfg *config.Config, logger *logrus.Logger) (*bun.DB, func(), error) {
	pool, closePool, err := NewConnection(cfg, logger)
	if err != nil {
		if closePool != nil {
			closePool()
		}
		return nil, nil, err
	}

	db := bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
	return db, func() {
		_ = db.Close()
		closePool()
	}, nil
}

func newPostgresDB(cfg *config.Config) (*bun.DB, func(), error) {
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}
	rawDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres db: %w", err)
	}
	if cfg.Database.MaxOpenConns > 0 {
		rawDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("ping postgres db: %w", err)
	}

	db := bun.NewDB(rawDB, pgdialect.New())
	if cfg.Database.LogSQL {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, func() {
		_ = db.Close()
	}, nil
}

func newSQLiteDB(cfg *config.Config) (*bun.DB, func(), error) {
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}
	db, err := OpenSQLite(dsn)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.LogSQL {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db, func() {
		_ = db.Close()
	}, nil
}

// OpenSQLite opens a single-connection sqlite database with foreign keys enabled.
func OpenSQLite(dsn string) (*bun.DB, error) {
	rawDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	rawDB.SetMaxOpenConns(1)
	rawDB.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := rawDB.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		rawDB.Close()
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}

	return bun.NewDB(rawDB, sqlitedialect.New()), nil
}
