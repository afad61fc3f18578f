package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a PostgreSQL pool for the lead store and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN must not be empty")
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}

	// The form endpoint is low volume; a handful of connections is plenty.
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Execer is the subset of a pool needed to run DDL.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const leadsTableDDL = `
CREATE TABLE IF NOT EXISTS leads (
    id              BIGSERIAL PRIMARY KEY,
    first_name      TEXT NOT NULL,
    last_name       TEXT NOT NULL,
    email           TEXT NOT NULL,
    phone           TEXT NOT NULL,
    phone_e164      TEXT,
    company_name    TEXT NOT NULL,
    company_size    TEXT NOT NULL,
    industry        TEXT NOT NULL,
    lead_type       TEXT NOT NULL,
    monthly_budget  TEXT NOT NULL,
    timeline        TEXT NOT NULL,
    additional_info TEXT,
    submitted_at    TIMESTAMPTZ NOT NULL
)`

// EnsureLeadsSchema creates the leads table when it does not exist yet.
func EnsureLeadsSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, leadsTableDDL); err != nil {
		return fmt.Errorf("create leads table: %w", err)
	}
	return nil
}
