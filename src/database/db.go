package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

const schemaFile = "schema.sql"

// Database holds the PostgreSQL connection pool
type Database struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL, applies schema.sql and pending migrations, and
// returns a ready Database.
func New(ctx context.Context, databaseURL string) (*Database, error) {
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolCfg.MaxConns = 25
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = 5 * time.Minute
	poolCfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	db := &Database{pool: pool}
	if err := db.initializeSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool
func (db *Database) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// GetPool returns the connection pool
func (db *Database) GetPool() *pgxpool.Pool {
	return db.pool
}

// initializeSchema executes schema.sql from the working directory. The schema
// uses IF NOT EXISTS throughout so a restart against an existing database is
// a no-op.
func (db *Database) initializeSchema(ctx context.Context) error {
	content, err := os.ReadFile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", schemaFile, err)
	}

	if _, err := db.pool.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := db.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database schema initialized")
	return nil
}

// runMigrations backfills columns added after the first release, for
// databases created from an older schema.sql.
func (db *Database) runMigrations(ctx context.Context) error {
	migrations := []struct {
		name string
		sql  string
	}{
		{
			name: "shops rents ledger column",
			sql: `ALTER TABLE shops
			      ADD COLUMN IF NOT EXISTS rents JSONB NOT NULL DEFAULT '[]'`,
		},
		{
			name: "admins market metadata columns",
			sql: `ALTER TABLE admins
			      ADD COLUMN IF NOT EXISTS market_name TEXT NOT NULL DEFAULT '',
			      ADD COLUMN IF NOT EXISTS total_shops INTEGER NOT NULL DEFAULT 0`,
		},
	}

	for _, m := range migrations {
		if _, err := db.pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %q failed: %w", m.name, err)
		}
	}
	return nil
}

// Health checks if the database is reachable
func (db *Database) Health(ctx context.Context) error {
	if db == nil || db.pool == nil {
		return fmt.Errorf("database connection not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return db.pool.Ping(ctx)
}

// QueryRow executes a query and returns a single row
func (db *Database) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

// Query executes a query and returns rows
func (db *Database) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

// Exec executes a query without returning rows
func (db *Database) Exec(ctx context.Context, sql string, args ...interface{}) error {
	_, err := db.pool.Exec(ctx, sql, args...)
	return err
}
