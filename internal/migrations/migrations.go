// Package migrations bootstraps the users and contents tables.
// Every statement is idempotent so it runs on each start.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		seq        BIGSERIAL UNIQUE,
		id         UUID PRIMARY KEY,
		username   TEXT NOT NULL,
		password   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username_seq ON users (username, seq)`,
	`CREATE TABLE IF NOT EXISTS contents (
		seq        BIGSERIAL UNIQUE,
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES users (id),
		content    TEXT NOT NULL,
		likes      BIGINT NOT NULL DEFAULT 0 CHECK (likes >= 0),
		dislikes   BIGINT NOT NULL DEFAULT 0 CHECK (dislikes >= 0),
		comments   TEXT[] NOT NULL DEFAULT '{}',
		created_ns BIGINT NOT NULL,
		version    BIGINT NOT NULL DEFAULT 1
	)`,
}

var sqliteSchema = []string{
	`PRAGMA foreign_keys = ON`,
	`CREATE TABLE IF NOT EXISTS users (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		username   TEXT NOT NULL,
		password   TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username_seq ON users (username, seq)`,
	`CREATE TABLE IF NOT EXISTS contents (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		user_id    TEXT NOT NULL REFERENCES users (id),
		content    TEXT NOT NULL,
		likes      INTEGER NOT NULL DEFAULT 0,
		dislikes   INTEGER NOT NULL DEFAULT 0,
		comments   TEXT NOT NULL DEFAULT '[]',
		created_ns INTEGER NOT NULL,
		version    INTEGER NOT NULL DEFAULT 1
	)`,
}

func ApplyPostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply postgres schema statement %d: %w", i, err)
		}
	}
	return nil
}

func ApplySQLite(ctx context.Context, db *sql.DB) error {
	for i, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema statement %d: %w", i, err)
		}
	}
	return nil
}
