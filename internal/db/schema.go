package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(20)  NOT NULL UNIQUE,
		email         VARCHAR(254) NOT NULL UNIQUE,
		password_hash TEXT         NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id          SERIAL PRIMARY KEY,
		title       VARCHAR(100) NOT NULL UNIQUE,
		description TEXT         NOT NULL DEFAULT '',
		category    VARCHAR(30)  NOT NULL,
		due_date    TIMESTAMPTZ  NOT NULL,
		status      VARCHAR(10)  NOT NULL DEFAULT 'new',
		attachment  TEXT         NOT NULL DEFAULT '',
		user_id     INTEGER      REFERENCES users(id)
	)`,
}

// EnsureSchema creates the tables on startup if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	logger.Info("Database schema ensured")
	return nil
}
