package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS participants (
        id            TEXT PRIMARY KEY,
        password_hash TEXT NOT NULL,
        created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS poll_state (
        id         SMALLINT PRIMARY KEY CHECK (id = 1),
        epoch      BIGINT NOT NULL,
        last_seq   BIGINT NOT NULL,
        status     TEXT NOT NULL,
        closes_at  TIMESTAMPTZ,
        winner     TEXT,
        updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS poll_candidates (
        position INT PRIMARY KEY,
        name     TEXT NOT NULL UNIQUE,
        votes    BIGINT NOT NULL CHECK (votes >= 0)
    )`,
	`CREATE TABLE IF NOT EXISTS poll_ballots (
        participant_id TEXT PRIMARY KEY,
        candidate      TEXT NOT NULL REFERENCES poll_candidates (name)
    )`,
}

// EnsureSchema creates the tables used by the repositories if missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// IsRetryable reports whether err is a transient Postgres failure worth
// another attempt: serialization failures, deadlocks and lost connections.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01":
			return true
		}
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "08"
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}
