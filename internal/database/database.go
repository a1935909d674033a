package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		name  TEXT PRIMARY KEY,
		price NUMERIC(12, 2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id        BIGSERIAL PRIMARY KEY,
		sale_date TIMESTAMPTZ NOT NULL,
		subtotal  NUMERIC(12, 2) NOT NULL,
		tax       NUMERIC(12, 2) NOT NULL,
		total     NUMERIC(12, 2) NOT NULL,
		method    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sale_lines (
		id         BIGSERIAL PRIMARY KEY,
		sale_id    BIGINT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		item       TEXT NOT NULL,
		qty        INTEGER NOT NULL,
		price      NUMERIC(12, 2) NOT NULL,
		line_total NUMERIC(12, 2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_lines_sale_id ON sale_lines(sale_id)`,
}

// Migrate creates the POS tables if they do not exist. Safe to run on every
// startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}

	return nil
}
