package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/reconbattery/pos/internal/live"
	"github.com/reconbattery/pos/internal/sale"
)

type Store struct {
	db  *sql.DB
	hub *live.Hub
}

// New wraps db as a sale repository. hub may be nil when no read side needs
// change notifications.
func New(db *sql.DB, hub *live.Hub) *Store {
	return &Store{db: db, hub: hub}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSale(s scanner) (*sale.Sale, error) {
	var rec sale.Sale

	var methodStr string

	if err := s.Scan(&rec.ID, &rec.SaleDate, &rec.Subtotal, &rec.Tax, &rec.Total, &methodStr); err != nil {
		return nil, err
	}

	rec.Method = sale.Method(methodStr)

	return &rec, nil
}

const selectSaleColumns = `id, sale_date, subtotal, tax, total, method`

// SaveSale writes the sale header and its complete line set in one database
// transaction. Readers never observe a sale whose lines are partially
// replaced.
func (s *Store) SaveSale(ctx context.Context, params sale.SaveParams) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var saleID int64

	if params.OverwriteID != nil {
		saleID = *params.OverwriteID

		upsert := `
			INSERT INTO sales (id, sale_date, subtotal, tax, total, method)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				sale_date = EXCLUDED.sale_date,
				subtotal  = EXCLUDED.subtotal,
				tax       = EXCLUDED.tax,
				total     = EXCLUDED.total,
				method    = EXCLUDED.method
		`
		if _, err := tx.ExecContext(ctx, upsert,
			saleID, params.SaleDate, params.Subtotal, params.Tax, params.Total, params.Method,
		); err != nil {
			return 0, fmt.Errorf("overwriting sale: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, saleID); err != nil {
			return 0, fmt.Errorf("clearing sale lines: %w", err)
		}
	} else {
		insert := `
			INSERT INTO sales (sale_date, subtotal, tax, total, method)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`

		err := tx.QueryRowContext(ctx, insert,
			params.SaleDate, params.Subtotal, params.Tax, params.Total, params.Method,
		).Scan(&saleID)
		if err != nil {
			return 0, fmt.Errorf("creating sale: %w", err)
		}
	}

	insertLine := `
		INSERT INTO sale_lines (sale_id, item, qty, price, line_total)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, line := range params.Lines {
		if _, err := tx.ExecContext(ctx, insertLine,
			saleID, line.Item, line.Qty, line.Price, line.LineTotal,
		); err != nil {
			return 0, fmt.Errorf("inserting sale line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sale: %w", err)
	}

	s.hub.Publish(live.TableSales)
	s.hub.Publish(live.TableSaleLines)

	return saleID, nil
}

func (s *Store) GetSale(ctx context.Context, id int64) (*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales WHERE id = $1`

	rec, err := scanSale(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sale.ErrNotFound
		}

		return nil, fmt.Errorf("getting sale: %w", err)
	}

	return rec, nil
}

func (s *Store) ListSales(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	query := `SELECT ` + selectSaleColumns + ` FROM sales ORDER BY sale_date DESC`

	var args []any

	if filter.Limit > 0 {
		query += " LIMIT $1"

		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale

	for rows.Next() {
		rec, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}

		sales = append(sales, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale rows: %w", err)
	}

	return sales, nil
}

func (s *Store) ListLines(ctx context.Context, saleID int64) ([]sale.Line, error) {
	query := `
		SELECT id, sale_id, item, qty, price, line_total
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY id ASC
	`

	return s.queryLines(ctx, query, saleID)
}

func (s *Store) ListAllLines(ctx context.Context) ([]sale.Line, error) {
	query := `
		SELECT id, sale_id, item, qty, price, line_total
		FROM sale_lines
		ORDER BY id ASC
	`

	return s.queryLines(ctx, query)
}

func (s *Store) queryLines(ctx context.Context, query string, args ...any) ([]sale.Line, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sale lines: %w", err)
	}
	defer rows.Close()

	var lines []sale.Line

	for rows.Next() {
		var line sale.Line
		if err := rows.Scan(&line.ID, &line.SaleID, &line.Item, &line.Qty, &line.Price, &line.LineTotal); err != nil {
			return nil, fmt.Errorf("scanning sale line: %w", err)
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sale line rows: %w", err)
	}

	return lines, nil
}

// DeleteSale removes the sale and all its lines in one database transaction;
// a partially deleted sale must never be observable.
func (s *Store) DeleteSale(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, id); err != nil {
		return fmt.Errorf("deleting sale lines: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sale: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sale.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	s.hub.Publish(live.TableSales)
	s.hub.Publish(live.TableSaleLines)

	return nil
}

// Purge clears the full sales history.
func (s *Store) Purge(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sale_lines`); err != nil {
		return fmt.Errorf("purging sale lines: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sales`); err != nil {
		return fmt.Errorf("purging sales: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing purge: %w", err)
	}

	s.hub.Publish(live.TableSales)
	s.hub.Publish(live.TableSaleLines)

	return nil
}
