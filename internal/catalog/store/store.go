package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/reconbattery/pos/internal/catalog"
	"github.com/reconbattery/pos/internal/live"
)

type Store struct {
	db  *sql.DB
	hub *live.Hub
}

// New wraps db as a catalog repository. hub may be nil when no read side
// needs change notifications.
func New(db *sql.DB, hub *live.Hub) *Store {
	return &Store{db: db, hub: hub}
}

func (s *Store) PutProduct(ctx context.Context, p catalog.Product) error {
	query := `
		INSERT INTO products (name, price)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price
	`

	if _, err := s.db.ExecContext(ctx, query, p.Name, p.Price); err != nil {
		return fmt.Errorf("upserting product: %w", err)
	}

	s.hub.Publish(live.TableProducts)

	return nil
}

func (s *Store) GetProduct(ctx context.Context, name string) (*catalog.Product, error) {
	query := `SELECT name, price FROM products WHERE name = $1`

	var p catalog.Product

	err := s.db.QueryRowContext(ctx, query, name).Scan(&p.Name, &p.Price)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting product: %w", err)
	}

	return &p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return catalog.ErrNotFound
	}

	s.hub.Publish(live.TableProducts)

	return nil
}

func (s *Store) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, price FROM products ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	var products []catalog.Product

	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}

	return count, nil
}

// RenameProduct deletes the old entry and upserts the new one in a single
// database transaction; the name is the primary key so a rename cannot be an
// in-place update.
func (s *Store) RenameProduct(ctx context.Context, oldName string, p catalog.Product) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE name = $1`, oldName); err != nil {
		return fmt.Errorf("deleting old product: %w", err)
	}

	query := `
		INSERT INTO products (name, price)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET price = EXCLUDED.price
	`
	if _, err := tx.ExecContext(ctx, query, p.Name, p.Price); err != nil {
		return fmt.Errorf("inserting renamed product: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rename: %w", err)
	}

	s.hub.Publish(live.TableProducts)

	return nil
}
