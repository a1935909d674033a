package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=catalog
type Repository interface {
	PutProduct(ctx context.Context, p Product) error
	GetProduct(ctx context.Context, name string) (*Product, error)
	DeleteProduct(ctx context.Context, name string) error
	ListProducts(ctx context.Context) ([]Product, error)
	CountProducts(ctx context.Context) (int, error)

	// RenameProduct replaces the old entry with the new one atomically,
	// since the name is the primary key.
	RenameProduct(ctx context.Context, oldName string, p Product) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Put(ctx context.Context, p Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}

	return s.repo.PutProduct(ctx, p)
}

func (s *Service) Get(ctx context.Context, name string) (*Product, error) {
	return s.repo.GetProduct(ctx, name)
}

// Price looks up the unit price for a product name. This is the add-time
// snapshot the register takes; later catalog edits do not touch carts.
func (s *Service) Price(ctx context.Context, name string) (decimal.Decimal, error) {
	p, err := s.repo.GetProduct(ctx, name)
	if err != nil {
		return decimal.Zero, err
	}

	return p.Price, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	return s.repo.DeleteProduct(ctx, name)
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) Rename(ctx context.Context, oldName string, p Product) error {
	if p.Name == "" {
		return fmt.Errorf("product name is required")
	}

	if oldName == p.Name {
		return s.repo.PutProduct(ctx, p)
	}

	return s.repo.RenameProduct(ctx, oldName, p)
}

func (s *Service) PutBatch(ctx context.Context, products []Product) error {
	for _, p := range products {
		if err := s.Put(ctx, p); err != nil {
			return fmt.Errorf("storing product %q: %w", p.Name, err)
		}
	}

	return nil
}

// SeedDefaults installs the sample catalog when the store is empty. It is a
// no-op on a populated catalog.
func (s *Service) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("counting products: %w", err)
	}

	if count > 0 {
		return nil
	}

	return s.PutBatch(ctx, defaultProducts())
}
