package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LineParams is one cart line headed for storage.
type LineParams struct {
	Item      string
	Qty       int
	Price     decimal.Decimal
	LineTotal decimal.Decimal
}

// SaveParams describes a full sale write. When OverwriteID is set the sale is
// upserted under that id and its previous lines are discarded; otherwise the
// store assigns a fresh id. Either way the sale header and its complete line
// set land in one atomic unit.
type SaveParams struct {
	OverwriteID *int64
	SaleDate    time.Time
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Method      Method
	Lines       []LineParams
}

type ListFilter struct {
	Limit int
}

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=sale
type Repository interface {
	SaveSale(ctx context.Context, params SaveParams) (int64, error)
	GetSale(ctx context.Context, id int64) (*Sale, error)
	ListSales(ctx context.Context, filter ListFilter) ([]*Sale, error)
	ListLines(ctx context.Context, saleID int64) ([]Line, error)
	ListAllLines(ctx context.Context) ([]Line, error)
	DeleteSale(ctx context.Context, id int64) error
	Purge(ctx context.Context) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save persists the sale and its lines. The save timestamp is assigned here,
// so a re-save always refreshes SaleDate.
func (s *Service) Save(ctx context.Context, params SaveParams) (int64, error) {
	if len(params.Lines) == 0 {
		return 0, fmt.Errorf("sale has no lines")
	}

	if _, err := ParseMethod(string(params.Method)); err != nil {
		return 0, err
	}

	params.SaleDate = time.Now()

	return s.repo.SaveSale(ctx, params)
}

// Get returns the sale header and its lines in insertion order.
func (s *Service) Get(ctx context.Context, id int64) (*Sale, []Line, error) {
	rec, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	lines, err := s.repo.ListLines(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return rec, lines, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	return s.repo.ListSales(ctx, filter)
}

func (s *Service) Lines(ctx context.Context, saleID int64) ([]Line, error) {
	return s.repo.ListLines(ctx, saleID)
}

func (s *Service) AllLines(ctx context.Context) ([]Line, error) {
	return s.repo.ListAllLines(ctx)
}

// Delete removes the sale and all its lines as one unit.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteSale(ctx, id)
}

// Purge clears the entire sales history (sales and lines).
func (s *Service) Purge(ctx context.Context) error {
	return s.repo.Purge(ctx)
}
