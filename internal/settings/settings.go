// Package settings holds process-wide register configuration. Today that is
// the sales tax rate: seeded from the environment, adjustable at runtime, and
// observable through Subscribe so open sessions and settings surfaces stay in
// step without polling.
package settings

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/reconbattery/pos/internal/cart"
)

var oneHundred = decimal.NewFromInt(100)

type Store struct {
	mu     sync.RWMutex
	rate   decimal.Decimal
	nextID int
	subs   map[int]chan decimal.Decimal
}

// New builds a settings store with the given tax-rate percent. The rate must
// be within [0, 100].
func New(ratePercent decimal.Decimal) (*Store, error) {
	if ratePercent.IsNegative() || ratePercent.GreaterThan(oneHundred) {
		return nil, cart.ErrInvalidTaxRate
	}

	return &Store{
		rate: ratePercent,
		subs: make(map[int]chan decimal.Decimal),
	}, nil
}

// TaxRatePercent returns the current rate. Callers read it at computation
// time rather than caching it, so a change applies to the next computation.
func (s *Store) TaxRatePercent() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rate
}

// SetTaxRatePercent replaces the rate and notifies subscribers. Out-of-range
// rates are rejected, not clamped.
func (s *Store) SetTaxRatePercent(ratePercent decimal.Decimal) error {
	if ratePercent.IsNegative() || ratePercent.GreaterThan(oneHundred) {
		return cart.ErrInvalidTaxRate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rate = ratePercent

	for _, ch := range s.subs {
		select {
		case ch <- ratePercent:
		default:
		}
	}

	return nil
}

// Subscribe returns a channel receiving every rate change and a cancel func.
// The channel has a one-slot buffer; a slow reader may miss intermediate
// changes but is never blocked on.
func (s *Store) Subscribe() (<-chan decimal.Decimal, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan decimal.Decimal, 1)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}

	return ch, cancel
}
