// Package register is the sale transaction engine: it owns the ephemeral
// session (cart, tax toggle, payment method, current sale id, modified flag)
// and orchestrates New/Save/Load/Delete/Print against the catalog, the sale
// store, the settings store and the decision gateway.
package register

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reconbattery/pos/internal/cart"
	"github.com/reconbattery/pos/internal/catalog"
	"github.com/reconbattery/pos/internal/decision"
	"github.com/reconbattery/pos/internal/sale"
)

var (
	ErrEmptyCart            = errors.New("no items to save")
	ErrMissingPaymentMethod = errors.New("payment method not selected")
)

// Receipt is the snapshot handed to the printer after the Print gate passes.
type Receipt struct {
	SaleID int64
	Date   time.Time
	Lines  cart.Cart
	Totals cart.Totals
	Method sale.Method
}

// Printer performs the external print side effect. It runs only for a saved,
// unmodified session.
type Printer interface {
	Print(ctx context.Context, r Receipt) error
}

// TaxRates supplies the current tax-rate percent; the controller reads it at
// computation time and never caches it.
type TaxRates interface {
	TaxRatePercent() decimal.Decimal
}

// Session is a read-only snapshot of the controller state.
type Session struct {
	Lines         cart.Cart
	TaxEnabled    bool
	PaymentMethod sale.Method
	CurrentSaleID *int64
	Modified      bool
}

// Controller serializes all operations with an internal mutex: one logical
// operation runs to completion (including its decision prompts and store I/O)
// before the next begins, so there is never more than one ask outstanding and
// two concurrent Saves cannot race on id assignment.
type Controller struct {
	sales     *sale.Service
	catalog   *catalog.Service
	rates     TaxRates
	decisions decision.Gateway
	printer   Printer

	mu      sync.Mutex
	session Session
}

func New(sales *sale.Service, cat *catalog.Service, rates TaxRates, decisions decision.Gateway, printer Printer) *Controller {
	return &Controller{
		sales:     sales,
		catalog:   cat,
		rates:     rates,
		decisions: decisions,
		printer:   printer,
		session:   Session{TaxEnabled: true},
	}
}

// Session returns a copy of the current session state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot()
}

func (c *Controller) snapshot() Session {
	s := c.session
	s.Lines = append(cart.Cart(nil), c.session.Lines...)

	if c.session.CurrentSaleID != nil {
		id := *c.session.CurrentSaleID
		s.CurrentSaleID = &id
	}

	return s
}

// AddItem adds one unit of the named product, snapshotting its catalog price
// on first add. Unknown products surface catalog.ErrNotFound.
func (c *Controller) AddItem(ctx context.Context, productName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	price, err := c.catalog.Price(ctx, productName)
	if err != nil {
		return err
	}

	c.session.Lines = c.session.Lines.Add(productName, price)
	c.session.Modified = true

	return nil
}

// SetQuantity changes a line's quantity; zero or less removes the line.
func (c *Controller) SetQuantity(index, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.session.Lines.SetQuantity(index, qty)
	if err != nil {
		return err
	}

	c.session.Lines = next
	c.session.Modified = true

	return nil
}

// RemoveItem drops the line at index.
func (c *Controller) RemoveItem(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.session.Lines.Remove(index)
	if err != nil {
		return err
	}

	c.session.Lines = next
	c.session.Modified = true

	return nil
}

func (c *Controller) SetPaymentMethod(m sale.Method) error {
	if _, err := sale.ParseMethod(string(m)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.PaymentMethod = m
	c.session.Modified = true

	return nil
}

func (c *Controller) SetTaxEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.session.TaxEnabled = enabled
	c.session.Modified = true
}

// Totals computes the derived amounts for the current cart, reading the tax
// rate at call time so a settings change applies immediately.
func (c *Controller) Totals() (cart.Totals, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.totals()
}

func (c *Controller) totals() (cart.Totals, error) {
	return cart.ComputeTotals(c.session.Lines, c.session.TaxEnabled, c.rates.TaxRatePercent())
}

// New clears the session for the next transaction. A dirty, non-empty cart is
// gated behind a "Clear Sale" decision; anything but a clear confirmation
// aborts with decision.ErrCancelled and leaves the session untouched.
func (c *Controller) New(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Modified && len(c.session.Lines) > 0 {
		choice, err := c.decisions.Ask(ctx, decision.Prompt{
			Title:   "Clear Sale",
			Message: "Clear current sale? Unsaved changes will be lost.",
			Options: []decision.Option{
				{Label: "Clear Sale", Value: "clear", Emphasis: decision.EmphasisDanger},
				{Label: "Keep Working", Value: "cancel", Emphasis: decision.EmphasisSecondary},
			},
		})
		if err != nil {
			return err
		}

		if choice != "clear" {
			return decision.ErrCancelled
		}
	}

	c.reset()

	return nil
}

func (c *Controller) reset() {
	c.session = Session{TaxEnabled: c.session.TaxEnabled}
}

// Save validates and persists the current cart as a sale. When the session
// already has a sale id, a "Duplicate Sale" decision picks between
// overwriting it, saving under a fresh id, or cancelling. Session state
// advances only after the store reports success.
func (c *Controller) Save(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.save(ctx)
}

func (c *Controller) save(ctx context.Context) (int64, error) {
	if len(c.session.Lines) == 0 {
		return 0, ErrEmptyCart
	}

	if c.session.PaymentMethod == "" {
		return 0, ErrMissingPaymentMethod
	}

	var overwriteID *int64

	if c.session.CurrentSaleID != nil {
		existing := *c.session.CurrentSaleID

		choice, err := c.decisions.Ask(ctx, decision.Prompt{
			Title:   "Duplicate Sale",
			Message: fmt.Sprintf("Sale %d already exists! What would you like to do?", existing),
			Options: []decision.Option{
				{Label: "YES - Overwrite", Value: "overwrite", Emphasis: decision.EmphasisDanger},
				{Label: "NO - Save as New", Value: "new", Emphasis: decision.EmphasisPrimary},
				{Label: "CANCEL", Value: "cancel", Emphasis: decision.EmphasisSecondary},
			},
		})
		if err != nil {
			return 0, err
		}

		switch choice {
		case "overwrite":
			overwriteID = &existing
		case "new":
			// Fresh id; the existing sale stays untouched.
		default:
			return 0, decision.ErrCancelled
		}
	}

	totals, err := c.totals()
	if err != nil {
		return 0, err
	}

	params := sale.SaveParams{
		OverwriteID: overwriteID,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		Total:       totals.Total,
		Method:      c.session.PaymentMethod,
		Lines:       linesToParams(c.session.Lines),
	}

	id, err := c.sales.Save(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("saving sale: %w", err)
	}

	c.session.CurrentSaleID = &id
	c.session.Modified = false

	return id, nil
}

func linesToParams(lines cart.Cart) []sale.LineParams {
	params := make([]sale.LineParams, len(lines))
	for i, line := range lines {
		params[i] = sale.LineParams{
			Item:      line.Product,
			Qty:       line.Qty,
			Price:     line.UnitPrice,
			LineTotal: line.LineTotal,
		}
	}

	return params
}

// Load replaces the session with the stored sale. Lines are taken verbatim
// from storage, never recomputed. A dirty, non-empty cart is gated behind a
// "Discard Changes" decision first (the legacy register silently discarded
// unsaved work here; gating matches the New/Print behavior).
func (c *Controller) Load(ctx context.Context, saleID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.Modified && len(c.session.Lines) > 0 {
		choice, err := c.decisions.Ask(ctx, decision.Prompt{
			Title:   "Discard Changes",
			Message: fmt.Sprintf("Load sale %d? Unsaved changes will be lost.", saleID),
			Options: []decision.Option{
				{Label: "Discard and Load", Value: "discard", Emphasis: decision.EmphasisDanger},
				{Label: "Keep Working", Value: "cancel", Emphasis: decision.EmphasisSecondary},
			},
		})
		if err != nil {
			return err
		}

		if choice != "discard" {
			return decision.ErrCancelled
		}
	}

	rec, storedLines, err := c.sales.Get(ctx, saleID)
	if err != nil {
		return err
	}

	lines := make(cart.Cart, len(storedLines))
	for i, line := range storedLines {
		lines[i] = cart.Line{
			Product:   line.Item,
			Qty:       line.Qty,
			UnitPrice: line.Price,
			LineTotal: line.LineTotal,
		}
	}

	c.session.Lines = lines
	c.session.PaymentMethod = rec.Method
	c.session.CurrentSaleID = &saleID
	c.session.Modified = false

	return nil
}

// Delete removes the sale and its lines after a "Delete Sale" confirmation.
// Deleting the sale currently being edited also resets the session, so a
// caller cannot end up editing a sale that no longer exists.
func (c *Controller) Delete(ctx context.Context, saleID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	choice, err := c.decisions.Ask(ctx, decision.Prompt{
		Title:   "Delete Sale",
		Message: fmt.Sprintf("Are you sure you want to delete sale %d? This action cannot be undone.", saleID),
		Options: []decision.Option{
			{Label: "Delete", Value: "delete", Emphasis: decision.EmphasisDanger},
			{Label: "Cancel", Value: "cancel", Emphasis: decision.EmphasisSecondary},
		},
	})
	if err != nil {
		return err
	}

	if choice != "delete" {
		return decision.ErrCancelled
	}

	if err := c.sales.Delete(ctx, saleID); err != nil {
		return err
	}

	if c.session.CurrentSaleID != nil && *c.session.CurrentSaleID == saleID {
		c.reset()
	}

	return nil
}

// Print gates the print side effect on a saved, unmodified session. An
// unsaved or modified session asks "Save Required" and runs Save on
// confirmation; if the save fails or either prompt is declined, nothing is
// printed.
func (c *Controller) Print(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.CurrentSaleID == nil || c.session.Modified {
		msg := "This sale has been modified. Save changes before printing?"
		if c.session.CurrentSaleID == nil {
			msg = "This sale hasn't been saved yet. Save now before printing?"
		}

		choice, err := c.decisions.Ask(ctx, decision.Prompt{
			Title:   "Save Required",
			Message: msg,
			Options: []decision.Option{
				{Label: "Save and Print", Value: "save", Emphasis: decision.EmphasisPrimary},
				{Label: "Cancel", Value: "cancel", Emphasis: decision.EmphasisSecondary},
			},
		})
		if err != nil {
			return err
		}

		if choice != "save" {
			return decision.ErrCancelled
		}

		if _, err := c.save(ctx); err != nil {
			return err
		}
	}

	totals, err := c.totals()
	if err != nil {
		return err
	}

	receipt := Receipt{
		SaleID: *c.session.CurrentSaleID,
		Date:   time.Now(),
		Lines:  append(cart.Cart(nil), c.session.Lines...),
		Totals: totals,
		Method: c.session.PaymentMethod,
	}

	if err := c.printer.Print(ctx, receipt); err != nil {
		return fmt.Errorf("printing receipt: %w", err)
	}

	return nil
}
