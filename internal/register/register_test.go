package register_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reconbattery/pos/internal/catalog"
	"github.com/reconbattery/pos/internal/decision"
	"github.com/reconbattery/pos/internal/register"
	"github.com/reconbattery/pos/internal/sale"
	"github.com/reconbattery/pos/internal/settings"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakePrinter records receipts instead of spooling files.
type fakePrinter struct {
	printed []register.Receipt
	err     error
}

func (p *fakePrinter) Print(_ context.Context, r register.Receipt) error {
	if p.err != nil {
		return p.err
	}

	p.printed = append(p.printed, r)

	return nil
}

type fixture struct {
	ctrl     *register.Controller
	saleRepo *sale.MockRepository
	catRepo  *catalog.MockRepository
	gateway  *decision.MockGateway
	printer  *fakePrinter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mockCtrl := gomock.NewController(t)
	t.Cleanup(mockCtrl.Finish)

	saleRepo := sale.NewMockRepository(mockCtrl)
	catRepo := catalog.NewMockRepository(mockCtrl)
	gateway := decision.NewMockGateway(mockCtrl)
	printer := &fakePrinter{}

	rates, err := settings.New(dec("7.625"))
	require.NoError(t, err)

	c := register.New(
		sale.NewService(saleRepo),
		catalog.NewService(catRepo),
		rates,
		gateway,
		printer,
	)

	return &fixture{
		ctrl:     c,
		saleRepo: saleRepo,
		catRepo:  catRepo,
		gateway:  gateway,
		printer:  printer,
	}
}

func (f *fixture) expectPrice(name, price string) {
	f.catRepo.EXPECT().
		GetProduct(gomock.Any(), name).
		Return(&catalog.Product{Name: name, Price: dec(price)}, nil).
		AnyTimes()
}

// fill builds the standard two-line dirty session used by most tests.
func (f *fixture) fill(t *testing.T) {
	t.Helper()

	f.expectPrice("Bat45", "45.00")

	ctx := context.Background()
	require.NoError(t, f.ctrl.AddItem(ctx, "Bat45"))
	require.NoError(t, f.ctrl.AddItem(ctx, "Bat45"))
	require.NoError(t, f.ctrl.SetPaymentMethod(sale.MethodCash))
}

func TestController_AddItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.expectPrice("Bat45", "45.00")

	require.NoError(t, f.ctrl.AddItem(ctx, "Bat45"))
	require.NoError(t, f.ctrl.AddItem(ctx, "Bat45"))

	s := f.ctrl.Session()
	require.Len(t, s.Lines, 1)
	assert.Equal(t, 2, s.Lines[0].Qty)
	assert.True(t, s.Modified)
}

func TestController_AddItem_UnknownProduct(t *testing.T) {
	f := newFixture(t)

	f.catRepo.EXPECT().
		GetProduct(gomock.Any(), "Nope").
		Return(nil, catalog.ErrNotFound)

	err := f.ctrl.AddItem(context.Background(), "Nope")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	s := f.ctrl.Session()
	assert.Empty(t, s.Lines)
	assert.False(t, s.Modified)
}

func TestController_Totals_ReadsRateAtCallTime(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	rates, err := settings.New(dec("7.625"))
	require.NoError(t, err)

	catRepo := catalog.NewMockRepository(mockCtrl)
	catRepo.EXPECT().
		GetProduct(gomock.Any(), "Bat45").
		Return(&catalog.Product{Name: "Bat45", Price: dec("45.00")}, nil).
		Times(2)

	c := register.New(
		sale.NewService(sale.NewMockRepository(mockCtrl)),
		catalog.NewService(catRepo),
		rates,
		decision.NewMockGateway(mockCtrl),
		&fakePrinter{},
	)

	ctx := context.Background()
	require.NoError(t, c.AddItem(ctx, "Bat45"))
	require.NoError(t, c.AddItem(ctx, "Bat45"))

	totals, err := c.Totals()
	require.NoError(t, err)
	assert.Equal(t, "6.86", totals.Tax.StringFixed(2))

	// A rate change applies to the next computation without a reload.
	require.NoError(t, rates.SetTaxRatePercent(dec("10")))

	totals, err = c.Totals()
	require.NoError(t, err)
	assert.Equal(t, "9.00", totals.Tax.StringFixed(2))
}

func TestController_Save_Validation(t *testing.T) {
	t.Run("EmptyCart", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.ctrl.Save(context.Background())
		assert.ErrorIs(t, err, register.ErrEmptyCart)
	})

	t.Run("MissingPaymentMethod", func(t *testing.T) {
		f := newFixture(t)
		f.expectPrice("Bat45", "45.00")

		require.NoError(t, f.ctrl.AddItem(context.Background(), "Bat45"))

		_, err := f.ctrl.Save(context.Background())
		assert.ErrorIs(t, err, register.ErrMissingPaymentMethod)
	})
}

func TestController_Save_NewSale(t *testing.T) {
	f := newFixture(t)
	f.fill(t)

	var got sale.SaveParams

	f.saleRepo.EXPECT().
		SaveSale(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params sale.SaveParams) (int64, error) {
			got = params
			return 7, nil
		})

	id, err := f.ctrl.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	assert.Nil(t, got.OverwriteID)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Bat45", got.Lines[0].Item)
	assert.Equal(t, 2, got.Lines[0].Qty)
	assert.Equal(t, "90.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "6.86", got.Tax.StringFixed(2))
	assert.Equal(t, "96.86", got.Total.StringFixed(2))
	assert.Equal(t, sale.MethodCash, got.Method)

	s := f.ctrl.Session()
	require.NotNil(t, s.CurrentSaleID)
	assert.Equal(t, int64(7), *s.CurrentSaleID)
	assert.False(t, s.Modified)
}

func TestController_Save_Duplicate(t *testing.T) {
	type testCase struct {
		name        string
		choice      string
		askErr      error
		savedID     int64
		wantErr     error
		wantSaved   bool
		wantOverwID *int64
		wantCurrent int64
	}

	overwrite := int64(7)

	tests := []testCase{
		{
			name:        "Overwrite",
			choice:      "overwrite",
			savedID:     7,
			wantSaved:   true,
			wantOverwID: &overwrite,
			wantCurrent: 7,
		},
		{
			name:        "SaveAsNew",
			choice:      "new",
			savedID:     8,
			wantSaved:   true,
			wantCurrent: 8,
		},
		{
			name:    "Cancel",
			choice:  "cancel",
			wantErr: decision.ErrCancelled,
		},
		{
			name:    "Dismissed",
			askErr:  decision.ErrCancelled,
			wantErr: decision.ErrCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.fill(t)

			// First save establishes currentSaleID = 7.
			f.saleRepo.EXPECT().
				SaveSale(gomock.Any(), gomock.Any()).
				Return(int64(7), nil)

			_, err := f.ctrl.Save(context.Background())
			require.NoError(t, err)

			// Dirty the session so the re-save is meaningful.
			require.NoError(t, f.ctrl.SetQuantity(0, 3))

			f.gateway.EXPECT().
				Ask(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, p decision.Prompt) (string, error) {
					assert.Equal(t, "Duplicate Sale", p.Title)
					assert.Len(t, p.Options, 3)
					return tt.choice, tt.askErr
				})

			if tt.wantSaved {
				f.saleRepo.EXPECT().
					SaveSale(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params sale.SaveParams) (int64, error) {
						if tt.wantOverwID != nil {
							require.NotNil(t, params.OverwriteID)
							assert.Equal(t, *tt.wantOverwID, *params.OverwriteID)
						} else {
							assert.Nil(t, params.OverwriteID)
						}
						return tt.savedID, nil
					})
			}

			id, err := f.ctrl.Save(context.Background())

			s := f.ctrl.Session()

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				// Cancellation leaves everything as it was.
				assert.True(t, s.Modified)
				require.NotNil(t, s.CurrentSaleID)
				assert.Equal(t, int64(7), *s.CurrentSaleID)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.savedID, id)
			assert.False(t, s.Modified)
			require.NotNil(t, s.CurrentSaleID)
			assert.Equal(t, tt.wantCurrent, *s.CurrentSaleID)
		})
	}
}

func TestController_Save_StoreErrorLeavesSessionUntouched(t *testing.T) {
	f := newFixture(t)
	f.fill(t)

	f.saleRepo.EXPECT().
		SaveSale(gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("disk full"))

	_, err := f.ctrl.Save(context.Background())
	require.Error(t, err)

	s := f.ctrl.Session()
	assert.Nil(t, s.CurrentSaleID)
	assert.True(t, s.Modified)
}

func TestController_Load_RoundTrip(t *testing.T) {
	f := newFixture(t)

	f.saleRepo.EXPECT().
		GetSale(gomock.Any(), int64(3)).
		Return(&sale.Sale{
			ID:       3,
			Subtotal: dec("29.00"),
			Tax:      dec("2.21"),
			Total:    dec("31.21"),
			Method:   sale.MethodCard,
		}, nil)
	f.saleRepo.EXPECT().
		ListLines(gomock.Any(), int64(3)).
		Return([]sale.Line{
			{ID: 10, SaleID: 3, Item: "Bat45", Qty: 1, Price: dec("45.00"), LineTotal: dec("45.00")},
			{ID: 11, SaleID: 3, Item: "RCoreDep16", Qty: 1, Price: dec("-16.00"), LineTotal: dec("-16.00")},
		}, nil)

	require.NoError(t, f.ctrl.Load(context.Background(), 3))

	s := f.ctrl.Session()
	require.Len(t, s.Lines, 2)
	assert.Equal(t, "Bat45", s.Lines[0].Product)
	assert.Equal(t, "RCoreDep16", s.Lines[1].Product)
	assert.True(t, s.Lines[1].UnitPrice.Equal(dec("-16.00")))
	assert.True(t, s.Lines[1].LineTotal.Equal(dec("-16.00")))
	assert.Equal(t, sale.MethodCard, s.PaymentMethod)
	require.NotNil(t, s.CurrentSaleID)
	assert.Equal(t, int64(3), *s.CurrentSaleID)
	assert.False(t, s.Modified)
}

func TestController_Load_NotFound(t *testing.T) {
	f := newFixture(t)

	f.saleRepo.EXPECT().
		GetSale(gomock.Any(), int64(99)).
		Return(nil, sale.ErrNotFound)

	err := f.ctrl.Load(context.Background(), 99)
	assert.ErrorIs(t, err, sale.ErrNotFound)

	s := f.ctrl.Session()
	assert.Nil(t, s.CurrentSaleID)
}

func TestController_Load_DirtyCartGate(t *testing.T) {
	t.Run("KeepWorking", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p decision.Prompt) (string, error) {
				assert.Equal(t, "Discard Changes", p.Title)
				return "cancel", nil
			})

		err := f.ctrl.Load(context.Background(), 3)
		assert.ErrorIs(t, err, decision.ErrCancelled)

		s := f.ctrl.Session()
		require.Len(t, s.Lines, 1)
		assert.True(t, s.Modified)
	})

	t.Run("Discard", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			Return("discard", nil)
		f.saleRepo.EXPECT().
			GetSale(gomock.Any(), int64(3)).
			Return(&sale.Sale{ID: 3, Method: sale.MethodCheck}, nil)
		f.saleRepo.EXPECT().
			ListLines(gomock.Any(), int64(3)).
			Return([]sale.Line{{Item: "Bat65", Qty: 1, Price: dec("65.00"), LineTotal: dec("65.00")}}, nil)

		require.NoError(t, f.ctrl.Load(context.Background(), 3))

		s := f.ctrl.Session()
		require.Len(t, s.Lines, 1)
		assert.Equal(t, "Bat65", s.Lines[0].Product)
		assert.False(t, s.Modified)
	})
}

func TestController_New(t *testing.T) {
	t.Run("DirtyCartGated", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p decision.Prompt) (string, error) {
				assert.Equal(t, "Clear Sale", p.Title)
				return "cancel", nil
			})

		err := f.ctrl.New(context.Background())
		assert.ErrorIs(t, err, decision.ErrCancelled)
		assert.Len(t, f.ctrl.Session().Lines, 1)
	})

	t.Run("DirtyCartCleared", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			Return("clear", nil)

		require.NoError(t, f.ctrl.New(context.Background()))

		s := f.ctrl.Session()
		assert.Empty(t, s.Lines)
		assert.Empty(t, s.PaymentMethod)
		assert.Nil(t, s.CurrentSaleID)
		assert.False(t, s.Modified)
	})

	t.Run("CleanSessionSkipsPrompt", func(t *testing.T) {
		f := newFixture(t)

		// No gateway expectation: asking here would fail the test.
		require.NoError(t, f.ctrl.New(context.Background()))
	})
}

func TestController_Delete(t *testing.T) {
	t.Run("ConfirmedResetsCurrentSession", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.saleRepo.EXPECT().
			SaveSale(gomock.Any(), gomock.Any()).
			Return(int64(3), nil)

		_, err := f.ctrl.Save(context.Background())
		require.NoError(t, err)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p decision.Prompt) (string, error) {
				assert.Equal(t, "Delete Sale", p.Title)
				return "delete", nil
			})
		f.saleRepo.EXPECT().
			DeleteSale(gomock.Any(), int64(3)).
			Return(nil)

		require.NoError(t, f.ctrl.Delete(context.Background(), 3))

		s := f.ctrl.Session()
		assert.Empty(t, s.Lines)
		assert.Nil(t, s.CurrentSaleID)
	})

	t.Run("ConfirmedOtherSaleKeepsSession", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			Return("delete", nil)
		f.saleRepo.EXPECT().
			DeleteSale(gomock.Any(), int64(42)).
			Return(nil)

		require.NoError(t, f.ctrl.Delete(context.Background(), 42))
		assert.Len(t, f.ctrl.Session().Lines, 1)
	})

	t.Run("Cancelled", func(t *testing.T) {
		f := newFixture(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			Return("cancel", nil)

		err := f.ctrl.Delete(context.Background(), 3)
		assert.ErrorIs(t, err, decision.ErrCancelled)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFixture(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			Return("delete", nil)
		f.saleRepo.EXPECT().
			DeleteSale(gomock.Any(), int64(3)).
			Return(sale.ErrNotFound)

		err := f.ctrl.Delete(context.Background(), 3)
		assert.ErrorIs(t, err, sale.ErrNotFound)
	})
}

func TestController_Print(t *testing.T) {
	t.Run("SavedAndClean", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.saleRepo.EXPECT().
			SaveSale(gomock.Any(), gomock.Any()).
			Return(int64(5), nil)

		_, err := f.ctrl.Save(context.Background())
		require.NoError(t, err)

		require.NoError(t, f.ctrl.Print(context.Background()))
		require.Len(t, f.printer.printed, 1)
		assert.Equal(t, int64(5), f.printer.printed[0].SaleID)
		assert.Equal(t, "96.86", f.printer.printed[0].Totals.Total.StringFixed(2))
	})

	t.Run("UnsavedSaveAndPrint", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p decision.Prompt) (string, error) {
				assert.Equal(t, "Save Required", p.Title)
				return "save", nil
			})
		f.saleRepo.EXPECT().
			SaveSale(gomock.Any(), gomock.Any()).
			Return(int64(6), nil)

		require.NoError(t, f.ctrl.Print(context.Background()))
		require.Len(t, f.printer.printed, 1)
		assert.Equal(t, int64(6), f.printer.printed[0].SaleID)
		assert.False(t, f.ctrl.Session().Modified)
	})

	t.Run("CancelSkipsSaveAndPrint", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			Return("cancel", nil)

		err := f.ctrl.Print(context.Background())
		assert.ErrorIs(t, err, decision.ErrCancelled)
		assert.Empty(t, f.printer.printed)
		assert.True(t, f.ctrl.Session().Modified)
	})

	t.Run("SaveFailureSkipsPrint", func(t *testing.T) {
		f := newFixture(t)
		f.fill(t)

		f.gateway.EXPECT().
			Ask(gomock.Any(), gomock.Any()).
			Return("save", nil)
		f.saleRepo.EXPECT().
			SaveSale(gomock.Any(), gomock.Any()).
			Return(int64(0), errors.New("db down"))

		err := f.ctrl.Print(context.Background())
		require.Error(t, err)
		assert.Empty(t, f.printer.printed)
	})
}
