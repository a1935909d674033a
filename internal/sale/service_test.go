package sale_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/reconbattery/pos/internal/sale"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validParams() sale.SaveParams {
	return sale.SaveParams{
		Subtotal: dec("90.00"),
		Tax:      dec("6.86"),
		Total:    dec("96.86"),
		Method:   sale.MethodCash,
		Lines: []sale.LineParams{
			{Item: "Bat45", Qty: 2, Price: dec("45.00"), LineTotal: dec("90.00")},
		},
	}
}

func TestService_Save(t *testing.T) {
	type testCase struct {
		name      string
		params    func() sale.SaveParams
		setupMock func(m *sale.MockRepository)
		wantID    int64
		wantErr   bool
	}

	tests := []testCase{
		{
			name:   "Success",
			params: validParams,
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().
					SaveSale(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, params sale.SaveParams) (int64, error) {
						// The service stamps the save time.
						assert.False(t, params.SaleDate.IsZero())
						assert.WithinDuration(t, time.Now(), params.SaleDate, time.Minute)
						return 4, nil
					})
			},
			wantID: 4,
		},
		{
			name: "NoLines",
			params: func() sale.SaveParams {
				p := validParams()
				p.Lines = nil
				return p
			},
			wantErr: true,
		},
		{
			name: "BadMethod",
			params: func() sale.SaveParams {
				p := validParams()
				p.Method = "Barter"
				return p
			},
			wantErr: true,
		},
		{
			name:   "RepoError",
			params: validParams,
			setupMock: func(m *sale.MockRepository) {
				m.EXPECT().
					SaveSale(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := sale.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := sale.NewService(repo)
			id, err := svc.Save(context.Background(), tt.params())

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	svc := sale.NewService(repo)

	repo.EXPECT().
		GetSale(gomock.Any(), int64(3)).
		Return(&sale.Sale{ID: 3, Method: sale.MethodCard}, nil)
	repo.EXPECT().
		ListLines(gomock.Any(), int64(3)).
		Return([]sale.Line{{SaleID: 3, Item: "Bat45"}}, nil)

	rec, lines, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.ID)
	require.Len(t, lines, 1)
	assert.Equal(t, "Bat45", lines[0].Item)
}

func TestService_Get_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := sale.NewMockRepository(ctrl)
	svc := sale.NewService(repo)

	repo.EXPECT().
		GetSale(gomock.Any(), int64(99)).
		Return(nil, sale.ErrNotFound)

	_, _, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, sale.ErrNotFound)
}

func TestParseMethod(t *testing.T) {
	for _, valid := range []string{"Cash", "Card", "Check"} {
		m, err := sale.ParseMethod(valid)
		require.NoError(t, err)
		assert.Equal(t, sale.Method(valid), m)
	}

	for _, invalid := range []string{"", "cash", "Credit"} {
		_, err := sale.ParseMethod(invalid)
		assert.Error(t, err, "method %q", invalid)
	}
}
