package currency_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmcouto/centavo/internal/currency"
)

func TestValidCode(t *testing.T) {
	assert.True(t, currency.ValidCode("EUR"))
	assert.True(t, currency.ValidCode("USD"))
	assert.True(t, currency.ValidCode("BRL"))

	assert.False(t, currency.ValidCode(""))
	assert.False(t, currency.ValidCode("EURO"))
	assert.False(t, currency.ValidCode("E"))
}

func TestNewConverter(t *testing.T) {
	type testCase struct {
		name    string
		base    string
		rates   map[string]decimal.Decimal
		wantErr bool
	}

	tests := []testCase{
		{
			name:  "Valid",
			base:  "EUR",
			rates: map[string]decimal.Decimal{"USD": decimal.NewFromFloat(0.93)},
		},
		{
			name:  "NoRates",
			base:  "EUR",
			rates: nil,
		},
		{
			name:    "BadBase",
			base:    "EURO",
			wantErr: true,
		},
		{
			name:    "BadRateCode",
			base:    "EUR",
			rates:   map[string]decimal.Decimal{"DOLLAR": decimal.NewFromFloat(0.93)},
			wantErr: true,
		},
		{
			name:    "NegativeRate",
			base:    "EUR",
			rates:   map[string]decimal.Decimal{"USD": decimal.NewFromFloat(-1)},
			wantErr: true,
		},
		{
			name:    "ZeroRate",
			base:    "EUR",
			rates:   map[string]decimal.Decimal{"USD": decimal.Zero},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := currency.NewConverter(tt.base, tt.rates)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, conv)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.base, conv.Base())
		})
	}
}

func TestConverter_Convert(t *testing.T) {
	conv, err := currency.NewConverter("EUR", map[string]decimal.Decimal{
		"USD": decimal.NewFromFloat(0.93),
		"GBP": decimal.NewFromFloat(1.17),
	})
	require.NoError(t, err)

	type testCase struct {
		name   string
		amount int64
		from   string
		want   int64
	}

	tests := []testCase{
		{name: "BaseIsIdentity", amount: 12345, from: "EUR", want: 12345},
		{name: "USD", amount: 10000, from: "USD", want: 9300},
		{name: "GBP", amount: 10000, from: "GBP", want: 11700},
		{name: "RoundsHalfAwayFromZero", amount: 50, from: "USD", want: 47}, // 46.5 -> 47
		{name: "NegativeAmount", amount: -10000, from: "USD", want: -9300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.Convert(tt.amount, tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConverter_Convert_UnknownCurrency(t *testing.T) {
	conv, err := currency.NewConverter("EUR", nil)
	require.NoError(t, err)

	_, err = conv.Convert(1000, "JPY")
	assert.ErrorIs(t, err, currency.ErrUnknownCurrency)
}
