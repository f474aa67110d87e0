package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDiscount(t *testing.T) {
	subtotal := decimal.NewFromInt(1000)

	tests := []struct {
		name  string
		prefs Preferences
		want  string
	}{
		{"no flags", Preferences{}, "0"},
		{"one flag", Preferences{FromSousa: true}, "250"},
		{"two flags", Preferences{FlamengoFan: true, OnePieceWatcher: true}, "500"},
		{"all flags", Preferences{FlamengoFan: true, OnePieceWatcher: true, FromSousa: true}, "750"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Discount(subtotal, tt.prefs)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestDiscount_RoundsToCents(t *testing.T) {
	got := Discount(decimal.RequireFromString("10.01"), Preferences{FlamengoFan: true})
	assert.Equal(t, "2.5", got.String())
}

func TestSameAmount(t *testing.T) {
	a := decimal.RequireFromString("100.00")
	assert.True(t, SameAmount(a, decimal.RequireFromString("100.01")))
	assert.True(t, SameAmount(a, decimal.RequireFromString("99.99")))
	assert.False(t, SameAmount(a, decimal.RequireFromString("100.02")))
}

func TestStockSettingsValidate(t *testing.T) {
	assert.NoError(t, StockSettings{Mode: StockModeApplication, Policy: StockPolicyReject}.Validate())
	assert.NoError(t, StockSettings{Mode: StockModeTrigger, Policy: StockPolicyAllow}.Validate())
	assert.Error(t, StockSettings{Mode: StockModeTrigger, Policy: StockPolicyClamp}.Validate())
	assert.Error(t, StockSettings{Mode: "cron", Policy: StockPolicyAllow}.Validate())
	assert.Error(t, StockSettings{Mode: StockModeApplication, Policy: "never"}.Validate())
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "Março 2025", MonthLabel(2025, 3))
	assert.Equal(t, "Dezembro 2024", MonthLabel(2024, 12))
	assert.Equal(t, "13/2024", MonthLabel(2024, 13))
}
