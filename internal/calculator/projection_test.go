package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProject(t *testing.T) {
	tests := []struct {
		name                         string
		reference, historical, stake string
		want                         string
	}{
		{"profit", "1000", "100", "100", "1000"},
		{"loss", "100", "1000", "100", "10"},
		{"tie", "100", "100", "100", "100"},
		{"fractional stake", "30000", "12500", "12.5", "30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(d(tt.reference), d(tt.historical), d(tt.stake))
			assert.True(t, got.Equal(d(tt.want)), "Project = %s, want %s", got, tt.want)
		})
	}
}

func TestProject_RealPrices(t *testing.T) {
	// 2013-08-06 draw against the 2022-08-01 price.
	got := Project(d("22794"), d("72.8867"), d("100"))
	want := d("31273.195246869454")
	assert.True(t, got.Sub(want).Abs().LessThan(d("0.000001")), "Project = %s, want ~%s", got, want)
}

func TestProject_TieReturnsStake(t *testing.T) {
	for _, p := range []string{"0.01", "72.8867", "22794", "61234.5678"} {
		got := Project(d(p), d(p), d("100"))
		assert.True(t, got.Sub(d("100")).Abs().LessThan(d("0.0000000001")), "tie at %s gave %s", p, got)
	}
}

func TestProfitLossAndReturn(t *testing.T) {
	assert.True(t, ProfitLoss(d("1000"), d("100")).Equal(d("900")))
	assert.True(t, ProfitLoss(d("10"), d("100")).Equal(d("-90")))

	assert.True(t, ReturnPercent(d("1000"), d("100")).Equal(d("900")))
	assert.True(t, ReturnPercent(d("10"), d("100")).Equal(d("-90")))
	assert.True(t, ReturnPercent(d("10"), decimal.Zero).IsZero())
}
