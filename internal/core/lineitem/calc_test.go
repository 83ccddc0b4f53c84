package lineitem

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	li := LineItem{ItemCode: "KP-01", ItemName: "Kraft Paper", WeightSKU: 100, Rate: 20, Overhead: 5, Adjustment: -2}

	got := Amount(li)

	assert.True(t, got.Equal(decimal.NewFromInt(2003)), "got %s", got)
	assert.Equal(t, "2003.00", FormatAmount(got))
}

func TestAmount_RecomputedAfterEdit(t *testing.T) {
	e := NewEngine([]LineItem{New(With(FieldWeightSKU, "10"), With(FieldRate, "2"))}, false)
	assert.Equal(t, "20.00", FormatAmount(Amount(e.items[0])))

	e.UpdateField(0, FieldRate, "3.5")

	li, _ := e.Item(0)
	assert.Equal(t, "35.00", FormatAmount(Amount(li)))
}

func TestAmount_FractionalValues(t *testing.T) {
	li := LineItem{WeightSKU: 0.1, Rate: 0.2, Overhead: 0.3}

	assert.Equal(t, "0.32", FormatAmount(Amount(li)))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "120.00", FormatNumber(120, true))
	assert.Equal(t, "3", FormatNumber(3.4, false))
	assert.Equal(t, "0.00", FormatNumber(0, true))
}

func TestSum(t *testing.T) {
	totals := Sum(SeedLines())

	assert.Equal(t, "9.00", totals.Quantity.StringFixed(2))
	assert.Equal(t, "5150.00", totals.Weight.StringFixed(2))
	assert.Equal(t, "128750.00", totals.Amount.StringFixed(2))

	empty := Sum(nil)
	assert.True(t, empty.Weight.IsZero())
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12.5", 12.5},
		{"  7 ", 7},
		{"-3", -3},
		{"abc", 0},
		{"", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumber(tt.in), 0)
		})
	}
}
