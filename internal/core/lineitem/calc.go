package lineitem

import "github.com/shopspring/decimal"

// Amount is weightSku * rate + overhead + adjustment, computed from the
// current field values on every call.
func Amount(li LineItem) decimal.Decimal {
	return decimal.NewFromFloat(li.WeightSKU).
		Mul(decimal.NewFromFloat(li.Rate)).
		Add(decimal.NewFromFloat(li.Overhead)).
		Add(decimal.NewFromFloat(li.Adjustment))
}

// FormatAmount renders a money value with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatNumber renders v with two decimals, or none when decimals is false.
func FormatNumber(v float64, decimals bool) string {
	places := int32(0)
	if decimals {
		places = 2
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Totals are the grid footer sums over every row of the collection.
type Totals struct {
	Quantity decimal.Decimal
	Weight   decimal.Decimal
	Amount   decimal.Decimal
}

// Sum computes the totals of items: quantity is the sum of reels per pack,
// weight the sum of SKU weights.
func Sum(items []LineItem) Totals {
	t := Totals{
		Quantity: decimal.Zero,
		Weight:   decimal.Zero,
		Amount:   decimal.Zero,
	}
	for _, li := range items {
		t.Quantity = t.Quantity.Add(decimal.NewFromFloat(li.ReelPerPack))
		t.Weight = t.Weight.Add(decimal.NewFromFloat(li.WeightSKU))
		t.Amount = t.Amount.Add(Amount(li))
	}
	return t
}
