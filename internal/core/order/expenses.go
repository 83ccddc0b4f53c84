package order

import "github.com/shopspring/decimal"

const (
	HeadGross    = "Gross Amount"
	HeadBill     = "Bill Amount"
	HeadRoundOff = "Round Off"
	HeadNet      = "Net Amount"
)

// Expenses are the editable inputs of the expenses table. Every amount is
// derived from them and the line items.
type Expenses struct {
	// BillPercent is added on top of the gross amount, e.g. taxes.
	BillPercent float64 `json:"billPercent"`
	// RoundOff rounds the bill amount to the nearest whole unit.
	RoundOff bool `json:"roundOff"`
}

// Expense is one computed row of the expenses table.
type Expense struct {
	Head   string
	Per    decimal.Decimal
	Amount decimal.Decimal
}

// FormatPer renders a percentage with three decimals.
func (e Expense) FormatPer() string { return e.Per.StringFixed(3) }

// FormatAmount renders the amount with two decimals.
func (e Expense) FormatAmount() string { return e.Amount.StringFixed(2) }

// Compute derives the expense rows for a gross line amount.
func (x Expenses) Compute(gross decimal.Decimal) []Expense {
	per := decimal.NewFromFloat(x.BillPercent)
	bill := gross.Add(gross.Mul(per).Div(decimal.NewFromInt(100))).Round(2)

	roundOff := decimal.Zero
	if x.RoundOff {
		roundOff = bill.Round(0).Sub(bill)
	}

	return []Expense{
		{Head: HeadGross, Per: decimal.Zero, Amount: gross},
		{Head: HeadBill, Per: per, Amount: bill},
		{Head: HeadRoundOff, Per: decimal.Zero, Amount: roundOff},
		{Head: HeadNet, Per: decimal.Zero, Amount: bill.Add(roundOff)},
	}
}

// Net returns the net amount for a gross line amount.
func (x Expenses) Net(gross decimal.Decimal) decimal.Decimal {
	rows := x.Compute(gross)
	return rows[len(rows)-1].Amount
}
