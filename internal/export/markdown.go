package export

import (
	_ "embed"

	"github.com/colonyops/rollbook/internal/core/lineitem"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/pkg/tmpl"
)

//go:embed order.md.tmpl
var orderTemplate string

type mdField struct {
	Label string
	Value string
}

type mdLine struct {
	Item   string
	BF     string
	Size   string
	Grain  string
	GSM    string
	Qty    string
	Weight string
	Rate   string
	Amount string
}

type mdData struct {
	OrderNo  string
	Status   string
	Fields   []mdField
	Lines    []mdLine
	Totals   mdLine
	Terms    []mdField
	Expenses []order.Expense
}

// Markdown renders a summary of o: the filled header fields, a lines table
// with totals, the terms and the expenses.
func Markdown(o order.Order, set lookup.Set) (string, error) {
	data := mdData{
		OrderNo:  o.Header.OrderNo,
		Status:   string(o.Status),
		Expenses: o.Expenses.Compute(o.Gross()),
	}

	for _, spec := range order.HeaderFields() {
		if v := HeaderValue(o.Header, spec, set); v != "" {
			data.Fields = append(data.Fields, mdField{Label: spec.Label, Value: v})
		}
	}

	for _, li := range o.Lines {
		data.Lines = append(data.Lines, mdLine{
			Item:   lineitem.DisplayValue(li, lineitem.FieldItemName, set),
			BF:     lineitem.DisplayValue(li, lineitem.FieldBurstFactor, set),
			Size:   size(li, set),
			Grain:  lineitem.DisplayValue(li, lineitem.FieldGrain, set),
			GSM:    lineitem.DisplayValue(li, lineitem.FieldGSM, set),
			Qty:    lineitem.FormatNumber(li.ReelPerPack, true),
			Weight: lineitem.FormatNumber(li.WeightSKU, true),
			Rate:   lineitem.FormatNumber(li.Rate, true),
			Amount: lineitem.FormatAmount(lineitem.Amount(li)),
		})
	}

	totals := o.Totals()
	data.Totals = mdLine{
		Qty:    totals.Quantity.StringFixed(2),
		Weight: totals.Weight.StringFixed(2),
		Amount: lineitem.FormatAmount(totals.Amount),
	}

	for _, t := range o.Terms {
		data.Terms = append(data.Terms, mdField{Label: t.Label, Value: t.Value})
	}

	return tmpl.Render(orderTemplate, data)
}

func size(li lineitem.LineItem, set lookup.Set) string {
	s := lineitem.FormatNumber(li.Width, true) + " x " + lineitem.FormatNumber(li.Length, true)
	if unit := lineitem.DisplayValue(li, lineitem.FieldUnit, set); unit != lineitem.Placeholder {
		s += " " + unit
	}
	return s
}
