package lineitem

import (
	"strconv"

	"github.com/colonyops/rollbook/internal/core/lookup"
)

// ColumnKind decides how a grid column renders and edits.
type ColumnKind int

const (
	KindSerial ColumnKind = iota
	KindText
	KindNumber
	KindLookup
	KindAmount
)

// Column describes one column of the item grid.
type Column struct {
	Label string
	Field Field
	Kind  ColumnKind
	Width int
}

// Editable reports whether a cell of the column accepts input.
func (c Column) Editable() bool {
	return c.Kind == KindText || c.Kind == KindNumber || c.Kind == KindLookup
}

// Columns returns the grid columns in display order.
func Columns() []Column {
	return []Column{
		{Label: "S. No.", Kind: KindSerial, Width: 6},
		{Label: "Item Name", Field: FieldItemName, Kind: KindLookup, Width: 18},
		{Label: "BF", Field: FieldBurstFactor, Kind: KindLookup, Width: 6},
		{Label: "Width", Field: FieldWidth, Kind: KindNumber, Width: 8},
		{Label: "Length", Field: FieldLength, Kind: KindNumber, Width: 8},
		{Label: "Unit", Field: FieldUnit, Kind: KindLookup, Width: 6},
		{Label: "Grain", Field: FieldGrain, Kind: KindLookup, Width: 7},
		{Label: "GSM", Field: FieldGSM, Kind: KindLookup, Width: 6},
		{Label: "Qty", Field: FieldReelPerPack, Kind: KindNumber, Width: 8},
		{Label: "Weight", Field: FieldWeightSKU, Kind: KindNumber, Width: 10},
		{Label: "SKU", Field: FieldSKU, Kind: KindText, Width: 8},
		{Label: "Rate", Field: FieldRate, Kind: KindNumber, Width: 8},
		{Label: "Amount", Kind: KindAmount, Width: 12},
		{Label: "OH", Field: FieldOverhead, Kind: KindNumber, Width: 8},
		{Label: "Adj", Field: FieldAdjustment, Kind: KindNumber, Width: 8},
	}
}

// Placeholder is shown for empty text and lookup cells.
const Placeholder = "-"

// DisplayValue renders field of li for a row that is not being edited.
// Lookup cells show the matching record's description, else the stored
// value, else a dash.
func DisplayValue(li LineItem, field Field, set lookup.Set) string {
	if field.Numeric() {
		return FormatNumber(ParseNumber(li.Value(field)), field.Decimal())
	}

	raw := li.Value(field)
	if cat, ok := field.Lookup(); ok {
		if rec, found := set.Find(cat, LookupCode(li, field)); found && rec.Description != "" {
			return rec.Description
		}
	}
	if raw != "" {
		return raw
	}
	return Placeholder
}

// Render renders the cell of column c for li at row index row.
func (c Column) Render(li LineItem, row int, set lookup.Set) string {
	switch c.Kind {
	case KindSerial:
		return strconv.Itoa(row + 1)
	case KindAmount:
		return FormatAmount(Amount(li))
	default:
		return DisplayValue(li, c.Field, set)
	}
}
