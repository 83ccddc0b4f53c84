// Package lineitem models the rows of a sales order's item grid and the
// engine that edits them: single-row edit mode, multi-row selection,
// confirmed deletes and the derived amount and totals.
package lineitem

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DefaultSecondaryUnit is the secondary unit assigned to new rows.
const DefaultSecondaryUnit = "Kg."

// Tolerance marks whether a line accepts weight tolerance.
type Tolerance string

const (
	ToleranceYes Tolerance = "Y"
	ToleranceNo  Tolerance = "N"
)

// LineItem is one row of the item grid. Amount is derived and never stored.
type LineItem struct {
	ID                  string    `json:"id"`
	ItemCode            string    `json:"itemCode"`
	ItemName            string    `json:"itemName"`
	Description         string    `json:"description"`
	BurstFactor         string    `json:"bf"`
	Width               float64   `json:"width"`
	Length              float64   `json:"length"`
	Unit                string    `json:"unit"`
	Grain               string    `json:"grain"`
	GSM                 string    `json:"gsm"`
	ReelPerPack         float64   `json:"reelPerPack"`
	WeightSecondaryUnit float64   `json:"weightSecUnit"`
	SecondaryUnit       string    `json:"secUnit"`
	WeightSKU           float64   `json:"weightSku"`
	Tolerance           Tolerance `json:"tolerance"`
	SKU                 string    `json:"sku"`
	Rate                float64   `json:"rate"`
	Overhead            float64   `json:"overhead"`
	Adjustment          float64   `json:"adjustment"`
}

// Option overrides a default when creating a line.
type Option func(*LineItem)

// With sets field to value using the same coercion as a user edit.
func With(field Field, value string) Option {
	return func(li *LineItem) { li.set(field, value) }
}

// WithItem sets the item code and name.
func WithItem(code, name string) Option {
	return func(li *LineItem) {
		li.ItemCode = code
		li.ItemName = name
	}
}

// New returns a line with a fresh id and default values, then applies opts.
func New(opts ...Option) LineItem {
	li := LineItem{
		ID:            uuid.NewString(),
		SecondaryUnit: DefaultSecondaryUnit,
		Tolerance:     ToleranceYes,
	}
	for _, opt := range opts {
		opt(&li)
	}
	return li
}

// SeedLines returns the two sample rows an order starts with when it is not
// started empty.
func SeedLines() []LineItem {
	return []LineItem{
		New(
			WithItem("KP-001", "Kraft Paper"),
			With(FieldBurstFactor, "14"),
			With(FieldWidth, "120"),
			With(FieldLength, "150"),
			With(FieldUnit, "CM"),
			With(FieldGrain, "Long"),
			With(FieldGSM, "80"),
			With(FieldReelPerPack, "6"),
			With(FieldWeightSKU, "3450"),
			With(FieldRate, "25"),
		),
		New(
			WithItem("KP-002", "Kraft Paper B"),
			With(FieldBurstFactor, "16"),
			With(FieldWidth, "100"),
			With(FieldLength, "120"),
			With(FieldUnit, "CM"),
			With(FieldGrain, "Short"),
			With(FieldGSM, "90"),
			With(FieldReelPerPack, "3"),
			With(FieldWeightSKU, "1700"),
			With(FieldRate, "25"),
		),
	}
}

// Value returns the stored value of field as text.
func (li LineItem) Value(field Field) string {
	if p := li.numberPtr(field); p != nil {
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	if p := li.textPtr(field); p != nil {
		return *p
	}
	if field == FieldTolerance {
		return string(li.Tolerance)
	}
	return ""
}

// set writes value into field. Numeric fields coerce unparsable input to 0.
// Tolerance accepts Y or N in any case and ignores anything else.
func (li *LineItem) set(field Field, value string) {
	if p := li.numberPtr(field); p != nil {
		*p = ParseNumber(value)
		return
	}
	if p := li.textPtr(field); p != nil {
		*p = value
		return
	}
	if field == FieldTolerance {
		switch Tolerance(strings.ToUpper(strings.TrimSpace(value))) {
		case ToleranceYes:
			li.Tolerance = ToleranceYes
		case ToleranceNo:
			li.Tolerance = ToleranceNo
		}
	}
}

func (li *LineItem) numberPtr(field Field) *float64 {
	switch field {
	case FieldWidth:
		return &li.Width
	case FieldLength:
		return &li.Length
	case FieldReelPerPack:
		return &li.ReelPerPack
	case FieldWeightSecondaryUnit:
		return &li.WeightSecondaryUnit
	case FieldWeightSKU:
		return &li.WeightSKU
	case FieldRate:
		return &li.Rate
	case FieldOverhead:
		return &li.Overhead
	case FieldAdjustment:
		return &li.Adjustment
	}
	return nil
}

func (li *LineItem) textPtr(field Field) *string {
	switch field {
	case FieldItemCode:
		return &li.ItemCode
	case FieldItemName:
		return &li.ItemName
	case FieldDescription:
		return &li.Description
	case FieldBurstFactor:
		return &li.BurstFactor
	case FieldUnit:
		return &li.Unit
	case FieldGrain:
		return &li.Grain
	case FieldGSM:
		return &li.GSM
	case FieldSecondaryUnit:
		return &li.SecondaryUnit
	case FieldSKU:
		return &li.SKU
	}
	return nil
}

// ParseNumber parses user input as a number. Anything unparsable, including
// NaN and infinities, is 0.
func ParseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
