package lineitem

import "github.com/colonyops/rollbook/internal/core/lookup"

// Field names an editable column of a LineItem. Values match the JSON keys.
type Field string

const (
	FieldItemCode            Field = "itemCode"
	FieldItemName            Field = "itemName"
	FieldDescription         Field = "description"
	FieldBurstFactor         Field = "bf"
	FieldWidth               Field = "width"
	FieldLength              Field = "length"
	FieldUnit                Field = "unit"
	FieldGrain               Field = "grain"
	FieldGSM                 Field = "gsm"
	FieldReelPerPack         Field = "reelPerPack"
	FieldWeightSecondaryUnit Field = "weightSecUnit"
	FieldSecondaryUnit       Field = "secUnit"
	FieldWeightSKU           Field = "weightSku"
	FieldTolerance           Field = "tolerance"
	FieldSKU                 Field = "sku"
	FieldRate                Field = "rate"
	FieldOverhead            Field = "overhead"
	FieldAdjustment          Field = "adjustment"
)

// Fields lists every editable field.
func Fields() []Field {
	return []Field{
		FieldItemCode, FieldItemName, FieldDescription, FieldBurstFactor,
		FieldWidth, FieldLength, FieldUnit, FieldGrain, FieldGSM,
		FieldReelPerPack, FieldWeightSecondaryUnit, FieldSecondaryUnit,
		FieldWeightSKU, FieldTolerance, FieldSKU, FieldRate, FieldOverhead,
		FieldAdjustment,
	}
}

// Numeric reports whether the field holds a number.
func (f Field) Numeric() bool {
	var li LineItem
	return li.numberPtr(f) != nil
}

// Decimal reports whether the field is displayed with two decimals. Every
// numeric field of a line is.
func (f Field) Decimal() bool {
	return f.Numeric()
}

// Lookup returns the lookup category backing the field, if any.
func (f Field) Lookup() (lookup.Category, bool) {
	switch f {
	case FieldItemName:
		return lookup.CategoryItem, true
	case FieldBurstFactor:
		return lookup.CategoryBF, true
	case FieldUnit:
		return lookup.CategorySizeUnit, true
	case FieldGrain:
		return lookup.CategoryGrain, true
	case FieldGSM:
		return lookup.CategoryGSM, true
	}
	return "", false
}

// Valid reports whether f names a known field.
func (f Field) Valid() bool {
	for _, known := range Fields() {
		if f == known {
			return true
		}
	}
	return false
}

// Update is one field write produced by a lookup selection.
type Update struct {
	Field Field
	Value string
}

// SelectionUpdates returns the writes a lookup selection on field performs.
// Picking an item writes both its name and code; the other lookups store
// the record's code.
func SelectionUpdates(field Field, rec lookup.Record) []Update {
	if field == FieldItemName {
		return []Update{
			{Field: FieldItemName, Value: rec.Description},
			{Field: FieldItemCode, Value: rec.Code},
		}
	}
	return []Update{{Field: field, Value: rec.Code}}
}

// LookupCode returns the code used to resolve field against its lookup.
// Item rows resolve by item code; the others store the code directly.
func LookupCode(li LineItem, field Field) string {
	if field == FieldItemName {
		return li.ItemCode
	}
	return li.Value(field)
}

// Resolve finds the lookup record selected by field, falling back to a
// record synthesised from the stored values so a picker can still highlight
// it.
func Resolve(li LineItem, field Field, set lookup.Set) (lookup.Record, bool) {
	cat, ok := field.Lookup()
	if !ok {
		return lookup.Record{}, false
	}

	code := LookupCode(li, field)
	if rec, found := set.Find(cat, code); found {
		return rec, true
	}

	desc := li.Value(field)
	if code == "" && desc == "" {
		return lookup.Record{}, false
	}
	if code == "" {
		code = desc
	}
	if desc == "" || field != FieldItemName {
		desc = code
	}
	return lookup.Record{Code: code, Description: desc}, true
}
