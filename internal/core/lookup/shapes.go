package lookup

type kind int

const (
	kindString kind = iota
	kindNumber
)

type fieldSpec struct {
	key      string
	kind     kind
	nullable bool
}

func str(key string) fieldSpec     { return fieldSpec{key: key, kind: kindString} }
func nullStr(key string) fieldSpec { return fieldSpec{key: key, kind: kindString, nullable: true} }
func number(key string) fieldSpec  { return fieldSpec{key: key, kind: kindNumber} }

// shape is one known upstream record layout. A raw object satisfies a shape
// when every field is present with the declared JSON kind; nullable fields
// must be present but may be null.
type shape struct {
	name    string
	codeKey string
	fields  []fieldSpec
	headers []string
	values  []string
}

func (s shape) validate(obj map[string]any) bool {
	for _, f := range s.fields {
		v, ok := obj[f.key]
		if !ok {
			return false
		}
		if v == nil {
			if f.nullable {
				continue
			}
			return false
		}
		switch f.kind {
		case kindString:
			if _, ok := v.(string); !ok {
				return false
			}
		case kindNumber:
			if !isNumber(v) {
				return false
			}
		}
	}
	return true
}

func (s shape) build(obj map[string]any) Record {
	rec := Record{
		Code:        stringify(obj[s.codeKey]),
		Description: stringify(obj["Description"]),
	}
	if len(s.headers) == 0 {
		return rec
	}

	rec.ColumnHeaders = append([]string(nil), s.headers...)
	rec.Additional = make([]string, len(s.values))
	for i, key := range s.values {
		rec.Additional[i] = stringify(obj[key])
	}
	return rec
}

// shapes are tried in order; the first one that validates wins. Generic is
// last because every other layout is a superset of it.
var shapes = []shape{
	{
		name:    "voucher-type",
		codeKey: "V_Type",
		fields:  []fieldSpec{str("V_Type"), str("Description")},
	},
	{
		name:    "customer",
		codeKey: "SubCode",
		fields: []fieldSpec{
			str("SubCode"), str("Description"), str("ManualCode"), str("Address"),
			str("CityName"), str("DName"), str("DISCity"), str("Zone"), str("DZone"),
			str("CityCode"),
		},
		headers: []string{"Manual Code", "Address", "City"},
		values:  []string{"ManualCode", "Address", "CityName"},
	},
	{
		name:    "city",
		codeKey: "Code",
		fields:  []fieldSpec{str("Code"), str("Description"), str("State")},
		headers: []string{"State"},
		values:  []string{"State"},
	},
	{
		name:    "item",
		codeKey: "Code",
		fields: []fieldSpec{
			str("Code"), str("Description"), str("ManualCode"), str("SKU"),
			str("SecondryUnit"), number("ConversionRate"), nullStr("Varity"),
			nullStr("GSM"), nullStr("GSMCode"), str("SizeLength"), str("SizeWidth"),
			str("ItemID"), nullStr("BFCode"), nullStr("BFName"), str("Grain"),
		},
		headers: []string{"Manual Code", "SKU", "Varity", "GSM", "Length", "Width"},
		values:  []string{"ManualCode", "SKU", "Varity", "GSM", "SizeLength", "SizeWidth"},
	},
	{
		name:    "site",
		codeKey: "Code",
		fields: []fieldSpec{
			str("Code"), str("Description"), str("Code1"), str("Name"), str("SiteDesc"),
			str("Address1"), str("Address2"), str("City"), str("State_Code"),
			str("State_Name"),
		},
		headers: []string{"Address 1", "Address 2", "City", "State"},
		values:  []string{"Address1", "Address2", "City", "State_Name"},
	},
	{
		name:    "generic",
		codeKey: "Code",
		fields:  []fieldSpec{str("Code"), str("Description")},
	},
}

func matchShape(obj map[string]any) (shape, bool) {
	for _, s := range shapes {
		if s.validate(obj) {
			return s, true
		}
	}
	return shape{}, false
}
