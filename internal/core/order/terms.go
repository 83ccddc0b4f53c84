package order

// Term is one labelled terms-and-conditions entry.
type Term struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Terms are the order's terms and conditions in display order.
type Terms []Term

// DefaultTerms returns the standard terms a new order starts with.
func DefaultTerms() Terms {
	return Terms{
		{Label: "Duty & Taxes", Value: "ED+VAT+INS"},
		{Label: "Freight", Value: "To Pay"},
		{Label: "Remark", Value: ""},
		{Label: "Delivery", Value: ""},
	}
}

// With returns a copy with the term at index i set to value.
func (t Terms) With(i int, value string) Terms {
	out := make(Terms, len(t))
	copy(out, t)
	if i >= 0 && i < len(out) {
		out[i].Value = value
	}
	return out
}

// Get returns the value of the term labelled label.
func (t Terms) Get(label string) string {
	for _, term := range t {
		if term.Label == label {
			return term.Value
		}
	}
	return ""
}
