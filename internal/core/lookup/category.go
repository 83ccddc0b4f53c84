package lookup

import "strings"

// Category identifies a class of reference data on the lookup service.
type Category string

const (
	CategoryVoucherType Category = "SORD_FHP_TYPE"
	CategorySaleVType   Category = "SORD_FHP_Sale_VType"
	CategoryCustomer    Category = "SORD_CUSTOMER"
	CategoryCity        Category = "SORD_FHP_City"
	CategoryOrderType   Category = "SORD_FHP_OrderType"
	CategoryItem        Category = "SORD_FHPGD_Item"
	CategoryBF          Category = "SORD_FHPGD_BF"
	CategorySizeUnit    Category = "SORD_FHPGD_SizeUnit"
	CategoryGrain       Category = "SORD_FHPGD_Grain"
	CategoryGSM         Category = "SORD_FHPGD_GSM"
)

// SaleOrderCategories lists every category a sales order needs, in display
// order.
func SaleOrderCategories() []Category {
	return []Category{
		CategoryVoucherType,
		CategorySaleVType,
		CategoryCustomer,
		CategoryCity,
		CategoryOrderType,
		CategoryItem,
		CategoryBF,
		CategorySizeUnit,
		CategoryGrain,
		CategoryGSM,
	}
}

// ParseCategory resolves s against the known categories, ignoring case. The
// plural noun ("customers", "burst factors") is accepted as well as the
// service code.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range SaleOrderCategories() {
		if strings.EqualFold(string(c), s) || strings.EqualFold(c.Noun(), s) {
			return c, true
		}
	}
	return "", false
}

// Noun is the plural noun used for the category in messages.
func (c Category) Noun() string {
	switch c {
	case CategoryVoucherType:
		return "voucher types"
	case CategorySaleVType:
		return "sale v. types"
	case CategoryCustomer:
		return "customers"
	case CategoryCity:
		return "cities"
	case CategoryOrderType:
		return "order types"
	case CategoryItem:
		return "items"
	case CategoryBF:
		return "burst factors"
	case CategorySizeUnit:
		return "size units"
	case CategoryGrain:
		return "grains"
	case CategoryGSM:
		return "GSM values"
	}
	return string(c)
}

func (c Category) String() string { return string(c) }
