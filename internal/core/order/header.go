package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/hay-kot/criterio"
)

// DateLayout is the date format used throughout an order header.
const DateLayout = "2006/01/02"

// Header holds the order-level fields. Lookup-backed fields store the
// record code.
type Header struct {
	VoucherType  string `json:"voucherType"`
	SaleVType    string `json:"saleVType"`
	OrderNo      string `json:"orderNo"`
	OrderDate    string `json:"orderDate"`
	Party        string `json:"party"`
	Distributor  string `json:"distributor"`
	PartyOrderNo string `json:"partyOrderNo"`
	AgainstForm  string `json:"againstForm"`
	DeliveryTo   string `json:"deliveryTo"`
	DeliveryDate string `json:"deliveryDate"`
	OrderType    string `json:"orderType"`
	Consignee    string `json:"consignee"`
	ToPlace      string `json:"toPlace"`
	PartyDate    string `json:"partyDate"`
	Excisable    string `json:"excisable"`
}

// HeaderField names one header input.
type HeaderField string

const (
	HeaderVoucherType  HeaderField = "voucherType"
	HeaderSaleVType    HeaderField = "saleVType"
	HeaderOrderNo      HeaderField = "orderNo"
	HeaderOrderDate    HeaderField = "orderDate"
	HeaderParty        HeaderField = "party"
	HeaderDistributor  HeaderField = "distributor"
	HeaderPartyOrderNo HeaderField = "partyOrderNo"
	HeaderAgainstForm  HeaderField = "againstForm"
	HeaderDeliveryTo   HeaderField = "deliveryTo"
	HeaderDeliveryDate HeaderField = "deliveryDate"
	HeaderOrderType    HeaderField = "orderType"
	HeaderConsignee    HeaderField = "consignee"
	HeaderToPlace      HeaderField = "toPlace"
	HeaderPartyDate    HeaderField = "partyDate"
	HeaderExcisable    HeaderField = "excisable"
)

// HeaderFieldSpec describes how a header field is edited and labelled.
type HeaderFieldSpec struct {
	Field    HeaderField
	Label    string
	Category lookup.Category
	Date     bool
	Required bool
}

// Lookup reports whether the field is picked from a lookup category.
func (s HeaderFieldSpec) Lookup() bool { return s.Category != "" }

// HeaderFields lists the header inputs in form order.
func HeaderFields() []HeaderFieldSpec {
	return []HeaderFieldSpec{
		{Field: HeaderVoucherType, Label: "Voucher Type", Category: lookup.CategoryVoucherType, Required: true},
		{Field: HeaderSaleVType, Label: "Sale V. Type", Category: lookup.CategorySaleVType},
		{Field: HeaderOrderNo, Label: "Order No", Required: true},
		{Field: HeaderOrderDate, Label: "Order Date", Date: true, Required: true},
		{Field: HeaderParty, Label: "Party", Category: lookup.CategoryCustomer, Required: true},
		{Field: HeaderDistributor, Label: "Distributor"},
		{Field: HeaderPartyOrderNo, Label: "Party Order No"},
		{Field: HeaderAgainstForm, Label: "Against Form"},
		{Field: HeaderDeliveryTo, Label: "Delivery To"},
		{Field: HeaderDeliveryDate, Label: "Delivery Date", Date: true},
		{Field: HeaderOrderType, Label: "Order Type", Category: lookup.CategoryOrderType},
		{Field: HeaderConsignee, Label: "Consignee", Category: lookup.CategoryCustomer},
		{Field: HeaderToPlace, Label: "To Place", Category: lookup.CategoryCity},
		{Field: HeaderPartyDate, Label: "Party Date", Date: true},
		{Field: HeaderExcisable, Label: "Excisable"},
	}
}

// SpecFor returns the spec of field.
func SpecFor(field HeaderField) (HeaderFieldSpec, bool) {
	for _, s := range HeaderFields() {
		if s.Field == field {
			return s, true
		}
	}
	return HeaderFieldSpec{}, false
}

func (h *Header) ptr(field HeaderField) *string {
	switch field {
	case HeaderVoucherType:
		return &h.VoucherType
	case HeaderSaleVType:
		return &h.SaleVType
	case HeaderOrderNo:
		return &h.OrderNo
	case HeaderOrderDate:
		return &h.OrderDate
	case HeaderParty:
		return &h.Party
	case HeaderDistributor:
		return &h.Distributor
	case HeaderPartyOrderNo:
		return &h.PartyOrderNo
	case HeaderAgainstForm:
		return &h.AgainstForm
	case HeaderDeliveryTo:
		return &h.DeliveryTo
	case HeaderDeliveryDate:
		return &h.DeliveryDate
	case HeaderOrderType:
		return &h.OrderType
	case HeaderConsignee:
		return &h.Consignee
	case HeaderToPlace:
		return &h.ToPlace
	case HeaderPartyDate:
		return &h.PartyDate
	case HeaderExcisable:
		return &h.Excisable
	}
	return nil
}

// Get returns the value of field.
func (h Header) Get(field HeaderField) string {
	if p := h.ptr(field); p != nil {
		return *p
	}
	return ""
}

// With returns a copy of h with field set to value.
func (h Header) With(field HeaderField, value string) Header {
	if p := h.ptr(field); p != nil {
		*p = value
	}
	return h
}

// Validate checks required fields and date formats. Errors are
// criterio.FieldErrors keyed by the field's JSON name.
func (h Header) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run(string(HeaderVoucherType), h.VoucherType, required),
		criterio.Run(string(HeaderOrderNo), h.OrderNo, required),
		criterio.Run(string(HeaderOrderDate), h.OrderDate, requiredDate),
		criterio.Run(string(HeaderParty), h.Party, required),
		criterio.Run(string(HeaderDeliveryDate), h.DeliveryDate, optionalDate),
		criterio.Run(string(HeaderPartyDate), h.PartyDate, optionalDate),
		h.validateDeliveryAfterOrder(),
	)
}

func (h Header) validateDeliveryAfterOrder() error {
	ordered, err1 := time.Parse(DateLayout, strings.TrimSpace(h.OrderDate))
	delivery, err2 := time.Parse(DateLayout, strings.TrimSpace(h.DeliveryDate))
	if err1 != nil || err2 != nil {
		return nil
	}
	if delivery.Before(ordered) {
		return criterio.NewFieldErrors(string(HeaderDeliveryDate), errors.New("must not be before the order date"))
	}
	return nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("is required")
	}
	return nil
}

func requiredDate(s string) error {
	if err := required(s); err != nil {
		return err
	}
	return optionalDate(s)
}

func optionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("must be a date like %s", DateLayout)
	}
	return nil
}

// ValidationMessages flattens a validation error into readable lines, one
// per failing field, using the field labels.
func ValidationMessages(err error) []string {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		label := fe.Field
		if spec, ok := SpecFor(HeaderField(fe.Field)); ok {
			label = spec.Label
		}
		msgs = append(msgs, fmt.Sprintf("%s %s", label, fe.Err.Error()))
	}
	return msgs
}
