// Package order is the sales-order aggregate: the header, the line items,
// the terms and the expenses, plus the draft that edits them through the
// editor coordinator.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/rollbook/internal/core/lineitem"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by a Store when no order has the requested id.
var ErrNotFound = errors.New("order not found")

// Status is the lifecycle state of an order.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusHold      Status = "HOLD"
	StatusClosed    Status = "CLOSED"
	StatusCancelled Status = "CANCELLED"
)

// Statuses lists every status.
func Statuses() []Status {
	return []Status{StatusActive, StatusHold, StatusClosed, StatusCancelled}
}

// ParseStatus parses s case-insensitively.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses() {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Editable reports whether orders in this status may be changed. Closed and
// cancelled orders open in view mode.
func (s Status) Editable() bool {
	return s == StatusActive || s == StatusHold || s == ""
}

// Order is a complete sales order.
type Order struct {
	ID        string              `json:"id"`
	Status    Status              `json:"status"`
	Header    Header              `json:"header"`
	Lines     []lineitem.LineItem `json:"lines"`
	Terms     Terms               `json:"terms"`
	Expenses  Expenses            `json:"expenses"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// New returns an active order dated now. Unless startEmpty is set it starts
// with the sample lines.
func New(now time.Time, startEmpty bool) Order {
	o := Order{
		ID:        uuid.NewString(),
		Status:    StatusActive,
		Header:    Header{OrderDate: now.Format(DateLayout), Excisable: "N"},
		Terms:     DefaultTerms(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !startEmpty {
		o.Lines = lineitem.SeedLines()
	}
	return o
}

// Totals returns the line footer sums.
func (o Order) Totals() lineitem.Totals {
	return lineitem.Sum(o.Lines)
}

// Gross is the sum of the line amounts.
func (o Order) Gross() decimal.Decimal {
	return o.Totals().Amount
}

// Net is the net amount after expenses.
func (o Order) Net() decimal.Decimal {
	return o.Expenses.Net(o.Gross())
}

// Store persists orders.
type Store interface {
	Get(ctx context.Context, id string) (Order, error)
	List(ctx context.Context) ([]Order, error)
	Save(ctx context.Context, o Order) error
	Delete(ctx context.Context, id string) error
}

func lineitemGross(lines []lineitem.LineItem) decimal.Decimal {
	return lineitem.Sum(lines).Amount
}
