package doctor

import (
	"context"
	"fmt"

	"github.com/colonyops/rollbook/internal/core/order"
)

// OrdersCheck loads every saved order and flags those whose header no
// longer validates, which would block their next save.
type OrdersCheck struct {
	store order.Store
}

// NewOrdersCheck creates a new saved orders check.
func NewOrdersCheck(store order.Store) *OrdersCheck {
	return &OrdersCheck{store: store}
}

func (c *OrdersCheck) Name() string {
	return "Saved Orders"
}

func (c *OrdersCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	orders, err := c.store.List(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "orders",
			Status: StatusFail,
			Detail: fmt.Sprintf("list orders: %v", err),
		})
		return result
	}

	invalid := 0
	for _, o := range orders {
		if err := o.Header.Validate(); err != nil {
			invalid++
			result.Items = append(result.Items, CheckItem{
				Label:  o.ID,
				Status: StatusWarn,
				Detail: fmt.Sprintf("header invalid: %v", err),
			})
		}
	}

	result.Items = append(result.Items, CheckItem{
		Label:  "orders",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d saved, %d invalid", len(orders), invalid),
	})

	return result
}
