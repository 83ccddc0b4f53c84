package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/data/db"
)

// OrderStore implements order.Store using SQLite. Each order is stored as a
// JSON document with a few columns lifted out for listing.
type OrderStore struct {
	db *db.DB
}

var _ order.Store = (*OrderStore)(nil)

// NewOrderStore creates a new SQLite-backed order store.
func NewOrderStore(db *db.DB) *OrderStore {
	return &OrderStore{db: db}
}

// Get returns an order by ID. Returns order.ErrNotFound if not found.
func (s *OrderStore) Get(ctx context.Context, id string) (order.Order, error) {
	row, err := s.db.Queries().GetOrder(ctx, id)
	if IsNotFoundError(err) {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	o, err := rowToOrder(row)
	if err != nil {
		return order.Order{}, fmt.Errorf("failed to convert order: %w", err)
	}

	return o, nil
}

// List returns all orders, most recently updated first.
func (s *OrderStore) List(ctx context.Context) ([]order.Order, error) {
	rows, err := s.db.Queries().ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]order.Order, 0, len(rows))
	for _, row := range rows {
		o, err := rowToOrder(row)
		if err != nil {
			return nil, fmt.Errorf("failed to convert order %s: %w", row.ID, err)
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// Save creates or updates an order. A save that meets a locked database is
// retried briefly before failing.
func (s *OrderStore) Save(ctx context.Context, o order.Order) error {
	if o.ID == "" {
		return fmt.Errorf("failed to save order: missing id")
	}

	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = now
	}
	if o.Status == "" {
		o.Status = order.StatusActive
	}

	doc, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	params := db.SaveOrderParams{
		ID:        o.ID,
		OrderNo:   o.Header.OrderNo,
		Party:     o.Header.Party,
		Status:    string(o.Status),
		Document:  doc,
		CreatedAt: o.CreatedAt.UnixNano(),
		UpdatedAt: o.UpdatedAt.UnixNano(),
	}
	err = withBusyRetry(ctx, func() error {
		return s.db.Queries().SaveOrder(ctx, params)
	})
	if err != nil {
		return fmt.Errorf("failed to save order: %w", err)
	}

	return nil
}

// Delete removes an order by ID. Returns order.ErrNotFound if not found.
func (s *OrderStore) Delete(ctx context.Context, id string) error {
	n, err := s.db.Queries().DeleteOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if n == 0 {
		return order.ErrNotFound
	}
	return nil
}

// rowToOrder decodes the stored document. The status column wins over the
// document so status changes made outside the editor are honoured.
func rowToOrder(row db.Order) (order.Order, error) {
	var o order.Order
	if err := json.Unmarshal(row.Document, &o); err != nil {
		return order.Order{}, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	o.ID = row.ID
	if st, err := order.ParseStatus(row.Status); err == nil {
		o.Status = st
	}
	o.CreatedAt = time.Unix(0, row.CreatedAt)
	o.UpdatedAt = time.Unix(0, row.UpdatedAt)

	return o, nil
}
