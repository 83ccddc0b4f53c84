package rollbook

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/order"
)

// ErrAmbiguous is returned when an order reference matches several orders.
var ErrAmbiguous = errors.New("order reference is ambiguous")

// OpenOptions controls how an order is opened for editing.
type OpenOptions struct {
	ReadOnly   bool
	StartEmpty bool
}

// OrderService resolves, opens and removes saved orders.
type OrderService struct {
	store    order.Store
	defaults config.EditorConfig
	now      func() time.Time
}

// NewOrderService creates an order service. defaults seed OpenOptions for
// the editor flags.
func NewOrderService(store order.Store, defaults config.EditorConfig) *OrderService {
	return &OrderService{store: store, defaults: defaults, now: time.Now}
}

// Defaults returns OpenOptions taken from configuration.
func (s *OrderService) Defaults() OpenOptions {
	return OpenOptions{ReadOnly: s.defaults.ReadOnly, StartEmpty: s.defaults.StartEmpty}
}

// List returns every saved order, most recently updated first.
func (s *OrderService) List(ctx context.Context) ([]order.Order, error) {
	return s.store.List(ctx)
}

// Resolve finds an order by exact id, unique id prefix or order number
// (case-insensitive).
func (s *OrderService) Resolve(ctx context.Context, ref string) (order.Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return order.Order{}, fmt.Errorf("empty order reference: %w", order.ErrNotFound)
	}

	o, err := s.store.Get(ctx, ref)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, order.ErrNotFound) {
		return order.Order{}, err
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return order.Order{}, err
	}

	var matches []order.Order
	for _, o := range all {
		if strings.HasPrefix(o.ID, ref) || strings.EqualFold(o.Header.OrderNo, ref) {
			matches = append(matches, o)
		}
	}

	switch len(matches) {
	case 0:
		return order.Order{}, fmt.Errorf("%q: %w", ref, order.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return order.Order{}, fmt.Errorf("%q matches %d orders: %w", ref, len(matches), ErrAmbiguous)
	}
}

// Open returns a draft for ref. An empty ref starts a new order.
func (s *OrderService) Open(ctx context.Context, ref string, opts OpenOptions) (*order.Draft, error) {
	if ref == "" {
		return order.NewDraft(order.New(s.now(), opts.StartEmpty), opts.ReadOnly, s.store), nil
	}

	o, err := s.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	return order.NewDraft(o, opts.ReadOnly, s.store), nil
}

// Delete removes the order ref resolves to and returns it.
func (s *OrderService) Delete(ctx context.Context, ref string) (order.Order, error) {
	o, err := s.Resolve(ctx, ref)
	if err != nil {
		return order.Order{}, err
	}
	if err := s.store.Delete(ctx, o.ID); err != nil {
		return order.Order{}, fmt.Errorf("delete order %s: %w", o.ID, err)
	}
	return o, nil
}

// SetStatus changes the lifecycle status of the order ref resolves to.
func (s *OrderService) SetStatus(ctx context.Context, ref string, status order.Status) (order.Order, error) {
	o, err := s.Resolve(ctx, ref)
	if err != nil {
		return order.Order{}, err
	}
	o.Status = status
	o.UpdatedAt = s.now()
	if err := s.store.Save(ctx, o); err != nil {
		return order.Order{}, fmt.Errorf("save order %s: %w", o.ID, err)
	}
	return o, nil
}
