package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/pkg/tuitest"
)

var errLookupDown = errors.New("lookup service unavailable")

type fakeProvider struct {
	records map[lookup.Category][]lookup.Record
	fail    map[lookup.Category]bool
}

func (p fakeProvider) Fetch(_ context.Context, c lookup.Category) ([]lookup.Record, error) {
	if p.fail[c] {
		return nil, errLookupDown
	}
	return p.records[c], nil
}

func testProvider() fakeProvider {
	return fakeProvider{
		records: map[lookup.Category][]lookup.Record{
			lookup.CategoryVoucherType: {{Code: "SO", Description: "Sales Order"}},
			lookup.CategoryCustomer: {
				{Code: "C001", Description: "Acme Packaging", ColumnHeaders: []string{"City"}, Additional: []string{"Pune"}},
				{Code: "C002", Description: "Bharat Boards", ColumnHeaders: []string{"City"}, Additional: []string{"Nagpur"}},
			},
			lookup.CategoryItem: {
				{Code: "KP-002", Description: "Kraft Paper 150"},
				{Code: "KP-001", Description: "Kraft Paper 120"},
			},
			lookup.CategoryBF: {{Code: "16", Description: "16"}, {Code: "18", Description: "18"}},
		},
		fail: map[lookup.Category]bool{},
	}
}

type memOrders struct {
	saved []order.Order
	err   error
}

func (s *memOrders) Get(context.Context, string) (order.Order, error) {
	return order.Order{}, order.ErrNotFound
}
func (s *memOrders) List(context.Context) ([]order.Order, error) { return s.saved, nil }
func (s *memOrders) Delete(context.Context, string) error        { return nil }
func (s *memOrders) Save(_ context.Context, o order.Order) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, o)
	return nil
}

func testOrder() order.Order {
	o := order.New(time.Date(2019, 3, 31, 0, 0, 0, 0, time.UTC), false)
	o.Header.VoucherType = "SO"
	o.Header.OrderNo = "SO-1001"
	o.Header.Party = "C001"
	return o
}

// newTestModel builds an editor over o with lookups already loaded.
func newTestModel(t *testing.T, o order.Order, readOnly bool, p lookup.Provider) (Model, *memOrders) {
	t.Helper()

	store := &memOrders{}
	m := New(Options{Draft: order.NewDraft(o, readOnly, store), Provider: p})
	m = send(t, m, tuitest.WindowSize(160, 60))

	msg := loadLookups(p)()
	m = send(t, m, msg)
	require.True(t, m.loaded)
	return m, store
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func toastMessages(m Model) []string {
	out := make([]string, 0, len(m.toastController.Toasts()))
	for _, t := range m.toastController.Toasts() {
		out = append(out, t.notification.Message)
	}
	return out
}
