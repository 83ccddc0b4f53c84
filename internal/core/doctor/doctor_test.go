package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/rollbook/internal/core/config"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/colonyops/rollbook/internal/data/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCheck struct {
	name  string
	items []CheckItem
}

func (c staticCheck) Name() string { return c.name }

func (c staticCheck) Run(context.Context) Result {
	return Result{Name: c.name, Items: append([]CheckItem(nil), c.items...)}
}

func TestRunAll_SetsStatusStrings(t *testing.T) {
	results := RunAll(context.Background(), []Check{
		staticCheck{name: "a", items: []CheckItem{{Label: "x", Status: StatusPass}}},
		staticCheck{name: "b", items: []CheckItem{{Label: "y", Status: StatusFail, Fixable: true}}},
	})

	require.Len(t, results, 2)
	assert.Equal(t, "pass", results[0].Items[0].StatusStr)
	assert.Equal(t, "fail", results[1].Items[0].StatusStr)

	passed, warned, failed := Summary(results)
	assert.Equal(t, 1, passed)
	assert.Equal(t, 0, warned)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, CountFixable(results))
}

func TestConfigCheck_MissingFileUsesDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	result := NewConfigCheck(&cfg, filepath.Join(t.TempDir(), "config.yaml")).Run(context.Background())

	assert.Equal(t, "Configuration", result.Name)
	require.GreaterOrEqual(t, len(result.Items), 2)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Contains(t, result.Items[0].Detail, "rollbook init")
	assert.Equal(t, StatusPass, result.Items[1].Status)

	// no url and no fixtures
	require.Len(t, result.Items, 3)
	assert.Equal(t, "Lookups", result.Items[2].Label)
	assert.Equal(t, StatusWarn, result.Items[2].Status)
}

func TestConfigCheck_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lookups: {}\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Lookups.URL = "ftp://erp.example.com"

	result := NewConfigCheck(&cfg, path).Run(context.Background())

	require.GreaterOrEqual(t, len(result.Items), 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusFail, result.Items[1].Status)
	assert.NotEmpty(t, result.Items[1].Detail)
}

func TestDataDirCheck(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name   string
		path   string
		status Status
	}{
		{name: "exists", path: dir, status: StatusPass},
		{name: "missing", path: filepath.Join(dir, "nope"), status: StatusWarn},
		{name: "not a directory", path: file, status: StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewDataDirCheck(tt.path).Run(context.Background())
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.status, result.Items[0].Status)
		})
	}
}

type fakeProvider map[lookup.Category][]lookup.Record

func (f fakeProvider) Fetch(_ context.Context, c lookup.Category) ([]lookup.Record, error) {
	records, ok := f[c]
	if !ok {
		return nil, errors.New("unknown category")
	}
	return records, nil
}

func TestLookupsCheck(t *testing.T) {
	p := fakeProvider{
		lookup.CategoryCustomer: {{Code: "C001"}, {Code: "C002"}},
		lookup.CategoryCity:     {},
	}

	result := NewLookupsCheck(p, time.Second,
		lookup.CategoryCustomer, lookup.CategoryCity, lookup.CategoryGSM,
	).Run(context.Background())

	require.Len(t, result.Items, 3)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "2 records", result.Items[0].Detail)
	assert.Equal(t, StatusWarn, result.Items[1].Status)
	assert.Equal(t, StatusFail, result.Items[2].Status)
	assert.Equal(t, "unknown category", result.Items[2].Detail)
}

func TestLookupsCheck_DefaultsToSaleOrderCategories(t *testing.T) {
	result := NewLookupsCheck(fakeProvider{}, 0).Run(context.Background())
	assert.Len(t, result.Items, len(lookup.SaleOrderCategories()))
}

type fakeCache struct {
	cached    []lookup.Category
	refreshed []lookup.Category
	err       error
}

func (f *fakeCache) Cached(context.Context) ([]lookup.Category, error) {
	return f.cached, f.err
}

func (f *fakeCache) Refresh(_ context.Context, c lookup.Category) ([]lookup.Record, error) {
	f.refreshed = append(f.refreshed, c)
	return []lookup.Record{{Code: "X"}}, nil
}

func TestCacheCheck_ReportsMissing(t *testing.T) {
	cache := &fakeCache{cached: []lookup.Category{lookup.CategoryItem}}

	result := NewCacheCheck(cache, false, lookup.CategoryItem, lookup.CategoryBF).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, StatusWarn, result.Items[1].Status)
	assert.True(t, result.Items[1].Fixable)
	assert.Empty(t, cache.refreshed)
}

func TestCacheCheck_AutofixPrimes(t *testing.T) {
	cache := &fakeCache{}

	result := NewCacheCheck(cache, true, lookup.CategoryBF).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusPass, result.Items[0].Status)
	assert.Equal(t, "primed with 1 records", result.Items[0].Detail)
	assert.Equal(t, []lookup.Category{lookup.CategoryBF}, cache.refreshed)
}

func TestCacheCheck_ListError(t *testing.T) {
	cache := &fakeCache{err: errors.New("db closed")}

	result := NewCacheCheck(cache, false).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

type listStore struct {
	order.Store
	orders []order.Order
	err    error
}

func (s listStore) List(context.Context) ([]order.Order, error) {
	return s.orders, s.err
}

func TestOrdersCheck(t *testing.T) {
	valid := order.New(time.Date(2019, 3, 31, 0, 0, 0, 0, time.UTC), true)
	valid.Header.VoucherType = "SO"
	valid.Header.OrderNo = "SO-1"
	valid.Header.Party = "C001"

	invalid := order.New(time.Date(2019, 3, 31, 0, 0, 0, 0, time.UTC), true)

	result := NewOrdersCheck(listStore{orders: []order.Order{valid, invalid}}).Run(context.Background())

	require.Len(t, result.Items, 2)
	assert.Equal(t, invalid.ID, result.Items[0].Label)
	assert.Equal(t, StatusWarn, result.Items[0].Status)
	assert.Equal(t, StatusPass, result.Items[1].Status)
	assert.Equal(t, "2 saved, 1 invalid", result.Items[1].Detail)
}

func TestOrdersCheck_ListError(t *testing.T) {
	result := NewOrdersCheck(listStore{err: errors.New("boom")}).Run(context.Background())

	require.Len(t, result.Items, 1)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

type fakeSchema struct {
	status db.SchemaStatus
	err    error
}

func (f fakeSchema) Schema(context.Context) (db.SchemaStatus, error) { return f.status, f.err }

func TestDatabaseCheck(t *testing.T) {
	tests := []struct {
		name   string
		schema fakeSchema
		want   Status
		detail string
	}{
		{"current", fakeSchema{status: db.SchemaStatus{Current: 3, Latest: 3}}, StatusPass, "version 0003"},
		{"pending", fakeSchema{status: db.SchemaStatus{Current: 2, Latest: 3, Pending: []db.Migration{{Version: 3}}}}, StatusWarn, "1 migration(s) pending"},
		{"newer", fakeSchema{status: db.SchemaStatus{Current: 9, Latest: 3, Unknown: []int{9}}}, StatusFail, "newer rollbook"},
		{"error", fakeSchema{err: errors.New("disk gone")}, StatusFail, "disk gone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewDatabaseCheck(tt.schema).Run(context.Background())
			assert.Equal(t, "Database", result.Name)
			require.Len(t, result.Items, 1)
			assert.Equal(t, tt.want, result.Items[0].Status)
			assert.Contains(t, result.Items[0].Detail, tt.detail)
		})
	}
}
