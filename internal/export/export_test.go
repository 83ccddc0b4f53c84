package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/colonyops/rollbook/internal/core/lineitem"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testOrder() order.Order {
	o := order.New(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), false)
	o.Header.OrderNo = "SO-1042"
	o.Header.Party = "C001"
	o.Header.VoucherType = "SO"
	return o
}

func testSet() lookup.Set {
	set := lookup.NewSet()
	set.Records[lookup.CategoryCustomer] = []lookup.Record{{Code: "C001", Description: "Acme Packaging"}}
	set.Records[lookup.CategoryItem] = []lookup.Record{{Code: "KP-001", Description: "Kraft Paper 120"}}
	return set
}

func raw(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func findRow(t *testing.T, f *excelize.File, sheet, label string) int {
	t.Helper()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	for i, r := range rows {
		if len(r) > 0 && r[0] == label {
			return i + 1
		}
	}
	t.Fatalf("row %q not found in %s", label, sheet)
	return 0
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, testOrder(), testSet()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SheetOrder, SheetLines}, f.GetSheetList())

	t.Run("order sheet", func(t *testing.T) {
		row := findRow(t, f, SheetOrder, "Order No")
		assert.Equal(t, "SO-1042", raw(t, f, SheetOrder, cellName(2, row)))

		row = findRow(t, f, SheetOrder, "Party")
		assert.Equal(t, "Acme Packaging", raw(t, f, SheetOrder, cellName(2, row)))

		row = findRow(t, f, SheetOrder, "Freight")
		assert.Equal(t, "To Pay", raw(t, f, SheetOrder, cellName(2, row)))

		row = findRow(t, f, SheetOrder, order.HeadGross)
		assert.Equal(t, "128750.00", raw(t, f, SheetOrder, cellName(3, row)))
	})

	t.Run("lines sheet", func(t *testing.T) {
		rows, err := f.GetRows(SheetLines)
		require.NoError(t, err)
		require.Len(t, rows, 4, "header, two lines, totals")

		cols := lineitem.Columns()
		require.Len(t, rows[0], len(cols))
		assert.Equal(t, "S. No.", rows[0][0])

		amountCol, qtyCol := -1, -1
		for i, c := range cols {
			switch {
			case c.Kind == lineitem.KindAmount:
				amountCol = i + 1
			case c.Field == lineitem.FieldReelPerPack:
				qtyCol = i + 1
			}
		}

		assert.Equal(t, "1", raw(t, f, SheetLines, "A2"))
		assert.Equal(t, "Kraft Paper 120", raw(t, f, SheetLines, "B2"), "item resolved by code")
		assert.Equal(t, "Kraft Paper B", raw(t, f, SheetLines, "B3"), "unresolved item shows stored name")

		assert.Equal(t, "86250.00", raw(t, f, SheetLines, cellName(amountCol, 2)))
		assert.Equal(t, "42500.00", raw(t, f, SheetLines, cellName(amountCol, 3)))

		assert.Equal(t, TotalLabel, raw(t, f, SheetLines, "A4"))
		assert.Equal(t, "128750.00", raw(t, f, SheetLines, cellName(amountCol, 4)))
		assert.Equal(t, "9.00", raw(t, f, SheetLines, cellName(qtyCol, 4)))
	})
}

func TestWriteXLSX_NoLines(t *testing.T) {
	o := order.New(time.Now(), true)

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, o, lookup.NewSet()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, TotalLabel, raw(t, f, SheetLines, "A2"))
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "SO-1042.xlsx")
	require.NoError(t, SaveXLSX(path, testOrder(), testSet()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Contains(t, f.GetSheetList(), SheetLines)
}

func TestHeaderValue(t *testing.T) {
	set := testSet()
	h := order.Header{Party: "C001", Consignee: "C999", OrderNo: "SO-1"}

	party, _ := order.SpecFor(order.HeaderParty)
	consignee, _ := order.SpecFor(order.HeaderConsignee)
	orderNo, _ := order.SpecFor(order.HeaderOrderNo)

	assert.Equal(t, "Acme Packaging", HeaderValue(h, party, set))
	assert.Equal(t, "C999", HeaderValue(h, consignee, set))
	assert.Equal(t, "SO-1", HeaderValue(h, orderNo, set))
}

func TestMarkdown(t *testing.T) {
	md, err := Markdown(testOrder(), testSet())
	require.NoError(t, err)

	assert.Contains(t, md, "# Sales Order SO-1042")
	assert.Contains(t, md, "**Status:** ACTIVE")
	assert.Contains(t, md, "| Party | Acme Packaging |")
	assert.Contains(t, md, "| 1 | Kraft Paper 120 | 14 | 120.00 x 150.00 CM |")
	assert.Contains(t, md, "**128750.00**")
	assert.Contains(t, md, "| Freight | To Pay |")
	assert.Contains(t, md, "| Remark | - |")
	assert.Contains(t, md, "| Net Amount | 0.000 | 128750.00 |")
	assert.NotContains(t, md, "| Distributor |", "empty header fields are omitted")
}

func TestMarkdown_Empty(t *testing.T) {
	o := order.New(time.Now(), true)

	md, err := Markdown(o, lookup.NewSet())
	require.NoError(t, err)

	assert.Contains(t, md, "# Sales Order (unnumbered)")
	assert.Contains(t, md, "_No line items._")
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
