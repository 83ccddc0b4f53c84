// Package export renders orders for use outside the editor: an XLSX
// workbook for spreadsheets and a markdown summary for the terminal.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/colonyops/rollbook/internal/core/lineitem"
	"github.com/colonyops/rollbook/internal/core/lookup"
	"github.com/colonyops/rollbook/internal/core/order"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetOrder = "Order"
	SheetLines = "Lines"

	// TotalLabel heads the totals row of the lines sheet.
	TotalLabel = "Total"
)

// numFmtFixed2 is the built-in "0.00" number format.
const numFmtFixed2 = 2

type workbook struct {
	f       *excelize.File
	bold    int
	heading int
	money   int
	total   int
}

// WriteXLSX writes o as a workbook to w. The Order sheet lists the header,
// terms and expenses; the Lines sheet lists every line with its derived
// amount and a totals row. Lookup-backed values are shown by description
// when set resolves them.
func WriteXLSX(w io.Writer, o order.Order, set lookup.Set) error {
	wb, err := newWorkbook()
	if err != nil {
		return err
	}
	defer func() { _ = wb.f.Close() }()

	if err := wb.writeOrder(o, set); err != nil {
		return fmt.Errorf("write order sheet: %w", err)
	}
	if err := wb.writeLines(o.Lines, set); err != nil {
		return fmt.Errorf("write lines sheet: %w", err)
	}

	if _, err := wb.f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes o to the workbook file at path, creating parent
// directories as needed.
func SaveXLSX(path string, o order.Order, set lookup.Set) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteXLSX(f, o, set); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetOrder); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SheetLines); err != nil {
		_ = f.Close()
		return nil, err
	}

	wb := &workbook{f: f}
	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&wb.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&wb.heading, &excelize.Style{
			Font:   &excelize.Font{Bold: true, Size: 11},
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
			Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
		}},
		{&wb.money, &excelize.Style{NumFmt: numFmtFixed2}},
		{&wb.total, &excelize.Style{
			Font:   &excelize.Font{Bold: true},
			NumFmt: numFmtFixed2,
			Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
		}},
	}
	for _, s := range styles {
		id, err := f.NewStyle(s.style)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create style: %w", err)
		}
		*s.dst = id
	}
	return wb, nil
}

func (wb *workbook) writeOrder(o order.Order, set lookup.Set) error {
	f := wb.f
	sheet := SheetOrder
	row := 1

	section := func(title string) error {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, wb.heading); err != nil {
			return err
		}
		row++
		return nil
	}
	pair := func(label string, value any) error {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", row), value); err != nil {
			return err
		}
		row++
		return nil
	}

	if err := section("Sales Order"); err != nil {
		return err
	}
	if err := pair("Status", string(o.Status)); err != nil {
		return err
	}
	for _, spec := range order.HeaderFields() {
		if err := pair(spec.Label, HeaderValue(o.Header, spec, set)); err != nil {
			return err
		}
	}

	row++
	if err := section("Terms"); err != nil {
		return err
	}
	for _, term := range o.Terms {
		if err := pair(term.Label, term.Value); err != nil {
			return err
		}
	}

	row++
	if err := section("Expenses"); err != nil {
		return err
	}
	for i, h := range []string{"Head", "Per", "Amount"} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, row)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, wb.bold); err != nil {
			return err
		}
	}
	row++
	for _, e := range o.Expenses.Compute(o.Gross()) {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", row), e.Head); err != nil {
			return err
		}
		if err := setMoney(f, sheet, fmt.Sprintf("B%d", row), e.Per, 3); err != nil {
			return err
		}
		if err := setMoney(f, sheet, fmt.Sprintf("C%d", row), e.Amount, 2); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), wb.money); err != nil {
			return err
		}
		row++
	}

	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "C", 28)
}

func (wb *workbook) writeLines(lines []lineitem.LineItem, set lookup.Set) error {
	f := wb.f
	sheet := SheetLines
	cols := lineitem.Columns()

	for i, c := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, c.Label); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, wb.heading); err != nil {
			return err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, float64(c.Width)+2); err != nil {
			return err
		}
	}

	for r, li := range lines {
		row := r + 2
		for i, c := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := wb.writeLineCell(cell, c, li, r, set); err != nil {
				return err
			}
		}
	}

	totals := lineitem.Sum(lines)
	row := len(lines) + 2
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(cols), row)
	if err := f.SetCellValue(sheet, first, TotalLabel); err != nil {
		return err
	}
	for i, c := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		var err error
		switch {
		case c.Kind == lineitem.KindAmount:
			err = setMoney(f, sheet, cell, totals.Amount, 2)
		case c.Field == lineitem.FieldReelPerPack:
			err = setMoney(f, sheet, cell, totals.Quantity, 2)
		case c.Field == lineitem.FieldWeightSKU:
			err = setMoney(f, sheet, cell, totals.Weight, 2)
		}
		if err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheet, first, last, wb.total); err != nil {
		return err
	}

	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func (wb *workbook) writeLineCell(cell string, c lineitem.Column, li lineitem.LineItem, row int, set lookup.Set) error {
	f := wb.f
	switch {
	case c.Kind == lineitem.KindSerial:
		return f.SetCellValue(SheetLines, cell, row+1)
	case c.Kind == lineitem.KindAmount:
		if err := setMoney(f, SheetLines, cell, lineitem.Amount(li), 2); err != nil {
			return err
		}
		return f.SetCellStyle(SheetLines, cell, cell, wb.money)
	case c.Field.Numeric():
		return f.SetCellFloat(SheetLines, cell, lineitem.ParseNumber(li.Value(c.Field)), -1, 64)
	default:
		v := lineitem.DisplayValue(li, c.Field, set)
		if v == lineitem.Placeholder {
			return nil
		}
		return f.SetCellStr(SheetLines, cell, v)
	}
}

// HeaderValue renders a header field for display. Lookup-backed fields show
// the resolved description, falling back to the stored code.
func HeaderValue(h order.Header, spec order.HeaderFieldSpec, set lookup.Set) string {
	v := h.Get(spec.Field)
	if !spec.Lookup() || v == "" {
		return v
	}
	if rec, ok := set.Find(spec.Category, v); ok && rec.Description != "" {
		return rec.Description
	}
	return v
}

func setMoney(f *excelize.File, sheet, cell string, d decimal.Decimal, places int) error {
	return f.SetCellFloat(sheet, cell, d.Round(int32(places)).InexactFloat64(), places, 64)
}
