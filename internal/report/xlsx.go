package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"shiftreport/internal/core"
)

// SheetName is the worksheet that holds the report.
const SheetName = "Report"

// WriteXLSX writes doc as a right-to-left workbook: title and date rows, the
// table with numeric cells, then the summary block.
func (r *Renderer) WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	rtl := true
	if err := f.SetSheetView(SheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return fmt.Errorf("set sheet view: %w", err)
	}

	set := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(SheetName, cell, v)
	}

	if err := set(1, 1, doc.Title+" - "+doc.Branch); err != nil {
		return fmt.Errorf("write title: %w", err)
	}
	if err := set(1, 2, r.labels.ReportDate+": "+r.format.Date(doc.Date)); err != nil {
		return fmt.Errorf("write date: %w", err)
	}

	row := 4
	for i, h := range doc.Table.Headers {
		if err := set(i+1, row, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, t := range doc.Table.Rows {
		row++
		values := []any{
			t.Date,
			core.Coerce(t.Morning).InexactFloat64(),
			core.Coerce(t.Evening).InexactFloat64(),
			xlsxExpenses(t.Expenses),
			core.Coerce(t.Net).InexactFloat64(),
			core.Coerce(t.Deliveries).InexactFloat64(),
		}
		for i, v := range values {
			if err := set(i+1, row, v); err != nil {
				return fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	row += 2
	s := doc.Summary
	summary := []struct {
		label string
		value float64
	}{
		{r.labels.TotalMorning, s.TotalMorning.InexactFloat64()},
		{r.labels.TotalEvening, s.TotalEvening.InexactFloat64()},
		{r.labels.TotalExpenses, s.TotalExpenses.InexactFloat64()},
		{r.labels.TotalNet, s.TotalNet.InexactFloat64()},
		{r.labels.TotalDeliveries, s.TotalDeliveries.InexactFloat64()},
		{r.labels.GrandTotal, s.GrandTotal.InexactFloat64()},
	}
	for _, item := range summary {
		if err := set(1, row, item.label); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		if err := set(2, row, item.value); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
		row++
	}

	_ = f.SetColWidth(SheetName, "A", "A", 14)
	_ = f.SetColWidth(SheetName, "D", "D", 30)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func xlsxExpenses(expenses []core.SnapshotExpense) string {
	var out string
	for i, e := range expenses {
		if i > 0 {
			out += "\n"
		}
		out += e.Amount + ":" + e.Description
	}
	return out
}
