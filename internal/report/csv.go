package report

import (
	"bufio"
	"io"
	"strings"

	"shiftreport/internal/core"
)

const bom = "\uFEFF"

// WriteCSV writes doc in the spreadsheet import layout: a title line, a date
// line, a blank line, the header row and one line per row. Cells other than
// expenses are written as stored. The expenses cell is always quoted and
// lists "amount:description" pairs separated by ";".
func (r *Renderer) WriteCSV(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(bom)
	bw.WriteString(doc.Title + " - " + doc.Branch + "\n")
	bw.WriteString(r.labels.ReportDate + ": " + r.format.Date(doc.Date) + "\n\n")
	bw.WriteString(strings.Join(doc.Table.Headers, ",") + "\n")

	for _, t := range doc.Table.Rows {
		cells := []string{t.Date, t.Morning, t.Evening, expensesCell(t.Expenses), t.Net, t.Deliveries}
		bw.WriteString(strings.Join(cells, ",") + "\n")
	}
	return bw.Flush()
}

func expensesCell(expenses []core.SnapshotExpense) string {
	parts := make([]string, 0, len(expenses))
	for _, e := range expenses {
		parts = append(parts, e.Amount+":"+e.Description)
	}
	return `"` + strings.ReplaceAll(strings.Join(parts, ";"), `"`, `""`) + `"`
}
