package core

import (
	"fmt"

	"github.com/google/uuid"
)

// NewTable returns the default baseline: a single blank row dated today.
func NewTable(headers []string, today string) *Table {
	t := &Table{Headers: headersOrDefault(headers)}
	t.Clear(today)
	return t
}

// AddRow appends a new default row.
func (t *Table) AddRow(today string) *Row {
	r := NewRow(today)
	t.Rows = append(t.Rows, r)
	return r
}

// RemoveLastRow drops the last row in table order. A table never drops below one row.
func (t *Table) RemoveLastRow() error {
	if len(t.Rows) <= 1 {
		return ErrLastRow
	}
	t.Rows[len(t.Rows)-1] = nil
	t.Rows = t.Rows[:len(t.Rows)-1]
	return nil
}

// Clear resets the table to the default baseline.
func (t *Table) Clear(today string) {
	t.Rows = []*Row{NewRow(today)}
}

// Row looks a row up by identity.
func (t *Table) Row(id uuid.UUID) (*Row, error) {
	for _, r := range t.Rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("row %s: %w", id, ErrRowNotFound)
}

// RowAt returns the row at position i in table order.
func (t *Table) RowAt(i int) (*Row, error) {
	if i < 0 || i >= len(t.Rows) {
		return nil, fmt.Errorf("row index %d: %w", i, ErrRowNotFound)
	}
	return t.Rows[i], nil
}

// Recalculate re-derives every row's net value.
func (t *Table) Recalculate() {
	for _, r := range t.Rows {
		r.Recalculate()
	}
}

func headersOrDefault(headers []string) []string {
	if len(headers) == 0 {
		headers = DefaultHeaders
	}
	return append([]string(nil), headers...)
}
