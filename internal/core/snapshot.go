package core

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type (
	// SnapshotExpense is the persisted form of an expense entry.
	SnapshotExpense struct {
		Amount      string `json:"amount"`
		Description string `json:"description"`
	}

	// RowTuple is the fixed-width persisted form of a row:
	// [date, morning, evening, [{amount,description}...], net, deliveries].
	RowTuple struct {
		Date       string
		Morning    string
		Evening    string
		Expenses   []SnapshotExpense
		Net        string
		Deliveries string
	}

	// TableSnapshot is the flattened, serialization-ready form of a table.
	TableSnapshot struct {
		Headers []string   `json:"headers"`
		Rows    []RowTuple `json:"rows"`
	}
)

// Serialize flattens t in row order. Blank expense entries are left out.
func Serialize(t *Table) TableSnapshot {
	snap := TableSnapshot{
		Headers: headersOrDefault(t.Headers),
		Rows:    make([]RowTuple, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		tuple := RowTuple{
			Date:       r.Date,
			Morning:    r.Morning.String(),
			Evening:    r.Evening.String(),
			Expenses:   make([]SnapshotExpense, 0, len(r.Expenses)),
			Net:        r.Net.String(),
			Deliveries: r.Deliveries.String(),
		}
		for _, e := range r.Expenses {
			if e.IsBlank() {
				continue
			}
			tuple.Expenses = append(tuple.Expenses, SnapshotExpense{
				Amount:      e.Amount.String(),
				Description: e.Description,
			})
		}
		snap.Rows = append(snap.Rows, tuple)
	}
	return snap
}

// Deserialize rebuilds a live table from a snapshot. Headers come from the live
// column definitions, dates are normalized, every row gets at least one expense
// entry and net values are re-derived rather than trusted.
func Deserialize(s TableSnapshot, headers []string, today string) *Table {
	t := &Table{Headers: headersOrDefault(headers)}
	for _, tuple := range s.Rows {
		r := &Row{
			ID:         uuid.New(),
			Date:       NormalizeDate(tuple.Date, today),
			Morning:    Coerce(tuple.Morning),
			Evening:    Coerce(tuple.Evening),
			Deliveries: Coerce(tuple.Deliveries),
		}
		for _, e := range tuple.Expenses {
			r.Expenses = append(r.Expenses, ExpenseEntry{
				ID:          uuid.New(),
				Amount:      Coerce(e.Amount),
				Description: e.Description,
			})
		}
		if len(r.Expenses) == 0 {
			r.Expenses = []ExpenseEntry{newExpense()}
		}
		r.Recalculate()
		t.Rows = append(t.Rows, r)
	}
	if len(t.Rows) == 0 {
		t.Clear(today)
	}
	return t
}

// HasData reports whether any row carries a non-empty, non-zero cell.
func (s TableSnapshot) HasData() bool {
	for _, row := range s.Rows {
		if len(row.Expenses) > 0 {
			return true
		}
		for _, cell := range []string{row.Date, row.Morning, row.Evening, row.Net, row.Deliveries} {
			if cell != "" && cell != "0" {
				return true
			}
		}
	}
	return false
}

// MarshalJSON writes the tuple as a six element array.
func (t RowTuple) MarshalJSON() ([]byte, error) {
	expenses := t.Expenses
	if expenses == nil {
		expenses = []SnapshotExpense{}
	}
	return json.Marshal([]any{t.Date, t.Morning, t.Evening, expenses, t.Net, t.Deliveries})
}

// UnmarshalJSON accepts the six element array form. Numbers are taken as their
// literal text, nulls and missing trailing cells as empty.
func (t *RowTuple) UnmarshalJSON(data []byte) error {
	var cells []json.RawMessage
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("decode row tuple: %w", err)
	}
	cell := func(i int) string {
		if i >= len(cells) {
			return ""
		}
		return scalar(cells[i])
	}
	*t = RowTuple{
		Date:       cell(ColDate),
		Morning:    cell(ColMorning),
		Evening:    cell(ColEvening),
		Net:        cell(ColNet),
		Deliveries: cell(ColDeliveries),
	}
	if len(cells) > ColExpenses {
		var expenses []SnapshotExpense
		if err := json.Unmarshal(cells[ColExpenses], &expenses); err == nil {
			t.Expenses = expenses
		}
	}
	return nil
}

// UnmarshalJSON tolerates numeric amounts.
func (e *SnapshotExpense) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount      json.RawMessage `json:"amount"`
		Description json.RawMessage `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode expense: %w", err)
	}
	e.Amount = scalar(raw.Amount)
	e.Description = scalar(raw.Description)
	return nil
}

func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	default:
		return ""
	}
}
