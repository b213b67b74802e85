package core

import (
	"encoding/json"
	"testing"
)

func buildTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable(nil, testToday)
	r := tbl.Rows[0]
	mustEdit(t, r.SetField(FieldMorning, "100", testToday))
	mustEdit(t, r.SetField(FieldEvening, "50", testToday))
	mustEdit(t, r.SetExpense(r.Expenses[0].ID, ExpenseAmount, "30"))
	mustEdit(t, r.SetExpense(r.Expenses[0].ID, ExpenseDescription, "fuel"))
	mustEdit(t, r.SetField(FieldDeliveries, "5", testToday))

	r2 := tbl.AddRow(testToday)
	mustEdit(t, r2.SetField(FieldDate, "2026-10-20", testToday))
	mustEdit(t, r2.SetField(FieldMorning, "80.5", testToday))
	tip := r2.AddExpense()
	mustEdit(t, r2.SetExpense(r2.Expenses[0].ID, ExpenseAmount, "10"))
	mustEdit(t, r2.SetExpense(tip.ID, ExpenseDescription, "tip"))
	return tbl
}

func sameRows(t *testing.T, want, got *Table) {
	t.Helper()
	if len(want.Rows) != len(got.Rows) {
		t.Fatalf("row count %d != %d", len(got.Rows), len(want.Rows))
	}
	for i := range want.Rows {
		w, g := want.Rows[i], got.Rows[i]
		if w.Date != g.Date || !w.Morning.Equal(g.Morning) || !w.Evening.Equal(g.Evening) ||
			!w.Net.Equal(g.Net) || !w.Deliveries.Equal(g.Deliveries) {
			t.Fatalf("row %d differs: want %+v got %+v", i, w, g)
		}
		if len(w.Expenses) != len(g.Expenses) {
			t.Fatalf("row %d expense count %d != %d", i, len(g.Expenses), len(w.Expenses))
		}
		for j := range w.Expenses {
			if !w.Expenses[j].Amount.Equal(g.Expenses[j].Amount) || w.Expenses[j].Description != g.Expenses[j].Description {
				t.Fatalf("row %d expense %d differs", i, j)
			}
		}
	}
}

func TestSerializeDropsBlankExpenses(t *testing.T) {
	tbl := NewTable(nil, testToday)
	r := tbl.Rows[0]
	tip := r.AddExpense()
	mustEdit(t, r.SetExpense(tip.ID, ExpenseAmount, "0"))
	mustEdit(t, r.SetExpense(tip.ID, ExpenseDescription, "tip"))

	snap := Serialize(tbl)
	exps := snap.Rows[0].Expenses
	if len(exps) != 1 {
		t.Fatalf("expected only the described entry to survive, got %+v", exps)
	}
	if exps[0].Amount != "0" || exps[0].Description != "tip" {
		t.Fatalf("unexpected entry %+v", exps[0])
	}
	// Serialization must not touch the live row.
	if len(r.Expenses) != 2 {
		t.Fatalf("live expense list changed")
	}
}

func TestRoundTrip(t *testing.T) {
	tbl := buildTable(t)
	back := Deserialize(Serialize(tbl), nil, testToday)
	sameRows(t, tbl, back)
}

func TestRoundTripThroughJSON(t *testing.T) {
	tbl := buildTable(t)
	data, err := json.Marshal(Serialize(tbl))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var snap TableSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	sameRows(t, tbl, Deserialize(snap, nil, testToday))
}

func TestRowTupleJSONShape(t *testing.T) {
	tuple := RowTuple{Date: "2026-10-19", Morning: "100", Evening: "50", Net: "150", Deliveries: "0"}
	data, err := json.Marshal(tuple)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `["2026-10-19","100","50",[],"150","0"]`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestDeserializeRepairsAndDefaults(t *testing.T) {
	raw := `{"headers":["x"],"rows":[
		["", 100, "50", [], "999", null],
		["10/19/2026", "abc", "", [{"amount": 20, "description": "gas"}], "1"]
	]}`
	var snap TableSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tbl := Deserialize(snap, []string{"live"}, testToday)
	if len(tbl.Headers) != 1 || tbl.Headers[0] != "live" {
		t.Fatalf("headers must come from live definitions, got %v", tbl.Headers)
	}
	first := tbl.Rows[0]
	if first.Date != testToday {
		t.Fatalf("blank date must default to today, got %s", first.Date)
	}
	if first.Net.String() != "150" {
		t.Fatalf("stale net must be recomputed, got %s", first.Net)
	}
	if len(first.Expenses) != 1 || !first.Expenses[0].IsBlank() {
		t.Fatalf("empty expense list must become one blank entry")
	}
	second := tbl.Rows[1]
	if second.Date != "2026-10-19" {
		t.Fatalf("expected normalized date, got %s", second.Date)
	}
	if second.Net.String() != "-20" || second.Expenses[0].Description != "gas" {
		t.Fatalf("unexpected second row %+v", second)
	}
}

func TestDeserializeEmptySnapshot(t *testing.T) {
	tbl := Deserialize(TableSnapshot{}, nil, testToday)
	if len(tbl.Rows) != 1 {
		t.Fatalf("expected default baseline row, got %d rows", len(tbl.Rows))
	}
}

func TestHasData(t *testing.T) {
	if (TableSnapshot{}).HasData() {
		t.Fatalf("empty snapshot has no data")
	}
	blank := TableSnapshot{Rows: []RowTuple{{Morning: "0", Evening: "0", Net: "0", Deliveries: "0"}}}
	if blank.HasData() {
		t.Fatalf("all-zero row without date has no data")
	}
	if !Serialize(NewTable(nil, testToday)).HasData() {
		t.Fatalf("a dated row counts as data")
	}
}
