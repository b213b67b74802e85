package core

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NewRow returns a row dated today with zero amounts and one blank expense.
func NewRow(today string) *Row {
	r := &Row{
		ID:         uuid.New(),
		Date:       today,
		Morning:    decimal.Zero,
		Evening:    decimal.Zero,
		Expenses:   []ExpenseEntry{newExpense()},
		Deliveries: decimal.Zero,
	}
	r.Recalculate()
	return r
}

// SetField writes value into field, coercing it, and recomputes the net value.
func (r *Row) SetField(field Field, value, today string) error {
	switch field {
	case FieldDate:
		r.Date = NormalizeDate(value, today)
	case FieldMorning:
		r.Morning = Coerce(value)
	case FieldEvening:
		r.Evening = Coerce(value)
	case FieldDeliveries:
		r.Deliveries = Coerce(value)
	case FieldNet:
		return fmt.Errorf("set %s: %w", field, ErrReadOnlyField)
	default:
		return fmt.Errorf("set %q: %w", field, ErrUnknownField)
	}
	r.Recalculate()
	return nil
}

// AddExpense appends a blank expense entry and returns it.
func (r *Row) AddExpense() ExpenseEntry {
	e := newExpense()
	r.Expenses = append(r.Expenses, e)
	r.Recalculate()
	return e
}

// RemoveExpense drops the entry with the given id. The last remaining entry is never removed.
func (r *Row) RemoveExpense(id uuid.UUID) error {
	idx := r.expenseIndex(id)
	if idx < 0 {
		return fmt.Errorf("remove expense %s: %w", id, ErrExpenseNotFound)
	}
	if len(r.Expenses) == 1 {
		return ErrLastExpense
	}
	r.Expenses = append(r.Expenses[:idx], r.Expenses[idx+1:]...)
	r.Recalculate()
	return nil
}

// SetExpense edits one attribute of an expense entry and recomputes the net value.
func (r *Row) SetExpense(id uuid.UUID, field ExpenseField, value string) error {
	idx := r.expenseIndex(id)
	if idx < 0 {
		return fmt.Errorf("set expense %s: %w", id, ErrExpenseNotFound)
	}
	switch field {
	case ExpenseAmount:
		r.Expenses[idx].Amount = Coerce(value)
	case ExpenseDescription:
		r.Expenses[idx].Description = value
	default:
		return fmt.Errorf("set expense %q: %w", field, ErrUnknownField)
	}
	r.Recalculate()
	return nil
}

func (r *Row) expenseIndex(id uuid.UUID) int {
	for i, e := range r.Expenses {
		if e.ID == id {
			return i
		}
	}
	return -1
}
