package core

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Field names an editable row column.
type Field string

// ExpenseField names an editable expense entry attribute.
type ExpenseField string

const (
	FieldDate       Field = "date"
	FieldMorning    Field = "morning"
	FieldEvening    Field = "evening"
	FieldNet        Field = "net"
	FieldDeliveries Field = "deliveries"

	ExpenseAmount      ExpenseField = "amount"
	ExpenseDescription ExpenseField = "description"
)

// Column positions inside a persisted row tuple.
const (
	ColDate = iota
	ColMorning
	ColEvening
	ColExpenses
	ColNet
	ColDeliveries

	columnCount
)

// DefaultHeaders are the column labels used when no column definitions are configured.
var DefaultHeaders = []string{
	"التاريخ",
	"الشيفت الصباحي",
	"الشيفت المسائي",
	"المصروفات",
	"الصافي",
	"التسليمات",
}

type (
	// ExpenseEntry is a single expense within a row. It is owned by exactly one Row.
	ExpenseEntry struct {
		ID          uuid.UUID
		Amount      decimal.Decimal
		Description string
	}

	// Row is one day of shift takings for a branch.
	// Net is derived and only ever written by Recalculate.
	Row struct {
		ID         uuid.UUID
		Date       string
		Morning    decimal.Decimal
		Evening    decimal.Decimal
		Expenses   []ExpenseEntry
		Net        decimal.Decimal
		Deliveries decimal.Decimal
	}

	// Table is the authoritative, ordered collection of rows.
	Table struct {
		Headers []string
		Rows    []*Row
	}
)

var (
	ErrLastRow         = errors.New("cannot remove the last row")
	ErrLastExpense     = errors.New("cannot remove the last expense of a row")
	ErrRowNotFound     = errors.New("row not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrUnknownField    = errors.New("unknown field")
	ErrReadOnlyField   = errors.New("field is derived and cannot be edited")
)

// IsBlank reports whether the entry carries neither an amount nor a description.
func (e ExpenseEntry) IsBlank() bool {
	return e.Amount.IsZero() && e.Description == ""
}

func newExpense() ExpenseEntry {
	return ExpenseEntry{ID: uuid.New(), Amount: decimal.Zero}
}

// IsGuardRejection reports whether err is one of the "refuse to empty" guards.
func IsGuardRejection(err error) bool {
	return errors.Is(err, ErrLastRow) || errors.Is(err, ErrLastExpense)
}
