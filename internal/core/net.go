package core

import "github.com/shopspring/decimal"

// Tone is the display hint derived from the sign of a net value.
type Tone string

const (
	ToneNonNegative Tone = "positive"
	ToneNegative    Tone = "negative"
)

// Net returns morning + evening minus the sum of every expense amount.
func Net(morning, evening decimal.Decimal, expenses []ExpenseEntry) decimal.Decimal {
	net := morning.Add(evening)
	for _, e := range expenses {
		net = net.Sub(e.Amount)
	}
	return net
}

// Sign maps a net value to its display tone.
func Sign(net decimal.Decimal) Tone {
	if net.IsNegative() {
		return ToneNegative
	}
	return ToneNonNegative
}

// Recalculate re-derives the row's net value from its shift and expense fields.
func (r *Row) Recalculate() {
	r.Net = Net(r.Morning, r.Evening, r.Expenses)
}

// TotalExpenses sums the row's expense amounts.
func (r *Row) TotalExpenses() decimal.Decimal {
	total := decimal.Zero
	for _, e := range r.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}
