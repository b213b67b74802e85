package core

import "github.com/shopspring/decimal"

// Summary is the branch level reduction of a snapshot.
type Summary struct {
	TotalMorning    decimal.Decimal `json:"totalMorning"`
	TotalEvening    decimal.Decimal `json:"totalEvening"`
	TotalExpenses   decimal.Decimal `json:"totalExpenses"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	TotalDeliveries decimal.Decimal `json:"totalDeliveries"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
}

// Summarize folds every row of s into branch totals.
// TotalNet sums the stored net cells and is not derived from the other totals.
func Summarize(s TableSnapshot) Summary {
	sum := Summary{
		TotalMorning:    decimal.Zero,
		TotalEvening:    decimal.Zero,
		TotalExpenses:   decimal.Zero,
		TotalNet:        decimal.Zero,
		TotalDeliveries: decimal.Zero,
	}
	for _, row := range s.Rows {
		sum.TotalMorning = sum.TotalMorning.Add(Coerce(row.Morning))
		sum.TotalEvening = sum.TotalEvening.Add(Coerce(row.Evening))
		for _, e := range row.Expenses {
			sum.TotalExpenses = sum.TotalExpenses.Add(Coerce(e.Amount))
		}
		sum.TotalNet = sum.TotalNet.Add(Coerce(row.Net))
		sum.TotalDeliveries = sum.TotalDeliveries.Add(Coerce(row.Deliveries))
	}
	sum.GrandTotal = sum.TotalMorning.
		Add(sum.TotalEvening).
		Sub(sum.TotalExpenses).
		Add(sum.TotalDeliveries)
	return sum
}

// NetDivergence compares TotalNet with the net implied by the shift and expense
// totals. A stale net cell in the snapshot shows up as a non-zero difference.
func (s Summary) NetDivergence() (decimal.Decimal, bool) {
	implied := s.TotalMorning.Add(s.TotalEvening).Sub(s.TotalExpenses)
	diff := s.TotalNet.Sub(implied)
	return diff, !diff.IsZero()
}
