package session

import (
	"github.com/google/uuid"

	"shiftreport/internal/core"
)

type (
	// ExpenseView is the presentation form of an expense entry.
	ExpenseView struct {
		ID          uuid.UUID `json:"id"`
		Amount      string    `json:"amount"`
		Description string    `json:"description"`
	}

	// RowView is the presentation form of a row. Tone tells the UI how to
	// color the net cell.
	RowView struct {
		ID         uuid.UUID     `json:"id"`
		Date       string        `json:"date"`
		Morning    string        `json:"morning"`
		Evening    string        `json:"evening"`
		Expenses   []ExpenseView `json:"expenses"`
		Net        string        `json:"net"`
		Tone       core.Tone     `json:"tone"`
		Deliveries string        `json:"deliveries"`
	}

	// View is a read-only projection of the session.
	View struct {
		Branch  string       `json:"branch"`
		Title   string       `json:"title"`
		Date    string       `json:"date"`
		Headers []string     `json:"headers"`
		Rows    []RowView    `json:"rows"`
		Summary core.Summary `json:"summary"`
	}
)

// View projects the live state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Branch:  s.branch,
		Title:   s.title,
		Date:    s.date,
		Headers: append([]string(nil), s.table.Headers...),
		Rows:    make([]RowView, 0, len(s.table.Rows)),
		Summary: core.Summarize(core.Serialize(s.table)),
	}
	for _, r := range s.table.Rows {
		rv := RowView{
			ID:         r.ID,
			Date:       r.Date,
			Morning:    r.Morning.String(),
			Evening:    r.Evening.String(),
			Expenses:   make([]ExpenseView, 0, len(r.Expenses)),
			Net:        r.Net.String(),
			Tone:       core.Sign(r.Net),
			Deliveries: r.Deliveries.String(),
		}
		for _, e := range r.Expenses {
			rv.Expenses = append(rv.Expenses, ExpenseView{
				ID:          e.ID,
				Amount:      e.Amount.String(),
				Description: e.Description,
			})
		}
		v.Rows = append(v.Rows, rv)
	}
	return v
}
