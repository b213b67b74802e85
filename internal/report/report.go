// Package report renders a branch's table as an HTML document, a CSV file
// or an XLSX workbook.
package report

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"shiftreport/internal/config"
	"shiftreport/internal/core"
	"shiftreport/web"
)

// Document is everything a rendered report shows.
type Document struct {
	Branch      string
	Title       string
	Date        string
	Table       core.TableSnapshot
	Summary     core.Summary
	GeneratedAt time.Time
}

// Renderer turns documents into output formats.
type Renderer struct {
	tmpl   *template.Template
	css    template.CSS
	format Formatter
	labels config.Labels
}

// NewRenderer parses the embedded report template.
func NewRenderer(locale string, labels config.Labels) (*Renderer, error) {
	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	css, err := web.StaticFS.ReadFile("static/report.css")
	if err != nil {
		return nil, fmt.Errorf("read report stylesheet: %w", err)
	}
	return &Renderer{
		tmpl:   tmpl,
		css:    template.CSS(css),
		format: NewFormatter(locale),
		labels: labels,
	}, nil
}

// Formatter returns the renderer's locale formatter.
func (r *Renderer) Formatter() Formatter {
	return r.format
}

type (
	pageExpense struct {
		Amount      string
		Description string
	}

	pageRow struct {
		Date       string
		Morning    string
		Evening    string
		Expenses   []pageExpense
		Net        string
		Negative   bool
		Deliveries string
	}

	summaryCard struct {
		Label string
		Value string
		Grand bool
	}

	page struct {
		Lang           string
		CSS            template.CSS
		Branch         string
		Title          string
		DateLabel      string
		Date           string
		Headers        []string
		Rows           []pageRow
		NoExpenses     string
		Cards          []summaryCard
		Footer         string
		GeneratedLabel string
		GeneratedAt    string
	}
)

// Render writes doc as a standalone HTML page with inlined styles.
func (r *Renderer) Render(w io.Writer, doc Document) error {
	if err := r.tmpl.ExecuteTemplate(w, "report.html", r.page(doc)); err != nil {
		return fmt.Errorf("execute report template: %w", err)
	}
	return nil
}

// RenderString renders doc to a string.
func (r *Renderer) RenderString(doc Document) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Renderer) page(doc Document) page {
	f := r.format
	p := page{
		Lang:           f.Lang(),
		CSS:            r.css,
		Branch:         doc.Branch,
		Title:          doc.Title,
		DateLabel:      r.labels.ReportDate,
		Date:           f.Date(doc.Date),
		Headers:        doc.Table.Headers,
		Rows:           make([]pageRow, 0, len(doc.Table.Rows)),
		NoExpenses:     r.labels.NoExpenses,
		Footer:         r.labels.Footer,
		GeneratedLabel: r.labels.GeneratedAt,
		GeneratedAt:    f.Timestamp(doc.GeneratedAt),
	}
	for _, t := range doc.Table.Rows {
		net := core.Coerce(t.Net)
		row := pageRow{
			Date:       t.Date,
			Morning:    f.Cell(t.Morning),
			Evening:    f.Cell(t.Evening),
			Net:        f.Number(net),
			Negative:   core.Sign(net) == core.ToneNegative,
			Deliveries: f.Cell(t.Deliveries),
		}
		for _, e := range t.Expenses {
			amount := core.Coerce(e.Amount)
			if amount.IsZero() {
				continue
			}
			desc := e.Description
			if desc == "" {
				desc = r.labels.NoDescription
			}
			row.Expenses = append(row.Expenses, pageExpense{
				Amount:      f.Number(amount) + " " + r.labels.Currency,
				Description: desc,
			})
		}
		p.Rows = append(p.Rows, row)
	}

	s := doc.Summary
	p.Cards = []summaryCard{
		{Label: r.labels.TotalMorning, Value: f.Number(s.TotalMorning)},
		{Label: r.labels.TotalEvening, Value: f.Number(s.TotalEvening)},
		{Label: r.labels.TotalExpenses, Value: f.Number(s.TotalExpenses)},
		{Label: r.labels.TotalNet, Value: f.Number(s.TotalNet)},
		{Label: r.labels.TotalDeliveries, Value: f.Number(s.TotalDeliveries)},
		{Label: r.labels.GrandTotal, Value: f.Number(s.GrandTotal), Grand: true},
	}
	return p
}

// FileName returns "<title>_<branch>_<date>.<ext>" with path separators replaced.
func FileName(doc Document, ext string) string {
	name := fmt.Sprintf("%s_%s_%s.%s", doc.Title, doc.Branch, doc.Date, ext)
	return strings.NewReplacer("/", "-", `\`, "-").Replace(name)
}
