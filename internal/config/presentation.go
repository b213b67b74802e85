package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Columns holds the table header labels.
type Columns struct {
	Date       string `toml:"date"`
	Morning    string `toml:"morning"`
	Evening    string `toml:"evening"`
	Expenses   string `toml:"expenses"`
	Net        string `toml:"net"`
	Deliveries string `toml:"deliveries"`
}

// Headers returns the labels in column order.
func (c Columns) Headers() []string {
	return []string{c.Date, c.Morning, c.Evening, c.Expenses, c.Net, c.Deliveries}
}

// Labels holds the fixed wording of rendered reports.
type Labels struct {
	ReportDate      string `toml:"report_date"`
	GeneratedAt     string `toml:"generated_at"`
	Footer          string `toml:"footer"`
	Currency        string `toml:"currency"`
	NoExpenses      string `toml:"no_expenses"`
	NoDescription   string `toml:"no_description"`
	TotalMorning    string `toml:"total_morning"`
	TotalEvening    string `toml:"total_evening"`
	TotalExpenses   string `toml:"total_expenses"`
	TotalNet        string `toml:"total_net"`
	TotalDeliveries string `toml:"total_deliveries"`
	GrandTotal      string `toml:"grand_total"`
}

// Presentation is the contents of the columns file.
type Presentation struct {
	Columns Columns `toml:"columns"`
	Labels  Labels  `toml:"labels"`
}

// DefaultPresentation returns the built-in Arabic wording.
func DefaultPresentation() Presentation {
	return Presentation{
		Columns: Columns{
			Date:       "التاريخ",
			Morning:    "الشيفت الصباحي",
			Evening:    "الشيفت المسائي",
			Expenses:   "المصروفات",
			Net:        "الصافي",
			Deliveries: "التسليمات",
		},
		Labels: Labels{
			ReportDate:      "تاريخ التقرير",
			GeneratedAt:     "تاريخ الإنشاء",
			Footer:          "تم إنشاء هذا التقرير بواسطة نظام تقارير الشيفتات",
			Currency:        "جنيه",
			NoExpenses:      "لا توجد مصروفات",
			NoDescription:   "بدون وصف",
			TotalMorning:    "إجمالي الشيفت الصباحي",
			TotalEvening:    "إجمالي الشيفت المسائي",
			TotalExpenses:   "إجمالي المصروفات",
			TotalNet:        "إجمالي الصافي",
			TotalDeliveries: "إجمالي التسليمات",
			GrandTotal:      "المجموع النهائي",
		},
	}
}

// LoadPresentation reads path over the defaults. Keys missing from the file
// keep their default value. An empty path returns the defaults.
func LoadPresentation(path string) (Presentation, error) {
	p := DefaultPresentation()
	if path == "" {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return DefaultPresentation(), fmt.Errorf("decode columns file %s: %w", path, err)
	}
	return p, nil
}
