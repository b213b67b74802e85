package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"shiftreport/internal/core"
)

var arabicMonths = [12]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// Formatter renders numbers and dates for one locale.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	arabic  bool
}

// NewFormatter builds a formatter for a BCP 47 locale such as "ar-EG".
// Unparseable locales fall back to Egyptian Arabic.
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("ar-EG")
	}
	base, _ := tag.Base()
	return Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		arabic:  base.String() == "ar",
	}
}

// Lang returns the locale's language subtag.
func (f Formatter) Lang() string {
	base, _ := f.tag.Base()
	return base.String()
}

// Number formats d with locale digits and grouping, and at most two fraction digits.
func (f Formatter) Number(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))
}

// Cell coerces a stored cell and formats it.
func (f Formatter) Cell(s string) string {
	return f.Number(core.Coerce(s))
}

// Date formats an ISO date in long form. Invalid input is returned unchanged.
func (f Formatter) Date(iso string) string {
	t, err := time.Parse(core.DateLayout, iso)
	if err != nil {
		return iso
	}
	return f.longDate(t)
}

// Timestamp formats a date and a 24 hour clock time.
func (f Formatter) Timestamp(t time.Time) string {
	clock := fmt.Sprintf("%s:%s",
		f.printer.Sprint(number.Decimal(t.Hour(), number.MinIntegerDigits(2))),
		f.printer.Sprint(number.Decimal(t.Minute(), number.MinIntegerDigits(2))))
	return f.longDate(t) + " - " + clock
}

func (f Formatter) longDate(t time.Time) string {
	if !f.arabic {
		return t.Format("January 2, 2006")
	}
	return fmt.Sprintf("%s %s %s",
		f.printer.Sprint(number.Decimal(t.Day())),
		arabicMonths[t.Month()-1],
		f.printer.Sprint(number.Decimal(t.Year(), number.NoSeparator())))
}
