package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shiftreport/internal/config"
	"shiftreport/internal/core"
)

func testDocument() Document {
	snap := core.TableSnapshot{
		Headers: core.DefaultHeaders,
		Rows: []core.RowTuple{
			{
				Date: "2026-10-19", Morning: "1234.5", Evening: "50",
				Expenses: []core.SnapshotExpense{
					{Amount: "30", Description: `fuel "95"`},
					{Amount: "0", Description: "tip"},
				},
				Net: "1254.5", Deliveries: "5",
			},
			{Date: "2026-10-20", Morning: "0", Evening: "0", Net: "-10", Deliveries: "0",
				Expenses: []core.SnapshotExpense{{Amount: "10"}}},
		},
	}
	return Document{
		Branch:      "Main",
		Title:       "Daily",
		Date:        "2026-10-19",
		Table:       snap,
		Summary:     core.Summarize(snap),
		GeneratedAt: time.Date(2026, 10, 19, 9, 5, 0, 0, time.UTC),
	}
}

func newTestRenderer(t *testing.T, locale string) *Renderer {
	t.Helper()
	r, err := NewRenderer(locale, config.DefaultPresentation().Labels)
	require.NoError(t, err)
	return r
}

func TestFormatterEnglish(t *testing.T) {
	f := NewFormatter("en")
	assert.Equal(t, "1,234.5", f.Number(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.33", f.Number(decimal.RequireFromString("0.333")))
	assert.Equal(t, "-10", f.Cell("-10"))
	assert.Equal(t, "0", f.Cell("abc"))
	assert.Equal(t, "October 19, 2026", f.Date("2026-10-19"))
	assert.Equal(t, "garbage", f.Date("garbage"))
	assert.Equal(t, "October 19, 2026 - 09:05", f.Timestamp(time.Date(2026, 10, 19, 9, 5, 0, 0, time.UTC)))
}

func TestFormatterArabic(t *testing.T) {
	f := NewFormatter("ar-EG")
	assert.Equal(t, "ar", f.Lang())
	assert.Contains(t, f.Date("2026-10-19"), "أكتوبر")
	assert.Contains(t, f.Date("2026-01-05"), "يناير")

	fallback := NewFormatter("???")
	assert.Equal(t, "ar", fallback.Lang())
}

func TestRenderHTML(t *testing.T) {
	r := newTestRenderer(t, "en")
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, testDocument()))

	html := buf.String()
	assert.Contains(t, html, "<h1>Daily</h1>")
	assert.Contains(t, html, "Main")
	assert.Contains(t, html, "October 19, 2026")
	assert.Contains(t, html, "1,234.5")
	assert.Contains(t, html, "30 جنيه")
	assert.Contains(t, html, "fuel &#34;95&#34;")
	assert.NotContains(t, html, "tip", "zero amount expenses are not listed")
	assert.Contains(t, html, `class="net negative"`)
	assert.Contains(t, html, "المجموع النهائي")
	assert.Contains(t, html, "تم إنشاء هذا التقرير")
	assert.Contains(t, html, "October 19, 2026 - 09:05")
	assert.Contains(t, html, ".summary-card")
}

func TestRenderHTMLWithoutExpenses(t *testing.T) {
	r := newTestRenderer(t, "en")
	doc := testDocument()
	doc.Table.Rows = doc.Table.Rows[:1]
	doc.Table.Rows[0].Expenses = nil

	html, err := r.RenderString(doc)
	require.NoError(t, err)
	assert.Contains(t, html, "لا توجد مصروفات")
}

func TestRenderEscapesInput(t *testing.T) {
	r := newTestRenderer(t, "en")
	doc := testDocument()
	doc.Title = "<script>alert(1)</script>"

	html, err := r.RenderString(doc)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}

func TestWriteCSV(t *testing.T) {
	r := newTestRenderer(t, "en")
	var buf bytes.Buffer
	require.NoError(t, r.WriteCSV(&buf, testDocument()))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\uFEFF"))
	lines := strings.Split(strings.TrimPrefix(out, "\uFEFF"), "\n")

	assert.Equal(t, "Daily - Main", lines[0])
	assert.Equal(t, "تاريخ التقرير: October 19, 2026", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, strings.Join(core.DefaultHeaders, ","), lines[3])
	assert.Equal(t, `2026-10-19,1234.5,50,"30:fuel ""95"";0:tip",1254.5,5`, lines[4])
	assert.Equal(t, `2026-10-20,0,0,"10:",-10,0`, lines[5])
}

func TestWriteCSVEmptyExpenses(t *testing.T) {
	assert.Equal(t, `""`, expensesCell(nil))
}

func TestWriteXLSX(t *testing.T) {
	r := newTestRenderer(t, "en")
	var buf bytes.Buffer
	require.NoError(t, r.WriteXLSX(&buf, testDocument()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(SheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Daily - Main", title)

	header, _ := f.GetCellValue(SheetName, "B4")
	assert.Equal(t, "الشيفت الصباحي", header)

	morning, _ := f.GetCellValue(SheetName, "B5")
	assert.Equal(t, "1234.5", morning)

	expenses, _ := f.GetCellValue(SheetName, "D5")
	assert.Equal(t, "30:fuel \"95\"\n0:tip", expenses)

	grandLabel, _ := f.GetCellValue(SheetName, "A13")
	assert.Equal(t, "المجموع النهائي", grandLabel)
}

func TestFileName(t *testing.T) {
	doc := testDocument()
	assert.Equal(t, "Daily_Main_2026-10-19.pdf", FileName(doc, "pdf"))

	doc.Branch = "a/b"
	assert.Equal(t, "Daily_a-b_2026-10-19.csv", FileName(doc, "csv"))
}
