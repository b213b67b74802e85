package exporter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shiftreport/internal/amqp"
	"shiftreport/internal/config"
	"shiftreport/internal/core"
	"shiftreport/internal/notice"
	"shiftreport/internal/report"
	"shiftreport/internal/store"
)

type fakeRasterizer struct {
	started chan struct{}
	release chan struct{}
	err     error
	html    string
}

func (f *fakeRasterizer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	f.html = html
	if f.started != nil {
		close(f.started)
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.7"), nil
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []*amqp.ReportExportedMessage
	err  error
}

func (f *fakePublisher) PublishReportExported(_ context.Context, msg *amqp.ReportExportedMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
	return f.err
}

func testRecord() store.BranchRecord {
	return store.BranchRecord{
		Branch: "Main",
		Title:  "Daily",
		Date:   "2026-10-19",
		TableData: core.TableSnapshot{
			Headers: core.DefaultHeaders,
			Rows: []core.RowTuple{{
				Date: "2026-10-19", Morning: "100", Evening: "50",
				Expenses: []core.SnapshotExpense{{Amount: "30", Description: "fuel"}},
				Net:      "120", Deliveries: "5",
			}},
		},
	}
}

func newTestExporter(t *testing.T, pdf Rasterizer, events EventPublisher) *Exporter {
	t.Helper()
	r, err := report.NewRenderer("en", config.DefaultPresentation().Labels)
	require.NoError(t, err)
	return New(Options{
		Renderer:   r,
		PDF:        pdf,
		Events:     events,
		PDFTimeout: time.Second,
		Now:        func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) },
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestNewDocumentSummarizes(t *testing.T) {
	doc := NewDocument(testRecord(), time.Time{})
	assert.Equal(t, "125", doc.Summary.GrandTotal.String())
	assert.Equal(t, "Main", doc.Branch)
}

func TestExportFormats(t *testing.T) {
	pub := &fakePublisher{}
	e := newTestExporter(t, &fakeRasterizer{}, pub)

	tests := []struct {
		format      Format
		contentType string
		fileName    string
		notice      notice.Notice
		body        string
	}{
		{FormatHTML, "text/html; charset=utf-8", "Daily_Main_2026-10-19.html", notice.Preview(), "<h1>Daily</h1>"},
		{FormatCSV, "text/csv; charset=utf-8", "Daily_Main_2026-10-19.csv", notice.Exported(), "Daily - Main"},
		{FormatXLSX, contentTypes[FormatXLSX], "Daily_Main_2026-10-19.xlsx", notice.Exported(), "PK"},
		{FormatPDF, "application/pdf", "Daily_Main_2026-10-19.pdf", notice.PDFCreated(), "%PDF"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			res, err := e.Export(context.Background(), testRecord(), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.contentType, res.ContentType)
			assert.Equal(t, tt.fileName, res.FileName)
			assert.Equal(t, tt.notice, res.Notice)
			assert.True(t, strings.Contains(string(res.Body), tt.body))
		})
	}

	// Previews are not announced.
	require.Len(t, pub.msgs, 3)
	assert.Equal(t, "csv", pub.msgs[0].Format)
	assert.Equal(t, "125", pub.msgs[0].Summary.GrandTotal.String())
}

func TestExportWithoutData(t *testing.T) {
	e := newTestExporter(t, &fakeRasterizer{}, nil)
	rec := testRecord()
	rec.TableData.Rows = nil

	res, err := e.Export(context.Background(), rec, FormatCSV)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, notice.NoData(), res.Notice)
	assert.Empty(t, res.Body)
}

func TestExportPDFFailure(t *testing.T) {
	e := newTestExporter(t, &fakeRasterizer{err: errors.New("chromium crashed")}, nil)

	res, err := e.Export(context.Background(), testRecord(), FormatPDF)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromium crashed")
	assert.Equal(t, notice.PDFFailed(), res.Notice)
	assert.Empty(t, res.Body)

	// The slot is released after a failure.
	e.pdf = &fakeRasterizer{}
	_, err = e.Export(context.Background(), testRecord(), FormatPDF)
	require.NoError(t, err)
}

func TestExportPDFNotReentrant(t *testing.T) {
	slow := &fakeRasterizer{started: make(chan struct{}), release: make(chan struct{})}
	e := newTestExporter(t, slow, nil)

	done := make(chan error, 1)
	go func() {
		_, err := e.Export(context.Background(), testRecord(), FormatPDF)
		done <- err
	}()
	<-slow.started

	res, err := e.Export(context.Background(), testRecord(), FormatPDF)
	assert.ErrorIs(t, err, ErrExportInProgress)
	assert.Equal(t, notice.PDFInProgress(), res.Notice)

	// Other formats are not blocked by a running PDF export.
	_, err = e.Export(context.Background(), testRecord(), FormatCSV)
	assert.NoError(t, err)

	close(slow.release)
	require.NoError(t, <-done)
	assert.Contains(t, slow.html, "<h1>Daily</h1>")
}

func TestExportPublishFailureIsIgnored(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	e := newTestExporter(t, nil, pub)

	res, err := e.Export(context.Background(), testRecord(), FormatCSV)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Body)
	assert.Len(t, pub.msgs, 1)
}

func TestExportPDFWithoutRasterizer(t *testing.T) {
	e := newTestExporter(t, nil, nil)
	res, err := e.Export(context.Background(), testRecord(), FormatPDF)
	require.Error(t, err)
	assert.Equal(t, notice.PDFFailed(), res.Notice)
}
