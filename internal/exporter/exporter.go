// Package exporter produces downloadable reports from a branch record.
package exporter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"shiftreport/internal/amqp"
	"shiftreport/internal/core"
	"shiftreport/internal/log"
	"shiftreport/internal/metrics"
	"shiftreport/internal/notice"
	"shiftreport/internal/report"
	"shiftreport/internal/store"
)

// Format is an output format.
type Format string

const (
	FormatHTML Format = "html"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var (
	ErrNoData           = errors.New("report has no data")
	ErrExportInProgress = errors.New("pdf export already in progress")
	ErrUnknownFormat    = errors.New("unknown export format")
)

var contentTypes = map[Format]string{
	FormatHTML: "text/html; charset=utf-8",
	FormatCSV:  "text/csv; charset=utf-8",
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatPDF:  "application/pdf",
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := contentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
	return f, nil
}

// Rasterizer turns report HTML into PDF bytes.
type Rasterizer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// EventPublisher announces finished exports.
type EventPublisher interface {
	PublishReportExported(ctx context.Context, msg *amqp.ReportExportedMessage) error
}

// Result is a finished export. Body is complete before it is returned.
type Result struct {
	Body        []byte
	ContentType string
	FileName    string
	Notice      notice.Notice
}

type Options struct {
	Renderer   *report.Renderer
	PDF        Rasterizer
	Events     EventPublisher
	PDFTimeout time.Duration
	Now        func() time.Time
	Logger     *log.Logger
}

// Exporter renders reports. At most one PDF export runs at a time.
type Exporter struct {
	renderer *report.Renderer
	pdf      Rasterizer
	events   EventPublisher
	pdfSlot  *semaphore.Weighted
	timeout  time.Duration
	now      func() time.Time
	logger   *log.Logger
}

func New(opts Options) *Exporter {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.PDFTimeout <= 0 {
		opts.PDFTimeout = 30 * time.Second
	}
	return &Exporter{
		renderer: opts.Renderer,
		pdf:      opts.PDF,
		events:   opts.Events,
		pdfSlot:  semaphore.NewWeighted(1),
		timeout:  opts.PDFTimeout,
		now:      opts.Now,
		logger:   opts.Logger.WithComponent(log.ComponentExport),
	}
}

// NewDocument builds the printable document for a branch record.
func NewDocument(rec store.BranchRecord, generatedAt time.Time) report.Document {
	return report.Document{
		Branch:      rec.Branch,
		Title:       rec.Title,
		Date:        rec.Date,
		Table:       rec.TableData,
		Summary:     core.Summarize(rec.TableData),
		GeneratedAt: generatedAt,
	}
}

// Export renders rec in format. Errors come with the notice to show the user.
func (e *Exporter) Export(ctx context.Context, rec store.BranchRecord, format Format) (Result, error) {
	start := time.Now()
	res, err := e.export(ctx, rec, format)

	result := "ok"
	switch {
	case errors.Is(err, ErrNoData):
		result = "no_data"
	case errors.Is(err, ErrExportInProgress):
		result = "busy"
	case err != nil:
		result = "error"
	}
	metrics.Exports.WithLabelValues(string(format), result).Inc()
	metrics.ExportDuration.WithLabelValues(string(format)).Observe(time.Since(start).Seconds())

	fields := log.NewFields().WithOperation(log.OpExport).WithBranch(rec.Branch, "").WithError(err)
	fields[log.FieldFormat] = string(format)
	if err != nil {
		e.logger.WarnContext(ctx, "Export not produced", fields.ToSlice()...)
		return res, err
	}
	fields[log.FieldBytes] = len(res.Body)
	e.logger.InfoContext(ctx, "Export produced", fields.ToSlice()...)

	if format != FormatHTML {
		e.publish(ctx, rec, format, res)
	}
	return res, nil
}

func (e *Exporter) export(ctx context.Context, rec store.BranchRecord, format Format) (Result, error) {
	contentType, ok := contentTypes[format]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	doc := NewDocument(rec, e.now())
	if !doc.Table.HasData() {
		return Result{Notice: notice.NoData()}, ErrNoData
	}

	res := Result{
		ContentType: contentType,
		FileName:    report.FileName(doc, string(format)),
	}
	var buf bytes.Buffer
	switch format {
	case FormatHTML:
		if err := e.renderer.Render(&buf, doc); err != nil {
			return Result{}, fmt.Errorf("render preview: %w", err)
		}
		res.Notice = notice.Preview()
	case FormatCSV:
		if err := e.renderer.WriteCSV(&buf, doc); err != nil {
			return Result{}, fmt.Errorf("write csv: %w", err)
		}
		res.Notice = notice.Exported()
	case FormatXLSX:
		if err := e.renderer.WriteXLSX(&buf, doc); err != nil {
			return Result{}, fmt.Errorf("write xlsx: %w", err)
		}
		res.Notice = notice.Exported()
	case FormatPDF:
		body, err := e.exportPDF(ctx, doc)
		if err != nil {
			n := notice.PDFFailed()
			if errors.Is(err, ErrExportInProgress) {
				n = notice.PDFInProgress()
			}
			return Result{Notice: n}, err
		}
		buf.Write(body)
		res.Notice = notice.PDFCreated()
	}
	res.Body = buf.Bytes()
	return res, nil
}

func (e *Exporter) exportPDF(ctx context.Context, doc report.Document) ([]byte, error) {
	if !e.pdfSlot.TryAcquire(1) {
		return nil, ErrExportInProgress
	}
	defer e.pdfSlot.Release(1)

	if e.pdf == nil {
		return nil, fmt.Errorf("render pdf: no rasterizer configured")
	}

	html, err := e.renderer.RenderString(doc)
	if err != nil {
		return nil, fmt.Errorf("render pdf source: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := e.pdf.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return body, nil
}

func (e *Exporter) publish(ctx context.Context, rec store.BranchRecord, format Format, res Result) {
	if e.events == nil {
		return
	}
	msg := amqp.NewReportExportedMessage(rec.Branch, rec.Title, rec.Date, string(format), res.FileName,
		len(rec.TableData.Rows), core.Summarize(rec.TableData))
	if err := e.events.PublishReportExported(ctx, msg); err != nil {
		e.logger.WarnContext(ctx, "Failed to publish export event",
			log.NewFields().WithOperation(log.OpPublish).WithBranch(rec.Branch, "").WithError(err).ToSlice()...)
	}
}
