package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"shiftreport/internal/exporter"
	"shiftreport/internal/log"
)

// handleExport serves a preview or a download of the active branch. The
// body is complete before anything is written, so a failed export never
// produces a partial file.
func (s *Server) handleExport(format exporter.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		res, err := s.exporter.Export(ctx, s.session.Record(), format)
		if err != nil {
			switch {
			case errors.Is(err, exporter.ErrNoData), errors.Is(err, exporter.ErrExportInProgress):
				ConflictNotice(res.Notice).Write(w)
			default:
				log.FromContext(ctx).ErrorContext(ctx, "Export failed",
					log.FieldFormat, string(format), log.FieldError, err)
				b := ErrorResponse(http.StatusBadGateway, "export failed")
				if res.Notice.Message != "" {
					b.Notice(res.Notice)
				}
				b.Write(w)
			}
			return
		}

		disposition := "attachment"
		if format == exporter.FormatHTML {
			disposition = "inline"
		}
		h := w.Header()
		h.Set("Content-Type", res.ContentType)
		h.Set("Content-Length", strconv.Itoa(len(res.Body)))
		h.Set("Content-Disposition", contentDisposition(disposition, res.FileName))
		h.Set("Cache-Control", "no-store")
		h.Set("X-Notice-Type", string(res.Notice.Level))
		h.Set("X-Notice", url.QueryEscape(res.Notice.Message))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Body)
	}
}
