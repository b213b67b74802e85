package http

import (
	"mime"
	"net/url"
	"strings"
)

// sanitizeInput removes control characters other than tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// contentDisposition builds a header value that keeps non-ASCII file names intact.
func contentDisposition(kind, fileName string) string {
	if v := mime.FormatMediaType(kind, map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return kind + "; filename*=UTF-8''" + url.PathEscape(fileName)
}
