package pdf

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHTML_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forms/chromium/convert/html", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		if !assert.NoError(t, r.ParseMultipartForm(10<<20)) {
			return
		}
		file, header, err := r.FormFile("files")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "index.html", header.Filename)

		html, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Contains(t, string(html), "تقرير")
		assert.Equal(t, "true", r.FormValue("printBackground"))

		_, _ = w.Write([]byte("MOCK-PDF-CONTENT"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", 5*time.Second)
	out, err := c.RenderHTML(context.Background(), "<h1>تقرير</h1>")
	require.NoError(t, err)
	assert.Equal(t, "MOCK-PDF-CONTENT", string(out))
}

func TestRenderHTML_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	_, err := c.RenderHTML(context.Background(), "<p>x</p>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestRenderHTML_NotConfigured(t *testing.T) {
	var c *Client
	_, err := c.RenderHTML(context.Background(), "<p>x</p>")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient("", time.Second).RenderHTML(context.Background(), "<p>x</p>")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, time.Second).Ping(context.Background()))
}
