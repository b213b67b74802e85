package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shiftreport/internal/exporter"
	"shiftreport/internal/log"
	"shiftreport/internal/session"
	appweb "shiftreport/web"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Session  *session.Session
	Exporter *exporter.Exporter
	// Ready checks the storage backend; nil means always ready.
	Ready      func(ctx context.Context) error
	Logger     *log.Logger
	Production bool
	// MutationsPerMinute limits state changing requests per client; <= 0 uses 120.
	MutationsPerMinute int
}

type Server struct {
	http.Server
	session   *session.Session
	exporter  *exporter.Exporter
	ready     func(ctx context.Context) error
	decoder   *RequestDecoder
	templates *template.Template
	logger    *log.Logger
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.MutationsPerMinute <= 0 {
		deps.MutationsPerMinute = 120
	}

	s := &Server{
		Server: http.Server{
			Addr:           addr,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   60 * time.Second,
			IdleTimeout:    60 * time.Second,
			MaxHeaderBytes: 1 << 16,
		},
		session:  deps.Session,
		exporter: deps.Exporter,
		ready:    deps.Ready,
		decoder:  NewRequestDecoder(),
		logger:   deps.Logger.WithComponent(log.ComponentHTTP),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/index.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	s.Handler = s.routes(deps)
	return s
}

func (s *Server) routes(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(flagSuspicious)
	r.Use(secureHeaders(deps.Production))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.Handle("/static/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Get("/summary", s.handleSummary)

		r.Group(func(r chi.Router) {
			r.Use(rateLimiter(deps.MutationsPerMinute, time.Minute))

			r.Put("/report", s.handleUpdateReport)
			r.Post("/branch", s.handleSwitchBranch)
			r.Post("/clear", s.handleClear)

			r.Post("/rows", s.handleAddRow)
			r.Delete("/rows/last", s.handleRemoveRow)
			r.Patch("/rows/{rowID}", s.handleSetField)

			r.Post("/rows/{rowID}/expenses", s.handleAddExpense)
			r.Patch("/rows/{rowID}/expenses/{expenseID}", s.handleSetExpense)
			r.Delete("/rows/{rowID}/expenses/{expenseID}", s.handleRemoveExpense)
		})
	})

	r.Route("/report", func(r chi.Router) {
		r.Use(rateLimiter(deps.MutationsPerMinute, time.Minute))
		r.Get("/preview", s.handleExport(exporter.FormatHTML))
		r.Get("/export.csv", s.handleExport(exporter.FormatCSV))
		r.Get("/export.xlsx", s.handleExport(exporter.FormatXLSX))
		r.Get("/export.pdf", s.handleExport(exporter.FormatPDF))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("not found").Write(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").Write(w)
	})
	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", s.session.View()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err, "template", "index.html")
	}
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.InfoContext(ctx, "HTTP server shutting down", log.FieldOperation, log.OpShutdown)
	return s.Server.Shutdown(ctx)
}
