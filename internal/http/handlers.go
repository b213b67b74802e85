package http

import (
	"errors"
	"net/http"

	"shiftreport/internal/core"
	"shiftreport/internal/log"
	"shiftreport/internal/notice"
	"shiftreport/internal/session"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	NewResponse().State(s.session.View()).Write(w)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum := s.session.Summary()
	body := struct {
		core.Summary
		NetDivergence string `json:"netDivergence,omitempty"`
	}{Summary: sum}
	if diff, ok := sum.NetDivergence(); ok {
		body.NetDivergence = diff.String()
	}
	NewResponse().JSON(body).Write(w)
}

func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if !s.decode(w, r, &req) {
		return
	}
	ctx := r.Context()
	if req.Title != nil {
		s.session.SetTitle(ctx, sanitizeInput(*req.Title))
	}
	if req.Date != nil {
		s.session.SetDate(ctx, sanitizeInput(*req.Date))
	}
	s.writeState(w, nil)
}

func (s *Server) handleSwitchBranch(w http.ResponseWriter, r *http.Request) {
	var req BranchRequest
	if !s.decode(w, r, &req) {
		return
	}
	branch := sanitizeInput(req.Branch)
	if branch == "" {
		UnprocessableEntityError("branch is required").Write(w)
		return
	}
	n := s.session.SwitchBranch(r.Context(), branch)
	s.writeState(w, &n)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	n := s.session.Clear(r.Context())
	s.writeState(w, &n)
}

// decode reads a request body, answering 400 or 422 itself on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := s.decoder.Decode(r, dst)
	if err == nil {
		return true
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		UnprocessableEntityError("invalid request").FieldErrors(verr.Fields).Write(w)
		return false
	}
	BadRequestError(err.Error()).Write(w)
	return false
}

func (s *Server) writeState(w http.ResponseWriter, n *notice.Notice) {
	b := NewResponse().State(s.session.View())
	if n != nil {
		b.Notice(*n)
	}
	b.Write(w)
}

// writeError maps session and row model errors to responses. Guard
// rejections are not failures: they carry a warning notice and the
// unchanged state.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if n, ok := session.GuardNotice(err); ok {
		ConflictNotice(n).State(s.session.View()).Write(w)
		return
	}
	switch {
	case errors.Is(err, core.ErrRowNotFound), errors.Is(err, core.ErrExpenseNotFound):
		NotFoundError(err.Error()).Write(w)
	case errors.Is(err, core.ErrUnknownField), errors.Is(err, core.ErrReadOnlyField):
		UnprocessableEntityError(err.Error()).Write(w)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err)
		InternalServerError("internal error").Write(w)
	}
}
