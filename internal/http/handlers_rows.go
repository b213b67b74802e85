package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"shiftreport/internal/core"
)

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	id := s.session.AddRow(r.Context())
	NewResponse().Status(http.StatusCreated).ID(id).State(s.session.View()).Write(w)
}

func (s *Server) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	if err := s.session.RemoveRow(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w, nil)
}

func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	rowID, ok := s.rowRef(w, r)
	if !ok {
		return
	}
	var req FieldRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := s.session.SetField(r.Context(), rowID, core.Field(req.Field), sanitizeInput(req.Value)); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w, nil)
}

// rowRef resolves the rowID route parameter, which is either a row id or a
// zero-based position in table order. It answers 400 or 404 itself on failure.
func (s *Server) rowRef(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := parseID(r, "rowID")
	if err == nil {
		return id, true
	}
	i, convErr := strconv.Atoi(chi.URLParam(r, "rowID"))
	if convErr != nil {
		BadRequestError(err.Error()).Write(w)
		return uuid.Nil, false
	}
	id, err = s.session.RowIDAt(i)
	if err != nil {
		s.writeError(w, r, err)
		return uuid.Nil, false
	}
	return id, true
}
