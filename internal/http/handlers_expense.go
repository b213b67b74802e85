package http

import (
	"net/http"

	"github.com/google/uuid"

	"shiftreport/internal/core"
)

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	rowID, ok := s.rowRef(w, r)
	if !ok {
		return
	}
	id, err := s.session.AddExpense(r.Context(), rowID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	NewResponse().Status(http.StatusCreated).ID(id).State(s.session.View()).Write(w)
}

func (s *Server) handleSetExpense(w http.ResponseWriter, r *http.Request) {
	rowID, expenseID, ok := s.expenseRoute(w, r)
	if !ok {
		return
	}
	var req ExpenseRequest
	if !s.decode(w, r, &req) {
		return
	}
	err := s.session.SetExpense(r.Context(), rowID, expenseID, core.ExpenseField(req.Field), sanitizeInput(req.Value))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w, nil)
}

func (s *Server) handleRemoveExpense(w http.ResponseWriter, r *http.Request) {
	rowID, expenseID, ok := s.expenseRoute(w, r)
	if !ok {
		return
	}
	if err := s.session.RemoveExpense(r.Context(), rowID, expenseID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeState(w, nil)
}

func (s *Server) expenseRoute(w http.ResponseWriter, r *http.Request) (rowID, expenseID uuid.UUID, ok bool) {
	expenseID, err := parseID(r, "expenseID")
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return uuid.Nil, uuid.Nil, false
	}
	rowID, ok = s.rowRef(w, r)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return rowID, expenseID, true
}
