// Package session owns the live report: the active branch, its title and
// date, and the authoritative row model. Every mutation is followed by a save
// of the active branch.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"shiftreport/internal/core"
	"shiftreport/internal/log"
	"shiftreport/internal/metrics"
	"shiftreport/internal/notice"
	"shiftreport/internal/store"
)

// Options configures a Session.
type Options struct {
	Store         *store.Store
	Headers       []string
	DefaultBranch string
	DefaultTitle  string
	Now           func() time.Time
	Logger        *log.Logger
}

// Session is the single editing context. Its methods are safe for concurrent
// use and apply one at a time.
type Session struct {
	mu sync.Mutex

	store        *store.Store
	headers      []string
	defaultTitle string
	now          func() time.Time
	logger       *log.Logger

	branch string
	title  string
	date   string
	table  *core.Table
}

// Open restores the last used branch, or opts.DefaultBranch when none was
// recorded, and loads or bootstraps its data.
func Open(ctx context.Context, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	s := &Session{
		store:        opts.Store,
		headers:      opts.Headers,
		defaultTitle: opts.DefaultTitle,
		now:          opts.Now,
		logger:       opts.Logger.WithComponent(log.ComponentSession),
	}

	branch := opts.DefaultBranch
	if last := s.store.Meta(ctx).LastBranch; last != "" {
		branch = last
	}
	s.branch = branch
	restored := s.loadActive(ctx)

	s.logger.InfoContext(ctx, "Session opened",
		log.FieldBranch, branch,
		"restored", restored,
		log.FieldRows, len(s.table.Rows))
	return s
}

// SwitchBranch saves the outgoing branch, then loads the incoming one or
// starts it from an empty baseline.
func (s *Session) SwitchBranch(ctx context.Context, branch string) notice.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.branch
	s.persist(ctx)

	s.branch = branch
	if err := s.store.SetLastBranch(ctx, branch); err != nil {
		s.logger.WarnContext(ctx, "Failed to record last branch",
			log.NewFields().WithOperation(log.OpSwitch).WithBranch(branch, "").WithError(err).ToSlice()...)
	}

	restored := s.loadActive(ctx)
	metrics.BranchSwitches.WithLabelValues(boolLabel(restored)).Inc()

	s.logger.InfoContext(ctx, "Branch switched",
		log.FieldOperation, log.OpSwitch,
		"from", previous,
		log.FieldBranch, branch,
		"restored", restored)
	return notice.BranchLoaded(branch)
}

// loadActive replaces the live state with the active branch's record, or with
// a persisted baseline when there is none. The caller holds mu.
func (s *Session) loadActive(ctx context.Context) bool {
	today := s.today()
	rec, ok := s.store.Load(ctx, s.branch)
	if ok {
		s.table = core.Deserialize(rec.TableData, s.headers, today)
		s.title = rec.Title
		s.date = core.NormalizeDate(rec.Date, today)
	} else {
		s.table = core.NewTable(s.headers, today)
		s.title = s.defaultTitle
		s.date = today
	}
	s.table.Recalculate()
	if !ok {
		s.persist(ctx)
	}
	return ok
}

// Branch returns the active branch.
func (s *Session) Branch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branch
}

// SetTitle replaces the report title.
func (s *Session) SetTitle(ctx context.Context, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = title
	s.persist(ctx)
}

// SetDate replaces the report date. Unparseable dates become today.
func (s *Session) SetDate(ctx context.Context, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.date = core.NormalizeDate(date, s.today())
	s.persist(ctx)
}

// AddRow appends a default row and returns its id.
func (s *Session) AddRow(ctx context.Context) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.table.AddRow(s.today())
	s.persist(ctx)
	return r.ID
}

// RemoveRow removes the last row. It fails with core.ErrLastRow when only
// one row is left.
func (s *Session) RemoveRow(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.table.RemoveLastRow(); err != nil {
		return s.rejected(ctx, err)
	}
	s.persist(ctx)
	return nil
}

// RowIDAt returns the id of the row at position i in table order.
func (s *Session) RowIDAt(i int) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.table.RowAt(i)
	if err != nil {
		return uuid.Nil, err
	}
	return r.ID, nil
}

// SetField writes one editable cell of a row.
func (s *Session) SetField(ctx context.Context, rowID uuid.UUID, field core.Field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.table.Row(rowID)
	if err != nil {
		return err
	}
	if err := r.SetField(field, value, s.today()); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Cell updated",
		log.FieldOperation, log.OpSetField,
		log.FieldBranch, s.branch,
		"field", string(field),
		"net", r.Net.String())
	s.persist(ctx)
	return nil
}

// AddExpense appends a blank expense to a row and returns its id.
func (s *Session) AddExpense(ctx context.Context, rowID uuid.UUID) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.table.Row(rowID)
	if err != nil {
		return uuid.Nil, err
	}
	e := r.AddExpense()
	s.persist(ctx)
	return e.ID, nil
}

// SetExpense writes the amount or description of one expense.
func (s *Session) SetExpense(ctx context.Context, rowID, expenseID uuid.UUID, field core.ExpenseField, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.table.Row(rowID)
	if err != nil {
		return err
	}
	if err := r.SetExpense(expenseID, field, value); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "Expense updated",
		log.FieldOperation, log.OpSetField,
		log.FieldBranch, s.branch,
		"field", "expense_"+string(field),
		"net", r.Net.String())
	s.persist(ctx)
	return nil
}

// RemoveExpense deletes an expense. It fails with core.ErrLastExpense when
// it is the row's only entry.
func (s *Session) RemoveExpense(ctx context.Context, rowID, expenseID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, err := s.table.Row(rowID)
	if err != nil {
		return err
	}
	if err := r.RemoveExpense(expenseID); err != nil {
		return s.rejected(ctx, err)
	}
	s.persist(ctx)
	return nil
}

// Clear resets the table to a single default row.
func (s *Session) Clear(ctx context.Context) notice.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table.Clear(s.today())
	s.persist(ctx)
	return notice.Cleared()
}

// Snapshot returns the serialized table.
func (s *Session) Snapshot() core.TableSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.Serialize(s.table)
}

// Summary totals the current table.
func (s *Session) Summary() core.Summary {
	return core.Summarize(s.Snapshot())
}

// Record returns the active branch in its persisted form.
func (s *Session) Record() store.BranchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record()
}

// Save writes the active branch now.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(ctx, s.record())
}

// Close saves the active branch and releases the store.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saveErr := s.store.Save(ctx, s.record())
	return errors.Join(saveErr, s.store.Close())
}

func (s *Session) record() store.BranchRecord {
	return store.BranchRecord{
		Branch:    s.branch,
		Title:     s.title,
		Date:      s.date,
		TableData: core.Serialize(s.table),
	}
}

// persist saves the active branch. Failures are logged; the live table keeps
// the edit either way.
func (s *Session) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.record()); err != nil {
		s.logger.WarnContext(ctx, "Failed to save branch",
			log.NewFields().
				WithOperation(log.OpSave).
				WithBranch(s.branch, s.store.Keyspace().KeyFor(s.branch)).
				WithError(err).
				ToSlice()...)
	}
}

func (s *Session) rejected(ctx context.Context, err error) error {
	if n, ok := GuardNotice(err); ok {
		metrics.GuardRejections.WithLabelValues(guardLabel(err)).Inc()
		s.logger.DebugContext(ctx, "Removal refused", log.FieldError, n.Message)
	}
	return err
}

func (s *Session) today() string {
	return core.Today(s.now())
}

// GuardNotice maps a refused removal to its warning notice.
func GuardNotice(err error) (notice.Notice, bool) {
	switch {
	case errors.Is(err, core.ErrLastRow):
		return notice.LastRow(), true
	case errors.Is(err, core.ErrLastExpense):
		return notice.LastExpense(), true
	}
	return notice.Notice{}, false
}

func guardLabel(err error) string {
	if errors.Is(err, core.ErrLastRow) {
		return "last_row"
	}
	return "last_expense"
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
