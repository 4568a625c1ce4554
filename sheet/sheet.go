// Package sheet hosts cellcalc cells in a rectangular grid.
//
// A Sheet owns its cells and decides which cached values go stale after an
// edit. By default every edit marks every cell dirty, like a spreadsheet with
// automatic recalculation. With dependency tracking, only the cells which
// refer to the edited cell, directly or indirectly, are marked. With neither,
// only the edited cell is recomputed and other cells keep their values until
// Recalculate.
package sheet

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zephyrtronium/cellcalc"
)

// ErrOutOfRange is returned for coordinates outside the sheet.
var ErrOutOfRange = errors.New("cell out of range")

// Option configures a Sheet.
type Option func(*Sheet)

// WithSize sets the number of rows and columns. Each is clamped between 1 and
// the largest coordinate a reference can name.
func WithSize(rows, cols int) Option {
	return func(s *Sheet) {
		s.rows = clamp(rows, cellcalc.MaxRows)
		s.cols = clamp(cols, cellcalc.MaxCols)
	}
}

// WithAutoRecalculate sets whether every edit marks every cell dirty. The
// default is true.
func WithAutoRecalculate(auto bool) Option {
	return func(s *Sheet) {
		s.auto = auto
	}
}

// WithDependencyTracking sets whether the sheet tracks which cells refer to
// which, so that an edit marks only the affected cells dirty.
func WithDependencyTracking(track bool) Option {
	return func(s *Sheet) {
		if track {
			s.graph = newGraph()
		} else {
			s.graph = nil
		}
	}
}

// WithLogger sets the logger for debug records of edits and recalculation.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sheet) {
		s.logger = logger
	}
}

func clamp(n, limit int) int {
	if n < 1 {
		return 1
	}
	if n > limit {
		return limit
	}
	return n
}

// Sheet is a grid of cells. It is safe for concurrent use; one lock
// serializes all access, including evaluation.
type Sheet struct {
	mu     sync.Mutex
	rows   int
	cols   int
	cells  map[cellcalc.Ref]*cellcalc.Cell
	auto   bool
	graph  *graph
	logger *slog.Logger
}

// New creates an empty sheet.
func New(opts ...Option) *Sheet {
	s := &Sheet{
		rows:  cellcalc.MaxRows,
		cols:  cellcalc.MaxCols,
		cells: make(map[cellcalc.Ref]*cellcalc.Cell),
		auto:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Entry is a populated cell.
type Entry struct {
	Ref     cellcalc.Ref
	Formula string
	Value   cellcalc.Value
}

// grid resolves references among a sheet's cells. The sheet's lock must be
// held.
type grid struct {
	s *Sheet
}

func (g grid) Lookup(ref cellcalc.Ref) *cellcalc.Cell {
	if !g.s.contains(ref) {
		return nil
	}
	return g.s.cells[ref]
}

func (s *Sheet) contains(ref cellcalc.Ref) bool {
	return 0 <= ref.Row && ref.Row < s.rows && 0 <= ref.Col && ref.Col < s.cols
}

// Rows returns the number of rows in the sheet.
func (s *Sheet) Rows() int {
	return s.rows
}

// Cols returns the number of columns in the sheet.
func (s *Sheet) Cols() int {
	return s.cols
}

// AutoRecalculate reports whether every edit marks every cell dirty.
func (s *Sheet) AutoRecalculate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.auto
}

// SetAutoRecalculate changes whether every edit marks every cell dirty.
// Turning it on recalculates the sheet.
func (s *Sheet) SetAutoRecalculate(auto bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if auto && !s.auto {
		s.markAll()
	}
	s.auto = auto
}

// TracksDependencies reports whether the sheet tracks references between
// cells.
func (s *Sheet) TracksDependencies() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph != nil
}

// Set changes the content of a cell. Empty content clears it.
func (s *Sheet) Set(ref cellcalc.Ref, formula string) error {
	if !s.contains(ref) {
		return fmt.Errorf("set %v: %w", ref, ErrOutOfRange)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(ref, formula)
	return nil
}

// Clear removes the content of a cell. Clearing a cell outside the sheet does
// nothing.
func (s *Sheet) Clear(ref cellcalc.Ref) {
	if !s.contains(ref) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(ref, "")
}

func (s *Sheet) set(ref cellcalc.Ref, formula string) {
	if formula == "" {
		delete(s.cells, ref)
	} else if c := s.cells[ref]; c != nil {
		c.SetFormula(formula)
	} else {
		s.cells[ref] = cellcalc.NewCell(formula)
	}
	s.logger.Debug("set cell", slog.String("cell", ref.String()), slog.String("formula", formula))
	if s.graph != nil {
		var refs []cellcalc.Ref
		if c := s.cells[ref]; c != nil {
			if x := c.Expr(); x != nil {
				refs = x.Refs()
			}
		}
		s.graph.set(ref, refs)
	}
	s.invalidate(ref)
}

// invalidate marks the cells affected by an edit to ref.
func (s *Sheet) invalidate(ref cellcalc.Ref) {
	switch {
	case s.graph != nil:
		deps := s.graph.allDependents(ref)
		for _, d := range deps {
			if c := s.cells[d]; c != nil {
				c.MarkDirty()
			}
		}
		s.logger.Debug("invalidated dependents", slog.String("cell", ref.String()), slog.Int("count", len(deps)))
	case s.auto:
		s.markAll()
	}
}

func (s *Sheet) markAll() {
	for _, c := range s.cells {
		c.MarkDirty()
	}
}

// Reset removes every cell.
func (s *Sheet) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cells = make(map[cellcalc.Ref]*cellcalc.Cell)
	if s.graph != nil {
		s.graph = newGraph()
	}
	s.logger.Debug("reset sheet")
}

// Recalculate marks every cell dirty and evaluates each of them.
func (s *Sheet) Recalculate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markAll()
	g := grid{s}
	invalid := 0
	for _, c := range s.cells {
		if !c.Value(g).IsValid() {
			invalid++
		}
	}
	s.logger.Debug("recalculated", slog.Int("cells", len(s.cells)), slog.Int("invalid", invalid))
}

// Formula returns the content of a cell, or the empty string if it is empty.
func (s *Sheet) Formula(ref cellcalc.Ref) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c := s.cells[ref]; c != nil {
		return c.Formula()
	}
	return ""
}

// Value returns the value of a cell, evaluating it if needed. ok is false if
// the cell is empty or outside the sheet.
func (s *Sheet) Value(ref cellcalc.Ref) (v cellcalc.Value, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := grid{s}.Lookup(ref)
	if c == nil {
		return cellcalc.Invalid, false
	}
	return c.Value(grid{s}), true
}

// Display returns the displayed text of a cell: the empty string for an empty
// cell and cellcalc.Placeholder for Invalid.
func (s *Sheet) Display(ref cellcalc.Ref) string {
	v, ok := s.Value(ref)
	if !ok {
		return ""
	}
	return v.String()
}

// Evaluate computes the value of content as if it were in a cell of the sheet
// that nothing refers to.
func (s *Sheet) Evaluate(content string) cellcalc.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cellcalc.NewCell(content).Value(grid{s})
}

// Refs returns the populated cells in row-major order.
func (s *Sheet) Refs() []cellcalc.Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs()
}

func (s *Sheet) refs() []cellcalc.Ref {
	r := make([]cellcalc.Ref, 0, len(s.cells))
	for ref := range s.cells {
		r = append(r, ref)
	}
	sortRefs(r)
	return r
}

// Entries returns the populated cells in row-major order with their values.
func (s *Sheet) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := grid{s}
	refs := s.refs()
	e := make([]Entry, len(refs))
	for i, ref := range refs {
		c := s.cells[ref]
		e[i] = Entry{Ref: ref, Formula: c.Formula(), Value: c.Value(g)}
	}
	return e
}

// Dependents returns every cell whose value depends on ref, directly or
// through other cells, in row-major order. It returns nil unless the sheet
// tracks dependencies.
func (s *Sheet) Dependents(ref cellcalc.Ref) []cellcalc.Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return nil
	}
	return s.graph.allDependents(ref)
}

// Precedents returns the cells that ref's formula refers to in row-major
// order. It returns nil unless the sheet tracks dependencies.
func (s *Sheet) Precedents(ref cellcalc.Ref) []cellcalc.Ref {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.graph == nil {
		return nil
	}
	return s.graph.directPrecedents(ref)
}
