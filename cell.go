package cellcalc

// Grid locates cells for reference resolution.
type Grid interface {
	// Lookup returns the cell at ref, or nil if the cell is absent, empty,
	// or outside the grid.
	Lookup(ref Ref) *Cell
}

// Cell holds the content of one grid cell and caches its value. A cell
// computes its value lazily: changing its content only marks it dirty, and
// the next call to Value evaluates it.
//
// There is no dependency tracking. When a cell changes, cells which refer to
// it keep their cached values until they are marked dirty; hosts either call
// MarkDirty on every cell after each edit or track dependencies themselves.
//
// A Cell is not safe for concurrent use. Evaluating one cell can evaluate any
// cell it refers to, so hosts must serialize access to all cells of a grid.
type Cell struct {
	formula string
	// expr is the parsed formula body, if formula is a formula and has been
	// parsed since it last changed.
	expr  *Expr
	value Value
	dirty bool
	// busy is set while the cell is being evaluated. A reference that reaches
	// a busy cell is a cycle.
	busy bool
	// evals counts evaluations.
	evals int
}

// NewCell creates a cell with the given content. Its value is computed on
// first use.
func NewCell(formula string) *Cell {
	return &Cell{formula: formula, dirty: true}
}

// Formula returns the cell's content as entered.
func (c *Cell) Formula() string {
	return c.formula
}

// SetFormula changes the cell's content and marks it dirty.
func (c *Cell) SetFormula(formula string) {
	c.formula = formula
	c.expr = nil
	c.dirty = true
}

// MarkDirty forces the next call to Value to recompute the cell without
// changing its content.
func (c *Cell) MarkDirty() {
	c.dirty = true
}

// Dirty reports whether the cell's cached value is stale.
func (c *Cell) Dirty() bool {
	return c.dirty
}

// Empty reports whether the cell has no content. Grids treat empty cells as
// absent.
func (c *Cell) Empty() bool {
	return c.formula == ""
}

// Expr returns the parsed expression of a formula cell, or nil if the cell's
// content is not a formula.
func (c *Cell) Expr() *Expr {
	if Classify(c.formula) != FormFormula {
		return nil
	}
	if c.expr == nil {
		c.expr = Parse(c.formula[1:])
	}
	return c.expr
}

// Value returns the cell's value, evaluating it first if it is dirty.
// References resolve through g; a nil g resolves every reference as absent.
//
// A reference back to a cell which is already being evaluated is a cycle. It
// resolves to Invalid, which makes every cell on the cycle Invalid.
func (c *Cell) Value(g Grid) Value {
	if !c.dirty {
		return c.value
	}
	if c.busy {
		return Invalid
	}
	c.busy = true
	defer func() { c.busy = false }()
	var v Value
	if x := c.Expr(); x != nil {
		v = x.Eval(gridResolver{g})
	} else {
		v = Evaluate(c.formula, nil)
	}
	c.value = v
	c.dirty = false
	c.evals++
	return v
}

// gridResolver resolves references through a Grid.
type gridResolver struct {
	g Grid
}

func (r gridResolver) Resolve(ref Ref) (Value, bool) {
	if r.g == nil {
		return Invalid, false
	}
	c := r.g.Lookup(ref)
	if c == nil {
		return Invalid, false
	}
	return c.Value(r.g), true
}
