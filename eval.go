package cellcalc

import "strings"

// Resolver resolves cell references during evaluation.
type Resolver interface {
	// Resolve returns the value of the cell at ref. ok is false if the cell
	// is absent or empty, or if ref is outside the grid.
	Resolve(ref Ref) (v Value, ok bool)
}

// ResolverFunc is a function that implements Resolver.
type ResolverFunc func(ref Ref) (Value, bool)

// Resolve calls f(ref).
func (f ResolverFunc) Resolve(ref Ref) (Value, bool) {
	return f(ref)
}

// Form is the lexical form of cell content.
type Form int8

const (
	// FormPlain is content with no marker: a number if it parses as one,
	// otherwise text.
	FormPlain Form = iota
	// FormLiteral is content beginning with a single quote. The rest is
	// text, verbatim.
	FormLiteral
	// FormFormula is content beginning with '='. The rest is an expression.
	FormFormula
)

// Classify returns the lexical form of cell content.
func Classify(content string) Form {
	switch {
	case strings.HasPrefix(content, "'"):
		return FormLiteral
	case strings.HasPrefix(content, "="):
		return FormFormula
	default:
		return FormPlain
	}
}

// Evaluate computes the value of cell content, resolving references through
// r. A nil r resolves every reference as absent. Evaluate never panics on any
// input; every malformed formula, type mismatch, or division by zero results
// in Invalid.
func Evaluate(content string, r Resolver) Value {
	switch Classify(content) {
	case FormLiteral:
		return Text(content[1:])
	case FormFormula:
		return Parse(content[1:]).Eval(r)
	default:
		return plain(content)
	}
}

// plain converts content with no marker to a value.
func plain(content string) Value {
	if f, ok := parseNumber(strings.TrimSpace(content)); ok {
		return Number(f)
	}
	return Text(content)
}

// Eval evaluates the expression, resolving references through r. A reference
// to an absent cell is the number 0. A nil r resolves every reference as
// absent.
func (e *Expr) Eval(r Resolver) Value {
	return e.n.eval(r)
}

// eval computes the node's value. Both operands of a binary operator are
// always evaluated, so every reference in the expression is resolved even
// once the result is known to be Invalid.
func (n *node) eval(r Resolver) Value {
	switch n.kind {
	case nodeNone:
		if n.left != nil {
			n.left.eval(r)
		}
		return Invalid
	case nodeNum:
		return Number(n.num)
	case nodeRef:
		if r == nil {
			return Number(0)
		}
		v, ok := r.Resolve(n.ref)
		if !ok {
			return Number(0)
		}
		return v
	case nodeNeg:
		return neg(n.left.eval(r))
	case nodeAdd:
		x := n.left.eval(r)
		return add(x, n.right.eval(r))
	case nodeSub:
		x := n.left.eval(r)
		return sub(x, n.right.eval(r))
	case nodeMul:
		x := n.left.eval(r)
		return mul(x, n.right.eval(r))
	case nodeDiv:
		x := n.left.eval(r)
		return div(x, n.right.eval(r))
	default:
		panic("cellcalc: invalid AST node " + n.kind.String())
	}
}
