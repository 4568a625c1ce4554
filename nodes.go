package cellcalc

import (
	"strings"
)

// node is a node in the abstract syntax tree of a formula.
type node struct {
	kind nodeKind

	// name is the source text of a number, reference, or bad token.
	name string
	num  float64
	ref  Ref

	left  *node
	right *node
}

type nodeKind int8

const (
	// nodeNone is an operand that failed to parse. If left is non-nil, it is
	// a subexpression that parsed before the failure; it is still evaluated,
	// but the node's value is Invalid.
	nodeNone nodeKind = iota

	nodeNum // push num
	nodeRef // push resolve(ref)

	nodeNeg // evaluate left, then negate
	nodeAdd // evaluate left, add right
	nodeSub // evaluate left, sub right
	nodeMul // evaluate left, mul right
	nodeDiv // evaluate left, div by right
)

//go:generate stringer -type=nodeKind -trimprefix=node

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, !square)
		}
		b.WriteByte('#')
		b.WriteString(n.name)
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(n.name)
	case nodeRef:
		b.WriteString(n.ref.String())
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square)
	case nodeAdd:
		n.left.fmt(b, !square)
		b.WriteString(" + ")
		n.right.fmt(b, !square)
	case nodeSub:
		n.left.fmt(b, !square)
		b.WriteString(" - ")
		n.right.fmt(b, !square)
	case nodeMul:
		n.left.fmt(b, !square)
		b.WriteString(" * ")
		n.right.fmt(b, !square)
	case nodeDiv:
		n.left.fmt(b, !square)
		b.WriteString(" / ")
		n.right.fmt(b, !square)
	default:
		panic("cellcalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
