package cellcalc

import (
	"strconv"
	"strings"
)

// expression := term { ('+' | '-') term }
// term       := factor { ('*' | '/') factor }
// factor     := [ '-' ] ( '(' expression ')' | word )
// word       := ref | num
// ref        := letter digit [ digit [ digit ] ]
// num        := digits [ '.' [ digits ] ] [ ('e' | 'E') digits ] | '.' digits [ ('e' | 'E') digits ]

// Expr is a parsed formula expression that can be evaluated against a
// Resolver.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// refs is the list of distinct references in the expression.
	refs []Ref
	// err is the first syntax error in the expression.
	err error
}

// parser holds state for one parse.
type parser struct {
	scan *lexer
	// refs is the set of references seen this parse.
	refs map[Ref]bool
	err  error
}

// Parse parses the body of a formula, i.e. the text after the leading '='.
// Parsing never fails outright. Syntax errors make the affected operand
// Invalid, which makes the whole expression evaluate to Invalid; Err reports
// the first of them.
func Parse(src string) *Expr {
	p := parser{
		scan: lex(src),
		refs: make(map[Ref]bool),
	}
	n := p.expression()
	// Anything left over invalidates the whole formula, no matter what parsed
	// before it.
	if tok := p.scan.next(); tok.kind != tokenEnd {
		p.fail(&TrailingError{Col: tok.pos, Text: tok.text})
		n = &node{kind: nodeNone, name: tok.text, left: n}
	}
	ex := Expr{
		n:    n,
		refs: make([]Ref, 0, len(p.refs)),
		err:  p.err,
	}
	for r := range p.refs {
		ex.refs = append(ex.refs, r)
	}
	sortrefs(ex.refs)
	return &ex
}

// sortrefs sorts references row-major without using package sort because that
// has reflection and allocation problems.
func sortrefs(refs []Ref) {
	for i := 1; i < len(refs); i++ {
		for j := i; j > 0 && refs[j].Less(refs[j-1]); j-- {
			refs[j], refs[j-1] = refs[j-1], refs[j]
		}
	}
}

// fail records err if it is the first error of the parse.
func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// expression parses terms joined by + and -. It pushes the token that ends it.
func (p *parser) expression() *node {
	n := p.term()
	for {
		tok := p.scan.next()
		if tok.kind != tokenOp || tok.text != "+" && tok.text != "-" {
			p.scan.push(tok)
			return n
		}
		kind := nodeAdd
		if tok.text == "-" {
			kind = nodeSub
		}
		rhs := p.term()
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// term parses factors joined by * and /. It pushes the token that ends it.
func (p *parser) term() *node {
	n := p.factor()
	for {
		tok := p.scan.next()
		if tok.kind != tokenOp || tok.text != "*" && tok.text != "/" {
			p.scan.push(tok)
			return n
		}
		kind := nodeMul
		if tok.text == "/" {
			kind = nodeDiv
		}
		rhs := p.factor()
		n = &node{kind: kind, left: n, right: rhs}
	}
}

// factor parses an optionally negated group or word.
func (p *parser) factor() *node {
	tok := p.scan.next()
	negative := false
	if tok.kind == tokenOp && tok.text == "-" {
		negative = true
		tok = p.scan.next()
	}
	var n *node
	switch tok.kind {
	case tokenOpen:
		inner := p.expression()
		end := p.scan.next()
		if end.kind != tokenClose {
			// Whatever we found instead stays consumed so that the parse keeps
			// moving. At the end of input, the lexer keeps returning the end.
			p.fail(&BracketError{Col: end.pos, Open: tok.pos, Right: end.text})
			n = &node{kind: nodeNone, name: end.text, left: inner}
		} else {
			n = inner
		}
	case tokenWord:
		n = p.word(tok)
	default:
		// No operand here. Nothing is consumed; the caller decides what the
		// token means.
		p.scan.push(tok)
		p.fail(&OperandError{Col: tok.pos})
		n = &node{kind: nodeNone}
	}
	if negative {
		n = &node{kind: nodeNeg, left: n}
	}
	return n
}

// word converts a word token into a reference or a number.
func (p *parser) word(tok lexToken) *node {
	if r, ok := ParseRef(tok.text); ok {
		p.refs[r] = true
		return &node{kind: nodeRef, name: tok.text, ref: r}
	}
	if f, ok := parseNumber(tok.text); ok {
		return &node{kind: nodeNum, name: tok.text, num: f}
	}
	p.fail(&OperandError{Col: tok.pos, Text: tok.text})
	return &node{kind: nodeNone, name: tok.text}
}

// parseNumber parses a decimal floating-point literal with an optional sign,
// fraction, and exponent. Unlike strconv.ParseFloat, it rejects infinities,
// NaN, hexadecimal forms, and underscores, and it reports numbers out of the
// range of float64 as failures.
func parseNumber(s string) (float64, bool) {
	if !scanNum(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// scanNum reports whether s is a decimal literal.
func scanNum(s string) bool {
	var dig, dot, e, ed bool
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+', '-':
			// Signs may appear only at the start and immediately after an
			// exponent marker.
			if i != 0 && (s[i-1] != 'e' && s[i-1] != 'E') {
				return false
			}
		case '.':
			if dot || e {
				return false
			}
			dot = true
		case 'e', 'E':
			if !dig || e {
				return false
			}
			e = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
		default:
			return false
		}
	}
	return dig && (!e || ed)
}

// Err returns the first syntax error in the expression, or nil if it parsed
// completely. A non-nil error is always an InputError.
func (e *Expr) Err() error {
	return e.err
}

// Refs returns the distinct cell references in the expression in row-major
// order.
func (e *Expr) Refs() []Ref {
	return append(([]Ref)(nil), e.refs...)
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, false)
	return b.String()
}
