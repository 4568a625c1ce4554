package cellcalc

import (
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEnd indicates the end of the input. Once the lexer reaches the end,
	// every further token is tokenEnd.
	tokenEnd
	// tokenWord is a run of letters, digits, and dots: a reference or a
	// number, or garbage that is neither.
	tokenWord
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open parenthesis.
	tokenOpen
	// tokenClose is a close parenthesis.
	tokenClose
	// tokenOther is any other single rune.
	tokenOther
)

//go:generate stringer -type=tokenKind -trimprefix=token

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/"

// lexer scans formula text with all whitespace removed. Whitespace is not
// significant anywhere in a formula, so "1 2" scans as the single word "12".
type lexer struct {
	// src is the input with whitespace removed.
	src []rune
	// col maps each rune of src to its one-based column in the original input.
	col []int
	// end is the column just past the last rune of the original input.
	end int
	// i is the index of the next rune to scan.
	i int
	// p is the pushed token, if any.
	p lexToken
}

func lex(src string) *lexer {
	l := lexer{
		src: make([]rune, 0, len(src)),
		col: make([]int, 0, len(src)),
	}
	n := 0
	for _, r := range src {
		n++
		if unicode.IsSpace(r) {
			continue
		}
		l.src = append(l.src, r)
		l.col = append(l.col, n)
	}
	l.end = n + 1
	return &l
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("cellcalc: double push")
	}
	l.p = tok
}

// next scans the next token from the input.
func (l *lexer) next() lexToken {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok
	}
	if l.i >= len(l.src) {
		return lexToken{kind: tokenEnd, pos: l.end}
	}
	tok := lexToken{pos: l.col[l.i]}
	r := l.src[l.i]
	switch {
	case isWordRune(r):
		var b strings.Builder
		for l.i < len(l.src) && isWordRune(l.src[l.i]) {
			b.WriteRune(l.src[l.i])
			l.i++
		}
		tok.text = b.String()
		tok.kind = tokenWord
		return tok
	case strings.ContainsRune(Operators, r):
		tok.kind = tokenOp
	case r == '(':
		tok.kind = tokenOpen
	case r == ')':
		tok.kind = tokenClose
	default:
		tok.kind = tokenOther
	}
	tok.text = string(r)
	l.i++
	return tok
}

// isWordRune reports whether r continues a reference or number.
func isWordRune(r rune) bool {
	return r == '.' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
