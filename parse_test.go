package cellcalc

import (
	"reflect"
	"testing"
)

// haskind checks whether a parse tree contains a node of the given type.
func (n *node) haskind(k nodeKind) bool {
	if n == nil {
		return false
	}
	if n.kind == k {
		return true
	}
	if n.left.haskind(k) {
		return true
	}
	return n.right.haskind(k)
}

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		tree string
	}{
		{"num", "1", "(1)"},
		{"frac", "1.5", "(1.5)"},
		{"dot", ".5", "(.5)"},
		{"trailing-dot", "5.", "(5.)"},
		{"exp", "1e3", "(1e3)"},
		{"ref", "A1", "(A1)"},
		{"ref-lower", "b12", "(B12)"},
		{"ref-max", "Z999", "(Z999)"},
		{"spaces", " 1 2 ", "(12)"},
		{"add", "1+2", "([1] + [2])"},
		{"sub-left", "1-2-3", "([(1) - (2)] - [3])"},
		{"div-left", "8/4/2", "([(8) / (4)] / [2])"},
		{"prec", "1+2*3", "([1] + [(2) * (3)])"},
		{"prec-left", "1*2+3", "([(1) * (2)] + [3])"},
		{"group", "(1+2)*3", "([(1) + (2)] * [3])"},
		{"nested", "((1))", "(1)"},
		{"neg", "-A1", "(-[A1])"},
		{"neg-group", "-(1+2)", "(-[(1) + (2)])"},
		{"neg-rhs", "2*-3", "([2] * [-(3)])"},
		{"sub-neg", "2--3", "([2] - [-(3)])"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := Parse(c.src)
			if err := e.Err(); err != nil {
				t.Errorf("%q: unexpected error %v", c.src, err)
			}
			if e.n.haskind(nodeNone) {
				t.Errorf("%q: tree has invalid nodes: %v", c.src, e)
			}
			if got := e.String(); got != c.tree {
				t.Errorf("%q: want %s, got %s", c.src, c.tree, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		tree string
		err  error
	}{
		{"empty", "", "($#$)", &OperandError{Col: 1}},
		{"blank", "   ", "($#$)", &OperandError{Col: 4}},
		{"garbage", "2+3x", "([2] + [$#3x$])", &OperandError{Col: 3, Text: "3x"}},
		{"garbage-spaces", "1 + 2 x", "([1] + [$#2x$])", &OperandError{Col: 5, Text: "2x"}},
		{"dots", "1.2.3", "($#1.2.3$)", &OperandError{Col: 1, Text: "1.2.3"}},
		{"lone-dot", ".", "($#.$)", &OperandError{Col: 1, Text: "."}},
		{"row-zero", "A0", "($#A0$)", &OperandError{Col: 1, Text: "A0"}},
		{"row-leading-zero", "A01", "($#A01$)", &OperandError{Col: 1, Text: "A01"}},
		{"row-too-big", "A1000", "($#A1000$)", &OperandError{Col: 1, Text: "A1000"}},
		{"two-letters", "AA1", "($#AA1$)", &OperandError{Col: 1, Text: "AA1"}},
		{"hex", "0x10", "($#0x10$)", &OperandError{Col: 1, Text: "0x10"}},
		{"inf", "inf", "($#inf$)", &OperandError{Col: 1, Text: "inf"}},
		{"exp-sign", "1e-5", "([$#1e$] - [5])", &OperandError{Col: 1, Text: "1e"}},
		{"unary-plus", "+5", "([$#$] + [5])", &OperandError{Col: 1}},
		{"double-neg", "--5", "([-($#$)] - [5])", &OperandError{Col: 2}},
		{"missing-rhs", "1+", "([1] + [$#$])", &OperandError{Col: 3}},
		{"unclosed", "(1", "($[1]#$)", &BracketError{Col: 3, Open: 1}},
		{"unclosed-inner", "((1)", "($[1]#$)", &BracketError{Col: 5, Open: 1}},
		{"empty-group", "()", "($#$)", &OperandError{Col: 2}},
		{"trailing-close", "1)", "($[1]#)$)", &TrailingError{Col: 2, Text: ")"}},
		{"trailing-other", "1$", "($[1]#$$)", &TrailingError{Col: 2, Text: "$"}},
		{"after-group", "(1)2", "($[1]#2$)", &TrailingError{Col: 4, Text: "2"}},
		{"pow", "2^2", "($[2]#^$)", &TrailingError{Col: 2, Text: "^"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := Parse(c.src)
			if got := e.String(); got != c.tree {
				t.Errorf("%q: want %s, got %s", c.src, c.tree, got)
			}
			if !e.n.haskind(nodeNone) {
				t.Errorf("%q: tree has no invalid nodes", c.src)
			}
			err := e.Err()
			if !reflect.DeepEqual(err, c.err) {
				t.Errorf("%q: want error %#v, got %#v", c.src, c.err, err)
			}
			if _, ok := err.(InputError); !ok {
				t.Errorf("%q: error %v is not an InputError", c.src, err)
			}
		})
	}
}

func TestParseRefs(t *testing.T) {
	cases := []struct {
		src  string
		refs []Ref
	}{
		{"1", nil},
		{"A1", []Ref{{0, 0}}},
		{"B2+a1*B2-c3", []Ref{{0, 0}, {1, 1}, {2, 2}}},
		{"Z1+A2", []Ref{{0, 25}, {1, 0}}},
		{"(A1", []Ref{{0, 0}}},
		{"A1 x", nil},
	}
	for _, c := range cases {
		got := Parse(c.src).Refs()
		if !reflect.DeepEqual(got, c.refs) {
			t.Errorf("%q: want refs %v, got %v", c.src, c.refs, got)
		}
	}
}
