package cellcalc_test

import (
	"testing"

	"github.com/zephyrtronium/cellcalc"
)

func TestParseRef(t *testing.T) {
	cases := []struct {
		s   string
		ref cellcalc.Ref
		ok  bool
	}{
		{"A1", cellcalc.Ref{Row: 0, Col: 0}, true},
		{"a1", cellcalc.Ref{Row: 0, Col: 0}, true},
		{"B2", cellcalc.Ref{Row: 1, Col: 1}, true},
		{"z999", cellcalc.Ref{Row: 998, Col: 25}, true},
		{"C10", cellcalc.Ref{Row: 9, Col: 2}, true},
		{"D100", cellcalc.Ref{Row: 99, Col: 3}, true},
		{"", cellcalc.Ref{}, false},
		{"A", cellcalc.Ref{}, false},
		{"1", cellcalc.Ref{}, false},
		{"A0", cellcalc.Ref{}, false},
		{"A01", cellcalc.Ref{}, false},
		{"A1000", cellcalc.Ref{}, false},
		{"AA1", cellcalc.Ref{}, false},
		{"1A", cellcalc.Ref{}, false},
		{"A1.", cellcalc.Ref{}, false},
		{"A1x", cellcalc.Ref{}, false},
		{"é1", cellcalc.Ref{}, false},
		{"A-1", cellcalc.Ref{}, false},
	}
	for _, c := range cases {
		ref, ok := cellcalc.ParseRef(c.s)
		if ok != c.ok || ref != c.ref {
			t.Errorf("%q: want %v, %t; got %v, %t", c.s, c.ref, c.ok, ref, ok)
		}
	}
}

func TestRefString(t *testing.T) {
	cases := []struct {
		ref cellcalc.Ref
		s   string
	}{
		{cellcalc.Ref{Row: 0, Col: 0}, "A1"},
		{cellcalc.Ref{Row: 41, Col: 2}, "C42"},
		{cellcalc.Ref{Row: 998, Col: 25}, "Z999"},
		{cellcalc.Ref{Row: 999, Col: 0}, "R1000C1"},
		{cellcalc.Ref{Row: 0, Col: 26}, "R1C27"},
		{cellcalc.Ref{Row: -1, Col: 0}, "R0C1"},
	}
	for _, c := range cases {
		if got := c.ref.String(); got != c.s {
			t.Errorf("%#v: want %q, got %q", c.ref, c.s, got)
		}
		if c.ref.Valid() {
			back, ok := cellcalc.ParseRef(c.s)
			if !ok || back != c.ref {
				t.Errorf("%q does not round trip: got %v, %t", c.s, back, ok)
			}
		}
	}
}

func TestRefLess(t *testing.T) {
	a1 := cellcalc.Ref{Row: 0, Col: 0}
	b1 := cellcalc.Ref{Row: 0, Col: 1}
	a2 := cellcalc.Ref{Row: 1, Col: 0}
	if !a1.Less(b1) || !b1.Less(a2) || !a1.Less(a2) {
		t.Error("references are not row-major")
	}
	if a1.Less(a1) || a2.Less(b1) {
		t.Error("Less is not strict")
	}
}
