package cellcalc_test

import (
	"strconv"
	"testing"

	"github.com/zephyrtronium/cellcalc"
)

// cells is a Resolver backed by a map of values.
type cells map[string]cellcalc.Value

func (c cells) Resolve(ref cellcalc.Ref) (cellcalc.Value, bool) {
	v, ok := c[ref.String()]
	return v, ok
}

func TestEvaluateNumbers(t *testing.T) {
	lits := []string{"0", "1", "42", "3.25", ".5", "5.", "1e3", "1E3", "0.000001", "123456789012", "1.5e10"}
	for _, lit := range lits {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			t.Fatal(err)
		}
		want := cellcalc.Number(f)
		if got := cellcalc.Evaluate("="+lit, nil); !got.Equal(want) {
			t.Errorf("=%s: want %#v, got %#v", lit, want, got)
		}
		if got := cellcalc.Evaluate(lit, nil); !got.Equal(want) {
			t.Errorf("plain %s: want %#v, got %#v", lit, want, got)
		}
	}
}

func TestEvaluate(t *testing.T) {
	num := cellcalc.Number
	txt := cellcalc.Text
	bad := cellcalc.Invalid
	env := cells{
		"A1": txt("x"),
		"B1": num(10),
		"C1": num(0),
		"D1": bad,
		"Z9": num(-2),
	}
	cases := []struct {
		name    string
		content string
		want    cellcalc.Value
	}{
		// arithmetic
		{"add", "=4+5+6", num(15)},
		{"sub", "=4-5-6", num(-7)},
		{"mul", "=4*5*6", num(120)},
		{"div", "=12/4/3", num(1)},
		{"prec", "=2+3*4", num(14)},
		{"prec-div", "=2-6/3", num(0)},
		{"group", "=(2+3)*4", num(20)},
		{"nested", "=((2))*((3+1))", num(8)},
		{"neg", "=-3", num(-3)},
		{"neg-neg-group", "=-(-3)", num(3)},
		{"neg-rhs", "=2*-3", num(-6)},
		{"sub-neg", "=2--3", num(5)},
		{"spaces", "= 1 2 + 3", num(15)},
		{"tabs", "=\t2\n*\r3", num(6)},
		// division
		{"div-zero", "=1/0", bad},
		{"zero-div", "=0/1", num(0)},
		{"div-zero-expr", "=5/(2-2)", bad},
		{"div-zero-ref", "=5/C1", bad},
		{"div-absent", "=5/E5", bad},
		// references
		{"ref", "=B1", num(10)},
		{"ref-lower", "=b1*2", num(20)},
		{"ref-absent", "=A2", num(0)},
		{"ref-absent-arith", "=A2+1", num(1)},
		{"ref-text", "=A1", txt("x")},
		{"ref-text-group", "=(A1)", txt("x")},
		{"ref-text-arith", "=A1+1", bad},
		{"ref-text-rhs", "=1*A1", bad},
		{"ref-text-neg", "=-A1", bad},
		{"ref-invalid", "=D1", bad},
		{"ref-invalid-arith", "=D1*0", bad},
		{"ref-neg", "=-Z9", num(2)},
		{"ref-e", "=e5", num(0)},
		// malformed
		{"empty", "=", bad},
		{"trailing", "=2+3x", bad},
		{"trailing-close", "=1)", bad},
		{"unclosed", "=(1+2", bad},
		{"unclosed-then-more", "=(1+2*3", bad},
		{"missing-rhs", "=1+", bad},
		{"unary-plus", "=+1", bad},
		{"double-neg", "=--1", bad},
		{"pow", "=2^2", bad},
		{"garbage-word", "=abc", bad},
		{"row-zero", "=A0", bad},
		{"dots", "=1.2.3", bad},
		{"exp-sign", "=1e-5", bad},
		{"overflow", "=1e308*10", bad},
		{"contaminated", "=A1+1+2*3", bad},
		// literals
		{"literal", "'hello", txt("hello")},
		{"literal-number", "'42", txt("42")},
		{"literal-formula", "'=1+2", txt("=1+2")},
		{"literal-empty", "'", txt("")},
		{"literal-spaces", "' a b ", txt(" a b ")},
		// plain
		{"plain-number", "42", num(42)},
		{"plain-negative", "-1.5", num(-1.5)},
		{"plain-sign", "+7", num(7)},
		{"plain-exp", "2.5e-3", num(0.0025)},
		{"plain-spaces", " 42 ", num(42)},
		{"plain-text", "hello", txt("hello")},
		{"plain-text-spaces", " hello ", txt(" hello ")},
		{"plain-empty", "", txt("")},
		{"plain-inf", "inf", txt("inf")},
		{"plain-nan", "NaN", txt("NaN")},
		{"plain-hex", "0x1p4", txt("0x1p4")},
		{"plain-range", "1e400", txt("1e400")},
		{"plain-expression", "1+2", txt("1+2")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := cellcalc.Evaluate(c.content, env)
			if !got.Equal(c.want) {
				t.Errorf("%q: want %#v, got %#v", c.content, c.want, got)
			}
		})
	}
}

func TestEvaluateNilResolver(t *testing.T) {
	if got := cellcalc.Evaluate("=A1+B2*2", nil); !got.Equal(cellcalc.Number(0)) {
		t.Errorf("want 0, got %#v", got)
	}
}

func TestEvalResolvesEveryRef(t *testing.T) {
	// Every reference is resolved, even after the result is known to be
	// Invalid and even when the formula has a syntax error after it.
	cases := []struct {
		src  string
		want []string
	}{
		{"A1+B1", []string{"A1", "B1"}},
		{"A1/0+B1", []string{"A1", "B1"}},
		{"(A1+B1", []string{"A1", "B1"}},
		{"A1+B1)", []string{"A1", "B1"}},
		{"-(A1*B1*C1)", []string{"A1", "B1", "C1"}},
	}
	for _, c := range cases {
		var got []string
		r := cellcalc.ResolverFunc(func(ref cellcalc.Ref) (cellcalc.Value, bool) {
			got = append(got, ref.String())
			return cellcalc.Text("no"), true
		})
		cellcalc.Parse(c.src).Eval(r)
		if len(got) != len(c.want) {
			t.Errorf("%q: want resolutions %v, got %v", c.src, c.want, got)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%q: want resolutions %v, got %v", c.src, c.want, got)
				break
			}
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		content string
		want    cellcalc.Form
	}{
		{"", cellcalc.FormPlain},
		{"1", cellcalc.FormPlain},
		{" =1", cellcalc.FormPlain},
		{"'", cellcalc.FormLiteral},
		{"'=1", cellcalc.FormLiteral},
		{"=", cellcalc.FormFormula},
		{"='x'", cellcalc.FormFormula},
	}
	for _, c := range cases {
		if got := cellcalc.Classify(c.content); got != c.want {
			t.Errorf("%q: want form %d, got %d", c.content, c.want, got)
		}
	}
}
