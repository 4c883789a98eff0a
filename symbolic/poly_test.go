package symbolic_test

import (
	"testing"

	"github.com/njchilds90/funcanalyze/symbolic"
)

func mustParse(t *testing.T, text string) symbolic.Expr {
	t.Helper()
	e, err := symbolic.Parse(text)
	if err != nil {
		t.Fatalf("parse %q failed: %v", text, err)
	}
	return e
}

func TestDegree_Polynomial(t *testing.T) {
	e := mustParse(t, "3*x**2 + 2*x + 1")
	deg, ok := symbolic.Degree(e, "x")
	if !ok || deg != 2 {
		t.Errorf("want degree 2, got %d (ok=%v)", deg, ok)
	}
}

func TestDegree_NotPolynomial(t *testing.T) {
	e := mustParse(t, "tan(x)")
	if _, ok := symbolic.Degree(e, "x"); ok {
		t.Errorf("tan(x) should not be polynomial in x")
	}
}

func TestDegree_VariableInExponent(t *testing.T) {
	e := mustParse(t, "2**x")
	if _, ok := symbolic.Degree(e, "x"); ok {
		t.Errorf("2^x should not be polynomial in x")
	}
}

func TestCoefficients(t *testing.T) {
	e := mustParse(t, "3*x**2 + 2*x + 1")
	coeffs, ok := symbolic.Coefficients(e, "x")
	if !ok {
		t.Fatalf("want polynomial coefficients")
	}
	want := map[int]string{2: "3", 1: "2", 0: "1"}
	for deg, s := range want {
		c, present := coeffs[deg]
		if !present || c.String() != s {
			t.Errorf("coefficient of x^%d: want %s, got %v", deg, s, c)
		}
	}
}

func TestCoefficients_SymbolicCoefficient(t *testing.T) {
	e := mustParse(t, "y*x + 1")
	coeffs, ok := symbolic.Coefficients(e, "x")
	if !ok {
		t.Fatalf("want polynomial in x with symbolic coefficients")
	}
	if coeffs[1].String() != "y" {
		t.Errorf("coefficient of x: want y, got %s", coeffs[1])
	}
}

func TestLeadingCoeff_SkipsZero(t *testing.T) {
	e := mustParse(t, "2*x**3 - 5")
	lead, deg, ok := symbolic.LeadingCoeff(e, "x")
	if !ok || deg != 3 || lead.String() != "2" {
		t.Errorf("want (2, 3), got (%v, %d, ok=%v)", lead, deg, ok)
	}
}

func TestExpand_Binomial(t *testing.T) {
	e := mustParse(t, "(x + 1)**2")
	got := symbolic.Expand(e)
	if got.String() != "x^2 + 2*x + 1" {
		t.Errorf("want 'x^2 + 2*x + 1', got %s", got)
	}
}

func TestSplitQuotient_Rational(t *testing.T) {
	e := mustParse(t, "(x+1)/(x-2)")
	num, den := symbolic.SplitQuotient(e)
	if num.String() != "x + 1" {
		t.Errorf("numerator: want 'x + 1', got %s", num)
	}
	if den.String() != "x - 2" {
		t.Errorf("denominator: want 'x - 2', got %s", den)
	}
}

func TestSplitQuotient_NoDenominator(t *testing.T) {
	e := mustParse(t, "x**2 - 4")
	_, den := symbolic.SplitQuotient(e)
	if den.String() != "1" {
		t.Errorf("denominator of a polynomial should be 1, got %s", den)
	}
}

func TestSplitQuotient_SumOverCommonDenominator(t *testing.T) {
	e := mustParse(t, "1/x + 1")
	num, den := symbolic.SplitQuotient(e)
	if den.String() != "x" {
		t.Errorf("denominator: want x, got %s", den)
	}
	if num.String() != "x + 1" {
		t.Errorf("numerator: want 'x + 1', got %s", num)
	}
}

func TestIsRational(t *testing.T) {
	if !symbolic.IsRational(mustParse(t, "(x+1)/(x-2)"), "x") {
		t.Errorf("(x+1)/(x-2) should be rational in x")
	}
	if symbolic.IsRational(mustParse(t, "log(x)"), "x") {
		t.Errorf("log(x) should not be rational in x")
	}
}

func TestFactor_DifferenceOfSquares(t *testing.T) {
	got := symbolic.Factor(mustParse(t, "x**2 - 1"), "x")
	if got.String() != "(x + 1)*(x - 1)" {
		t.Errorf("want '(x + 1)*(x - 1)', got %s", got)
	}
}

func TestFactor_RepeatedRoot(t *testing.T) {
	got := symbolic.Factor(mustParse(t, "x**2 - 4*x + 4"), "x")
	if got.String() != "(x - 2)^2" {
		t.Errorf("want '(x - 2)^2', got %s", got)
	}
}

func TestFactor_LeadingCoefficient(t *testing.T) {
	got := symbolic.Factor(mustParse(t, "2*x**2 - 2"), "x")
	if got.String() != "2*(x + 1)*(x - 1)" {
		t.Errorf("want '2*(x + 1)*(x - 1)', got %s", got)
	}
}

func TestFactor_IrreducibleUnchanged(t *testing.T) {
	e := mustParse(t, "x**2 + 1")
	got := symbolic.Factor(e, "x")
	if !got.Equal(e) {
		t.Errorf("x^2 + 1 has no rational roots, want unchanged, got %s", got)
	}
}

func TestFactor_NonPolynomialUnchanged(t *testing.T) {
	e := mustParse(t, "log(x + 1)")
	if got := symbolic.Factor(e, "x"); !got.Equal(e) {
		t.Errorf("want unchanged, got %s", got)
	}
}
