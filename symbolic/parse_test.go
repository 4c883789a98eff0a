package symbolic_test

import (
	"testing"

	"github.com/njchilds90/funcanalyze/symbolic"
)

func TestParse_Polynomial(t *testing.T) {
	e, err := symbolic.Parse("x**2 - 4")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.String() != "x^2 - 4" {
		t.Errorf("want 'x^2 - 4', got %s", e)
	}
}

func TestParse_Precedence(t *testing.T) {
	e, err := symbolic.Parse("2 + 3*4")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.String() != "14" {
		t.Errorf("2 + 3*4 should fold to 14, got %s", e)
	}
}

func TestParse_PowerRightAssociative(t *testing.T) {
	e, err := symbolic.Parse("2**3**2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.String() != "512" {
		t.Errorf("2**3**2 should be 2^9 = 512, got %s", e)
	}
}

func TestParse_UnaryMinusBindsLooserThanPower(t *testing.T) {
	e, err := symbolic.Parse("-2**2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.String() != "-4" {
		t.Errorf("-2**2 should be -(2^2) = -4, got %s", e)
	}
}

func TestParse_Call(t *testing.T) {
	e, err := symbolic.Parse("log(x + 1)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.String() != "log(x + 1)" {
		t.Errorf("want 'log(x + 1)', got %s", e)
	}
}

func TestParse_SqrtBecomesHalfPower(t *testing.T) {
	e, err := symbolic.Parse("sqrt(x)")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.String() != "x^(1/2)" {
		t.Errorf("sqrt(x) should parse as x^(1/2), got %s", e)
	}
}

func TestParse_Constants(t *testing.T) {
	e, err := symbolic.Parse("pi")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(symbolic.FreeSymbols(e)) != 0 {
		t.Errorf("pi should not be a free symbol")
	}
}

func TestParse_RationalLiteral(t *testing.T) {
	e, err := symbolic.Parse("3/4")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.String() != "3/4" {
		t.Errorf("3/4 should fold to an exact rational, got %s", e)
	}
}

func TestParse_Decimal(t *testing.T) {
	e, err := symbolic.Parse("1.5")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if e.String() != "3/2" {
		t.Errorf("1.5 should be the exact rational 3/2, got %s", e)
	}
}

func TestParse_UnknownFunction(t *testing.T) {
	if _, err := symbolic.Parse("foo(x)"); err == nil {
		t.Errorf("unknown function should fail to parse")
	}
}

func TestParse_UnbalancedParen(t *testing.T) {
	if _, err := symbolic.Parse("(x + 1"); err == nil {
		t.Errorf("unbalanced parenthesis should fail to parse")
	}
}

func TestParse_TrailingGarbage(t *testing.T) {
	if _, err := symbolic.Parse("x + 1 )"); err == nil {
		t.Errorf("trailing token should fail to parse")
	}
}

func TestParse_MalformedNumber(t *testing.T) {
	if _, err := symbolic.Parse("1.2.3"); err == nil {
		t.Errorf("number with two dots should fail to parse")
	}
}
