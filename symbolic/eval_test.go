package symbolic_test

import (
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/funcanalyze/symbolic"
)

func TestEvaluate_ExactRational(t *testing.T) {
	v, err := symbolic.Evaluate(mustParse(t, "1/3 + 1/6"))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if v != 0.5 {
		t.Errorf("1/3 + 1/6 should be exactly 0.5, got %v", v)
	}
}

func TestEvaluate_LogOfTwo(t *testing.T) {
	v, err := symbolic.Evaluate(mustParse(t, "log(2)"))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if math.Abs(v-math.Ln2) > 1e-15 {
		t.Errorf("log(2): want %v, got %v", math.Ln2, v)
	}
}

func TestEvaluate_FreeSymbol(t *testing.T) {
	_, err := symbolic.Evaluate(mustParse(t, "x + 1"))
	if !errors.Is(err, symbolic.ErrSymbolic) {
		t.Errorf("want ErrSymbolic, got %v", err)
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	_, err := symbolic.Evaluate(mustParse(t, "1/0"))
	if !errors.Is(err, symbolic.ErrNonFinite) {
		t.Errorf("want ErrNonFinite, got %v", err)
	}
}

func TestEvaluate_EvenRootOfNegative(t *testing.T) {
	_, err := symbolic.Evaluate(symbolic.Sqrt(symbolic.Int(-1)))
	if !errors.Is(err, symbolic.ErrNonReal) {
		t.Errorf("want ErrNonReal, got %v", err)
	}
}

func TestEvaluate_OddRootOfNegative(t *testing.T) {
	v, err := symbolic.Evaluate(symbolic.NewPower(symbolic.Int(-8), symbolic.Rat(1, 3)))
	if err != nil {
		t.Fatalf("cube root of -8 should be real: %v", err)
	}
	if math.Abs(v+2) > 1e-9 {
		t.Errorf("cbrt(-8): want -2, got %v", v)
	}
}

func TestEvaluate_LogOfNegative(t *testing.T) {
	_, err := symbolic.Evaluate(symbolic.NewCall("log", symbolic.Int(-1)))
	if !errors.Is(err, symbolic.ErrNonReal) {
		t.Errorf("want ErrNonReal, got %v", err)
	}
}

func TestEvaluate_LogOfZero(t *testing.T) {
	_, err := symbolic.Evaluate(symbolic.NewCall("log", symbolic.Int(0)))
	if !errors.Is(err, symbolic.ErrNonFinite) {
		t.Errorf("want ErrNonFinite, got %v", err)
	}
}

func TestEvaluate_AsinOutOfRange(t *testing.T) {
	_, err := symbolic.Evaluate(symbolic.NewCall("asin", symbolic.Int(2)))
	if !errors.Is(err, symbolic.ErrNonReal) {
		t.Errorf("want ErrNonReal, got %v", err)
	}
}

func TestEvaluate_ZeroToTheZero(t *testing.T) {
	_, err := symbolic.Evaluate(symbolic.NewPower(symbolic.Int(0), symbolic.Int(0)))
	if !errors.Is(err, symbolic.ErrNonFinite) {
		t.Errorf("want ErrNonFinite, got %v", err)
	}
}

func TestEvaluate_PiConstant(t *testing.T) {
	v, err := symbolic.Evaluate(mustParse(t, "sin(pi/2)"))
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if math.Abs(v-1) > 1e-15 {
		t.Errorf("sin(pi/2): want 1, got %v", v)
	}
}

func TestIsConstant(t *testing.T) {
	if !symbolic.IsConstant(mustParse(t, "pi + 1")) {
		t.Errorf("pi + 1 should be constant")
	}
	if symbolic.IsConstant(mustParse(t, "x + 1")) {
		t.Errorf("x + 1 should not be constant")
	}
}
