package symbolic

import (
	"errors"
	"fmt"
	"math"
)

// Numeric evaluation errors. Callers branch on these with errors.Is.
var (
	// ErrNonReal marks a value with no real representation (even root or
	// logarithm of a negative operand, inverse trig out of range).
	ErrNonReal = errors.New("value is not real")
	// ErrNonFinite marks an infinite or undefined value (division by zero,
	// log of zero, overflow).
	ErrNonFinite = errors.New("value is not finite")
	// ErrSymbolic marks an expression that still contains free symbols.
	ErrSymbolic = errors.New("expression contains free symbols")
)

// Evaluate reduces a closed expression to a float64. Rational arithmetic is
// exact up to the final conversion; transcendental functions go through the
// float64 math library (15-17 significant digits). Evaluate never panics on
// well-formed trees; every failure mode is a typed error.
func Evaluate(e Expr) (float64, error) {
	v, err := evalNode(e.Simplify())
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) {
		return 0, ErrNonReal
	}
	if math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}

func evalNode(e Expr) (float64, error) {
	switch v := e.(type) {
	case *Number:
		return v.Float64(), nil

	case *Constant:
		return v.value, nil

	case *Symbol:
		return 0, fmt.Errorf("%w: %s", ErrSymbolic, v.name)

	case *Sum:
		acc := 0.0
		for _, t := range v.terms {
			f, err := evalNode(t)
			if err != nil {
				return 0, err
			}
			acc += f
		}
		return acc, nil

	case *Product:
		acc := 1.0
		for _, f := range v.factors {
			fv, err := evalNode(f)
			if err != nil {
				return 0, err
			}
			acc *= fv
		}
		return acc, nil

	case *Power:
		return evalPower(v)

	case *Call:
		return evalCall(v)
	}
	return 0, fmt.Errorf("%w: unsupported node %T", ErrSymbolic, e)
}

func evalPower(p *Power) (float64, error) {
	base, err := evalNode(p.base)
	if err != nil {
		return 0, err
	}
	exp, err := evalNode(p.exp)
	if err != nil {
		return 0, err
	}

	if base == 0 {
		if exp < 0 {
			return 0, fmt.Errorf("%w: division by zero", ErrNonFinite)
		}
		if exp == 0 {
			return 0, fmt.Errorf("%w: 0^0 is undefined", ErrNonFinite)
		}
		return 0, nil
	}

	if base < 0 {
		// Realness of a negative base depends on the exact exponent: integer
		// exponents and odd-index roots stay real, even-index roots do not.
		if n, ok := p.exp.Simplify().(*Number); ok {
			if n.IsInteger() {
				return math.Pow(base, exp), nil
			}
			denom := n.Rat().Denom().Int64()
			if denom%2 == 0 {
				return 0, fmt.Errorf("%w: even root of a negative value", ErrNonReal)
			}
			mag := math.Pow(-base, exp)
			if n.Rat().Num().Int64()%2 != 0 {
				mag = -mag
			}
			return mag, nil
		}
		v := math.Pow(base, exp)
		if math.IsNaN(v) {
			return 0, fmt.Errorf("%w: negative base with non-integer exponent", ErrNonReal)
		}
		return v, nil
	}

	return math.Pow(base, exp), nil
}

func evalCall(c *Call) (float64, error) {
	v, err := evalNode(c.arg)
	if err != nil {
		return 0, err
	}
	switch c.fn {
	case "sin":
		return math.Sin(v), nil
	case "cos":
		return math.Cos(v), nil
	case "tan":
		return math.Tan(v), nil
	case "cot":
		t := math.Tan(v)
		if t == 0 {
			return 0, fmt.Errorf("%w: cot of a multiple of pi", ErrNonFinite)
		}
		return 1 / t, nil
	case "exp":
		return math.Exp(v), nil
	case "log":
		if v < 0 {
			return 0, fmt.Errorf("%w: log of a negative value", ErrNonReal)
		}
		if v == 0 {
			return 0, fmt.Errorf("%w: log of zero", ErrNonFinite)
		}
		return math.Log(v), nil
	case "abs":
		return math.Abs(v), nil
	case "asin":
		if v < -1 || v > 1 {
			return 0, fmt.Errorf("%w: asin outside [-1, 1]", ErrNonReal)
		}
		return math.Asin(v), nil
	case "acos":
		if v < -1 || v > 1 {
			return 0, fmt.Errorf("%w: acos outside [-1, 1]", ErrNonReal)
		}
		return math.Acos(v), nil
	case "atan":
		return math.Atan(v), nil
	case "sinh":
		return math.Sinh(v), nil
	case "cosh":
		return math.Cosh(v), nil
	case "tanh":
		return math.Tanh(v), nil
	}
	return 0, fmt.Errorf("%w: function %s has no numeric rule", ErrSymbolic, c.fn)
}

// IsConstant reports whether e contains no free symbols, i.e. Evaluate can
// reduce it (or explicitly fail) without substitution.
func IsConstant(e Expr) bool { return len(FreeSymbols(e)) == 0 }
