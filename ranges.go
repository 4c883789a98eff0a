package funcanalyze

import (
	"fmt"
	"math"

	"github.com/njchilds90/funcanalyze/symbolic"
)

// ============================================================
// Range analysis
// ============================================================

// RangeResult is the outcome of range analysis. The heuristic branches
// are best-effort: Fallback is set whenever the summary defaults to all
// reals without proof.
type RangeResult struct {
	Summary  string    `json:"summary"`
	Trace    []string  `json:"trace"`
	Fallback *Fallback `json:"fallback,omitempty"`
}

// AnalyzeRange estimates the range of an expression in x. The primary
// strategy inverts f(x) = y and transfers the domain of the inverse;
// when inversion fails it branches on structural shape (polynomial
// parity, rational asymptotes) and otherwise defaults to all reals,
// flagged as unresolved.
func AnalyzeRange(e symbolic.Expr) (res RangeResult) {
	defer func() {
		if r := recover(); r != nil {
			res = RangeResult{
				Summary:  "could not compute the range",
				Trace:    append(res.Trace, fmt.Sprintf("internal failure: %v", r)),
				Fallback: &Fallback{Reason: fmt.Sprintf("internal failure: %v", r)},
			}
		}
	}()

	res.Trace = append(res.Trace, fmt.Sprintf("solving %s = y for x", e))

	if sols, err := symbolic.SolveFor(e, "y", "x"); err == nil && len(sols) > 0 {
		inv := sols[0]
		res.Trace = append(res.Trace, fmt.Sprintf("inverse found: x = %s", inv))
		dom := analyzeDomainVar(inv, "y")
		res.Trace = append(res.Trace, dom.Trace...)
		if dom.Fallback != nil {
			res.Summary = "could not compute the range"
			res.Fallback = dom.Fallback
			return res
		}
		res.Summary = dom.Summary
		res.Trace = append(res.Trace, fmt.Sprintf("range: %s", res.Summary))
		return res
	}

	res.Trace = append(res.Trace, "no inverse in x; classifying by structural shape")

	if deg, ok := symbolic.Degree(e, "x"); ok {
		return rangeOfPolynomial(e, deg, res)
	}
	if num, den := symbolic.SplitQuotient(e); !den.Equal(symbolic.Int(1)) {
		if r, ok := rangeOfRational(num, den, &res); ok {
			return r
		}
	}

	res.Summary = "ℝ (approximate; exact range not determined)"
	res.Trace = append(res.Trace, "no structural rule applies; defaulting to all reals")
	res.Fallback = &Fallback{Reason: "unresolved range, defaulting to all reals"}
	return res
}

func rangeOfPolynomial(e symbolic.Expr, deg int, res RangeResult) RangeResult {
	switch {
	case deg == 0:
		v, err := symbolic.Evaluate(e)
		if err == nil {
			res.Summary = fmt.Sprintf("{ %s }", Format(v))
			res.Trace = append(res.Trace, "constant function, single-value range")
			return res
		}
	case deg%2 == 1:
		res.Summary = "ℝ"
		res.Trace = append(res.Trace, fmt.Sprintf("odd-degree polynomial (degree %d), range is all reals", deg))
		return res
	default:
		lead, _, ok := symbolic.LeadingCoeff(e, "x")
		if !ok {
			break
		}
		leadV, err := symbolic.Evaluate(lead)
		if err != nil {
			break
		}
		deriv := e.Derivative("x").Simplify()
		crit, cerr := symbolic.SolveRoots(deriv, "x")
		if cerr != nil || len(crit) == 0 {
			res.Trace = append(res.Trace, "could not locate critical points")
			break
		}
		ext, found := extremumValue(e, crit, leadV > 0)
		if !found {
			break
		}
		if leadV > 0 {
			res.Summary = fmt.Sprintf("[%s, ∞)", Format(ext))
			res.Trace = append(res.Trace,
				fmt.Sprintf("even-degree polynomial with positive leading coefficient; minimum value %s", Format(ext)))
		} else {
			res.Summary = fmt.Sprintf("(-∞, %s]", Format(ext))
			res.Trace = append(res.Trace,
				fmt.Sprintf("even-degree polynomial with negative leading coefficient; maximum value %s", Format(ext)))
		}
		res.Trace = append(res.Trace, fmt.Sprintf("range: %s", res.Summary))
		return res
	}
	res.Summary = "ℝ (approximate; exact range not determined)"
	res.Fallback = &Fallback{Reason: "unresolved polynomial range"}
	return res
}

// extremumValue evaluates f at each critical point and returns the
// minimum (wantMin) or maximum of the values that evaluate cleanly.
func extremumValue(e symbolic.Expr, crit []symbolic.Expr, wantMin bool) (float64, bool) {
	best := math.NaN()
	for _, c := range crit {
		v, err := symbolic.Evaluate(e.Substitute("x", c).Simplify())
		if err != nil {
			continue
		}
		if math.IsNaN(best) || (wantMin && v < best) || (!wantMin && v > best) {
			best = v
		}
	}
	return best, !math.IsNaN(best)
}

// rangeOfRational applies the horizontal-asymptote heuristic: equal
// degrees exclude the ratio of leading coefficients, a smaller
// numerator degree excludes zero, a larger one stays unresolved.
func rangeOfRational(num, den symbolic.Expr, res *RangeResult) (RangeResult, bool) {
	degN, okN := symbolic.Degree(num, "x")
	degD, okD := symbolic.Degree(den, "x")
	if !okN || !okD || degD < 1 {
		return RangeResult{}, false
	}
	switch {
	case degN < degD:
		res.Summary = "ℝ \\ { 0.00 } (approximate)"
		res.Trace = append(res.Trace,
			"numerator degree below denominator degree; horizontal asymptote y = 0 excluded")
	case degN == degD:
		ln, _, okLN := symbolic.LeadingCoeff(num, "x")
		ld, _, okLD := symbolic.LeadingCoeff(den, "x")
		if !okLN || !okLD {
			return RangeResult{}, false
		}
		ratio, err := symbolic.Evaluate(symbolic.Div(ln, ld))
		if err != nil {
			return RangeResult{}, false
		}
		res.Summary = fmt.Sprintf("ℝ \\ { %s } (approximate)", Format(ratio))
		res.Trace = append(res.Trace,
			fmt.Sprintf("equal degrees; horizontal asymptote y = %s excluded", Format(ratio)))
	default:
		res.Summary = "ℝ (approximate; exact range not determined)"
		res.Trace = append(res.Trace,
			"numerator degree above denominator degree; no horizontal asymptote, defaulting to all reals")
		res.Fallback = &Fallback{Reason: "unresolved rational range"}
	}
	res.Trace = append(res.Trace, fmt.Sprintf("range: %s", res.Summary))
	return *res, true
}
