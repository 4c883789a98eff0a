package funcanalyze

import (
	"fmt"
	"strings"

	"github.com/njchilds90/funcanalyze/symbolic"
)

// ============================================================
// Point evaluation
// ============================================================

// EvaluationOutcome is the result of evaluating f at a point. A domain
// violation is a warning: the numeric result is still computed when
// possible, for pedagogical display.
type EvaluationOutcome struct {
	Trace           []string `json:"trace"`
	Exact           string   `json:"exact"`
	Approx          *float64 `json:"approx,omitempty"`
	DomainViolation bool     `json:"domainViolation"`
	ViolationDetail string   `json:"violationDetail,omitempty"`
	FailureReason   string   `json:"failureReason,omitempty"`
}

// EvaluateAt substitutes x into the expression, checks it against the
// restriction set, and reduces the result to a decimal through
// SafeFloat. It never panics for a parsed expression and a parsed x.
func EvaluateAt(e symbolic.Expr, x symbolic.Expr, original string, rs []Restriction) EvaluationOutcome {
	var out EvaluationOutcome

	xLabel := x.String()
	if xv, err := symbolic.Evaluate(x); err == nil {
		xLabel = Format(xv)
	}

	var violations []string
	for _, r := range rs {
		if ok, detail := r.SatisfiedAt(x); !ok {
			violations = append(violations, detail)
		}
	}
	if len(violations) > 0 {
		out.DomainViolation = true
		out.ViolationDetail = strings.Join(violations, "; ")
		out.Trace = append(out.Trace,
			fmt.Sprintf("warning: x = %s is outside the domain (%s)", xLabel, out.ViolationDetail))
	}

	out.Trace = append(out.Trace, fmt.Sprintf("substituting x = %s into f(x) = %s", xLabel, original))
	raw := e.Substitute("x", x)
	out.Trace = append(out.Trace, fmt.Sprintf("f(%s) = %s", xLabel, raw))
	simplified := raw.Simplify()
	out.Trace = append(out.Trace, fmt.Sprintf("simplified: %s", simplified))

	nr := SafeFloat(simplified)
	out.Exact = nr.Exact
	if nr.Defined() {
		out.Approx = nr.Approx
		out.Trace = append(out.Trace, fmt.Sprintf("f(%s) = %s", xLabel, Format(*nr.Approx)))
		out.Trace = append(out.Trace, fmt.Sprintf("ordered pair: (%s, %s)", xLabel, Format(*nr.Approx)))
	} else {
		out.FailureReason = nr.FailureReason
		out.Trace = append(out.Trace,
			fmt.Sprintf("no decimal value for f(%s): %s", xLabel, nr.FailureReason))
	}
	return out
}
