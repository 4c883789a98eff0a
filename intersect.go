package funcanalyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/njchilds90/funcanalyze/symbolic"
)

// ============================================================
// Axis intercepts
// ============================================================

// InterceptResult carries the axis crossings. The numeric slices feed
// the plotting consumers directly.
type InterceptResult struct {
	Summary     string    `json:"summary"`
	Trace       []string  `json:"trace"`
	XIntercepts []float64 `json:"xIntercepts,omitempty"`
	YIntercept  *float64  `json:"yIntercept,omitempty"`
	Fallback    *Fallback `json:"fallback,omitempty"`
}

// AnalyzeIntercepts locates the y-intercept by substitution at x = 0
// and the real x-intercepts by solving f(x) = 0. Individual values that
// fail decimal conversion are skipped, not fatal.
func AnalyzeIntercepts(e symbolic.Expr) (res InterceptResult) {
	defer func() {
		if r := recover(); r != nil {
			res = InterceptResult{
				Summary:  "could not compute the intercepts",
				Trace:    append(res.Trace, fmt.Sprintf("internal failure: %v", r)),
				Fallback: &Fallback{Reason: fmt.Sprintf("internal failure: %v", r)},
			}
		}
	}()

	var parts []string

	at0 := e.Substitute("x", symbolic.Int(0)).Simplify()
	res.Trace = append(res.Trace, fmt.Sprintf("evaluating f(0) = %s", at0))
	if nr := SafeFloat(at0); nr.Defined() {
		res.YIntercept = nr.Approx
		line := fmt.Sprintf("Y-intercept: (0, %s)", Format(*nr.Approx))
		res.Trace = append(res.Trace, line)
		parts = append(parts, line)
	} else {
		line := fmt.Sprintf("not defined at x = 0 (%s)", nr.FailureReason)
		res.Trace = append(res.Trace, line)
		parts = append(parts, line)
	}

	res.Trace = append(res.Trace, fmt.Sprintf("solving %s = 0", e))
	roots, err := symbolic.SolveRoots(e, "x")
	if err != nil {
		line := fmt.Sprintf("could not solve for x-intercepts: %v", err)
		res.Trace = append(res.Trace, line)
		parts = append(parts, "x-intercepts could not be determined")
		res.Fallback = &Fallback{Reason: line}
	} else {
		for _, root := range roots {
			nr := SafeFloat(root)
			if !nr.Defined() {
				res.Trace = append(res.Trace,
					fmt.Sprintf("skipping solution %s: %s", nr.Exact, nr.FailureReason))
				continue
			}
			res.XIntercepts = append(res.XIntercepts, *nr.Approx)
		}
		sort.Float64s(res.XIntercepts)
		xs := make([]string, len(res.XIntercepts))
		for i, v := range res.XIntercepts {
			xs[i] = fmt.Sprintf("(%s, 0)", Format(v))
		}
		if len(xs) == 0 {
			res.Trace = append(res.Trace, "no real x-intercepts")
			parts = append(parts, "no real x-intercepts")
		} else {
			line := "X-intercepts: " + strings.Join(xs, ", ")
			res.Trace = append(res.Trace, line)
			parts = append(parts, line)
		}
	}

	res.Summary = strings.Join(parts, "; ")
	return res
}
