package funcanalyze

import (
	"errors"
	"fmt"
	"math"

	"github.com/njchilds90/funcanalyze/symbolic"
)

// ============================================================
// Number formatting
// ============================================================

// Format renders a float for display: fixed two decimals, switching to
// one-significant-digit scientific notation when the magnitude leaves
// the (0.0001, 10000] window.
func Format(v float64) string {
	av := math.Abs(v)
	if av > 10000 || (av > 0 && av < 0.0001) {
		return fmt.Sprintf("%.1e", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// NumericResult is the tri-state outcome of reducing a symbolic value
// to a decimal: exact and approx populated, or a failure reason.
type NumericResult struct {
	Exact         string
	Approx        *float64
	FailureReason string
}

// Defined reports whether the conversion produced a decimal value.
func (r NumericResult) Defined() bool { return r.Approx != nil }

// SafeFloat is the single gate between symbolic and decimal
// representations. It never panics; non-real, non-finite and symbolic
// leftovers are reported through FailureReason.
func SafeFloat(e symbolic.Expr) (res NumericResult) {
	defer func() {
		if r := recover(); r != nil {
			res = NumericResult{FailureReason: fmt.Sprintf("conversion error: %v", r)}
		}
	}()
	s := e.Simplify()
	res.Exact = s.String()
	v, err := symbolic.Evaluate(s)
	switch {
	case err == nil:
		res.Approx = &v
	case errors.Is(err, symbolic.ErrNonReal):
		res.FailureReason = "value is not real"
	case errors.Is(err, symbolic.ErrNonFinite):
		res.FailureReason = "value is not finite"
	case errors.Is(err, symbolic.ErrSymbolic):
		res.FailureReason = "value is not numeric"
	default:
		res.FailureReason = err.Error()
	}
	return res
}
