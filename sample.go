package funcanalyze

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// ============================================================
// Plot sampling
// ============================================================

// Default sampling window for plot consumers.
const (
	DefaultPlotLo = -10.0
	DefaultPlotHi = 10.0
	DefaultPlotN  = 1000
)

// PlotPoint is one sample of the function. Gap marks points where the
// function is undefined or non-finite; renderers break the curve there.
type PlotPoint struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Gap bool    `json:"gap,omitempty"`
}

func unary(f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 argument, got %d", len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("expected a numeric argument")
		}
		return f(x), nil
	}
}

var plotFuncs = map[string]govaluate.ExpressionFunction{
	"sin":  unary(math.Sin),
	"cos":  unary(math.Cos),
	"tan":  unary(math.Tan),
	"cot":  unary(func(x float64) float64 { return 1 / math.Tan(x) }),
	"asin": unary(math.Asin),
	"acos": unary(math.Acos),
	"atan": unary(math.Atan),
	"sinh": unary(math.Sinh),
	"cosh": unary(math.Cosh),
	"tanh": unary(math.Tanh),
	"log":  unary(math.Log),
	"exp":  unary(math.Exp),
	"sqrt": unary(math.Sqrt),
	"abs":  unary(math.Abs),
}

// SamplePlot compiles a normalized expression to a fast numeric form
// and samples it uniformly over [lo, hi]. Evaluation failures and
// non-finite values become gap points rather than errors.
func SamplePlot(normalized string, lo, hi float64, n int) ([]PlotPoint, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 sample points, got %d", n)
	}
	if hi <= lo {
		return nil, fmt.Errorf("invalid window [%g, %g]", lo, hi)
	}
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(normalized, plotFuncs)
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", normalized, err)
	}

	points := make([]PlotPoint, 0, n)
	params := map[string]interface{}{
		"pi": math.Pi,
		"e":  math.E,
	}
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		x := lo + step*float64(i)
		params["x"] = x
		raw, err := expr.Evaluate(params)
		if err != nil {
			points = append(points, PlotPoint{X: x, Gap: true})
			continue
		}
		y, ok := raw.(float64)
		if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
			points = append(points, PlotPoint{X: x, Gap: true})
			continue
		}
		points = append(points, PlotPoint{X: x, Y: y})
	}
	return points, nil
}
