package funcanalyze_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/funcanalyze"
	"github.com/njchilds90/funcanalyze/symbolic"
)

func quietAnalyzer() *funcanalyze.Analyzer {
	return &funcanalyze.Analyzer{
		Timeout: funcanalyze.DefaultStageTimeout,
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// ============================================================
// Normalization
// ============================================================

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"x^2", "x**2"},
		{"2x", "2*x"},
		{"2(x+1)", "2*(x+1)"},
		{"(x+1)(x-2)", "(x+1)*(x-2)"},
		{")3", ")*3"},
		{"x2", "x*2"},
		{"sen(x)", "sin(x)"},
		{"tg(x)", "tan(x)"},
		{"ctg(x)", "cot(x)"},
		{"arcsen(x)", "asin(x)"},
		{"arctg(x)", "atan(x)"},
		{"ln(x)", "log(x)"},
		{"  x + 1  ", "x + 1"},
		{"sin(x)", "sin(x)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, funcanalyze.Normalize(c.in), "input %q", c.in)
	}
}

// ============================================================
// Formatting
// ============================================================

func TestFormat(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{5, "5.00"},
		{-0.5, "-0.50"},
		{0, "0.00"},
		{10000, "10000.00"},
		{12345.6, "1.2e+04"},
		{0.00005, "5.0e-05"},
		{0.0001, "0.00"},
		{-123456, "-1.2e+05"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, funcanalyze.Format(c.v), "value %v", c.v)
	}
}

func TestFormat_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "1.2e+04", funcanalyze.Format(12345.6))
	}
}

// ============================================================
// Validation
// ============================================================

func TestValidateFunction(t *testing.T) {
	expr, err := funcanalyze.ValidateFunction("x**2 - 4")
	require.NoError(t, err)
	assert.Equal(t, "x^2 - 4", expr.String())
}

func TestValidateFunction_ConstantAllowed(t *testing.T) {
	_, err := funcanalyze.ValidateFunction("3 + 1")
	assert.NoError(t, err)
}

func TestValidateFunction_ParseError(t *testing.T) {
	_, err := funcanalyze.ValidateFunction("x +")
	assert.ErrorIs(t, err, funcanalyze.ErrParse)
}

func TestValidateFunction_WrongVariable(t *testing.T) {
	_, err := funcanalyze.ValidateFunction("x + y")
	assert.ErrorIs(t, err, funcanalyze.ErrValidation)
}

func TestParseXValue(t *testing.T) {
	for _, ok := range []string{"2", "-1.5", "1/2", "pi", "e"} {
		_, err := funcanalyze.ParseXValue(ok)
		assert.NoError(t, err, "input %q", ok)
	}
	for _, bad := range []string{"", "x", "two", "1/"} {
		_, err := funcanalyze.ParseXValue(bad)
		assert.ErrorIs(t, err, funcanalyze.ErrParse, "input %q", bad)
	}
}

// ============================================================
// Concrete scenarios
// ============================================================

func TestScenario_RationalFunction(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("(x+1)/(x-2)", "1.5")
	require.NoError(t, err)

	assert.Equal(t, "ℝ \\ { 2.00 }", rep.Domain.Summary)
	require.Len(t, rep.Domain.Restrictions, 1)

	require.NotNil(t, rep.Intercepts.YIntercept)
	assert.InDelta(t, -0.5, *rep.Intercepts.YIntercept, 1e-9)
	require.Len(t, rep.Intercepts.XIntercepts, 1)
	assert.InDelta(t, -1, rep.Intercepts.XIntercepts[0], 1e-9)

	require.NotNil(t, rep.Evaluation)
	assert.False(t, rep.Evaluation.DomainViolation)
	require.NotNil(t, rep.Evaluation.Approx)
	assert.InDelta(t, -5, *rep.Evaluation.Approx, 1e-9)
}

func TestScenario_EvenPolynomial(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("x**2 - 4", "")
	require.NoError(t, err)

	assert.Equal(t, "ℝ", rep.Domain.Summary)
	assert.Empty(t, rep.Domain.Restrictions)
	assert.Equal(t, "[-4.00, ∞)", rep.Range.Summary)

	require.Len(t, rep.Intercepts.XIntercepts, 2)
	assert.InDelta(t, -2, rep.Intercepts.XIntercepts[0], 1e-9)
	assert.InDelta(t, 2, rep.Intercepts.XIntercepts[1], 1e-9)
	require.NotNil(t, rep.Intercepts.YIntercept)
	assert.InDelta(t, -4, *rep.Intercepts.YIntercept, 1e-9)
}

func TestScenario_Logarithm(t *testing.T) {
	a := quietAnalyzer()

	rep, err := a.Analyze("log(x + 1)", "1")
	require.NoError(t, err)
	assert.Equal(t, "x > -1.00", rep.Domain.Summary)
	require.NotNil(t, rep.Evaluation)
	assert.Equal(t, "log(2)", rep.Evaluation.Exact)
	require.NotNil(t, rep.Evaluation.Approx)
	assert.InDelta(t, 0.6931, *rep.Evaluation.Approx, 1e-4)

	rep, err = a.Analyze("log(x + 1)", "-2")
	require.NoError(t, err)
	require.NotNil(t, rep.Evaluation)
	assert.True(t, rep.Evaluation.DomainViolation)
	assert.Contains(t, rep.Evaluation.ViolationDetail, "x + 1 > 0")
	assert.Nil(t, rep.Evaluation.Approx)
	assert.NotEmpty(t, rep.Evaluation.FailureReason)
}

func TestDomain_LogOfReciprocal(t *testing.T) {
	// The log argument has a pole at 0 instead of a root; the positivity
	// condition must still resolve to the right half-line.
	rep, err := quietAnalyzer().Analyze("log(1/x)", "")
	require.NoError(t, err)
	assert.Equal(t, "x > 0.00", rep.Domain.Summary)
	require.Len(t, rep.Domain.Restrictions, 1)

	ok, _ := rep.Domain.Restrictions[0].SatisfiedAt(symbolic.Int(2))
	assert.True(t, ok, "x = 2 is inside the domain")
	ok, _ = rep.Domain.Restrictions[0].SatisfiedAt(symbolic.Int(-1))
	assert.False(t, ok, "x = -1 is outside the domain")
}

func TestDomain_FactoredDenominatorTrace(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("1/(x**2 - 1)", "")
	require.NoError(t, err)
	assert.Equal(t, "ℝ \\ { -1.00, 1.00 }", rep.Domain.Summary)
	assert.Contains(t, rep.Domain.Trace, "denominator factors as (x + 1)*(x - 1)")
}

func TestScenario_EvenRootAlwaysDefined(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("sqrt(x**2 + 1)", "3")
	require.NoError(t, err)

	assert.Equal(t, "ℝ", rep.Domain.Summary)
	assert.Empty(t, rep.Domain.Restrictions)

	require.NotNil(t, rep.Evaluation)
	assert.False(t, rep.Evaluation.DomainViolation)
	require.NotNil(t, rep.Evaluation.Approx)
	assert.Equal(t, "3.16", funcanalyze.Format(*rep.Evaluation.Approx))
}

func TestScenario_PeriodicBestEffort(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("tan(x)", "")
	require.NoError(t, err)

	// Periodic singularities have no structural denominator, so the
	// domain comes back without exclusions. Accepted limitation.
	assert.Equal(t, "ℝ", rep.Domain.Summary)

	assert.NotNil(t, rep.Range.Fallback)
	assert.Contains(t, rep.Range.Summary, "ℝ")

	assert.NotNil(t, rep.Intercepts.Fallback)
	assert.NotEmpty(t, rep.Intercepts.Summary)
}

// ============================================================
// Cross-stage properties
// ============================================================

func TestDomainViolation_MatchesRestrictions(t *testing.T) {
	cases := []struct {
		fn, x    string
		violated bool
	}{
		{"(x+1)/(x-2)", "2", true},
		{"(x+1)/(x-2)", "3", false},
		{"log(x + 1)", "-2", true},
		{"log(x + 1)", "0", false},
		{"sqrt(x**2 + 1)", "-100", false},
	}
	a := quietAnalyzer()
	for _, c := range cases {
		rep, err := a.Analyze(c.fn, c.x)
		require.NoError(t, err, "%s at %s", c.fn, c.x)
		require.NotNil(t, rep.Evaluation)
		assert.Equal(t, c.violated, rep.Evaluation.DomainViolation, "%s at %s", c.fn, c.x)
	}
}

func TestIntercepts_RootsSubstituteToZero(t *testing.T) {
	a := quietAnalyzer()
	for _, fn := range []string{"(x+1)/(x-2)", "x**2 - 4", "x**3 - 6*x**2 + 11*x - 6"} {
		rep, err := a.Analyze(fn, "")
		require.NoError(t, err)
		for _, root := range rep.Intercepts.XIntercepts {
			pts, err := funcanalyze.SamplePlot(funcanalyze.Normalize(fn), root-1e-12, root+1e-12, 3)
			require.NoError(t, err)
			assert.False(t, pts[1].Gap, "%s at root %v", fn, root)
			assert.InDelta(t, 0, pts[1].Y, 1e-6, "%s at root %v", fn, root)
		}
	}
}

func TestRange_MobiusExcludesAsymptote(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("(x+1)/(x-2)", "")
	require.NoError(t, err)
	assert.Equal(t, "ℝ \\ { 1.00 }", rep.Range.Summary)
}

func TestRange_OddPolynomialIsAllReals(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("x**3 - x", "")
	require.NoError(t, err)
	assert.Equal(t, "ℝ", rep.Range.Summary)
}

// ============================================================
// Pipeline errors
// ============================================================

func TestAnalyze_ParseErrorStopsPipeline(t *testing.T) {
	_, err := quietAnalyzer().Analyze("x +* 2", "")
	assert.ErrorIs(t, err, funcanalyze.ErrParse)
}

func TestAnalyze_BadPointStopsPipeline(t *testing.T) {
	_, err := quietAnalyzer().Analyze("x + 1", "two")
	assert.ErrorIs(t, err, funcanalyze.ErrParse)
}

func TestAnalyze_WrongVariable(t *testing.T) {
	_, err := quietAnalyzer().Analyze("a + b", "")
	assert.ErrorIs(t, err, funcanalyze.ErrValidation)
}

// ============================================================
// Report surface
// ============================================================

func TestReport_JSONRoundTrip(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("log(x + 1)", "1")
	require.NoError(t, err)

	data, err := json.Marshal(rep)
	require.NoError(t, err)

	var decoded struct {
		ID     string `json:"id"`
		Domain struct {
			Restrictions []string `json:"restrictions"`
		} `json:"domain"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotEmpty(t, decoded.ID)
	assert.Equal(t, []string{"x + 1 > 0"}, decoded.Domain.Restrictions)
}

func TestReport_Render(t *testing.T) {
	rep, err := quietAnalyzer().Analyze("x**2 - 4", "1")
	require.NoError(t, err)
	text := rep.Render()
	assert.Contains(t, text, "Domain: ℝ")
	assert.Contains(t, text, "Range: [-4.00, ∞)")
	assert.Contains(t, text, "Evaluation at x = 1")
	assert.Contains(t, text, "ordered pair: (1.00, -3.00)")
}

func TestExamples_AllAnalyzable(t *testing.T) {
	a := quietAnalyzer()
	for _, ex := range funcanalyze.Examples() {
		_, err := a.Analyze(ex, "")
		assert.NoError(t, err, "example %q", ex)
	}
}

// ============================================================
// Plot sampling
// ============================================================

func TestSamplePlot_Polynomial(t *testing.T) {
	pts, err := funcanalyze.SamplePlot("x**2", 0, 2, 3)
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.InDelta(t, 0, pts[0].Y, 1e-12)
	assert.InDelta(t, 1, pts[1].Y, 1e-12)
	assert.InDelta(t, 4, pts[2].Y, 1e-12)
}

func TestSamplePlot_GapAtPole(t *testing.T) {
	pts, err := funcanalyze.SamplePlot("1/x", -1, 1, 3)
	require.NoError(t, err)
	require.Len(t, pts, 3)
	assert.False(t, pts[0].Gap)
	assert.True(t, pts[1].Gap, "x = 0 should be a gap")
	assert.False(t, pts[2].Gap)
}

func TestSamplePlot_GapOutsideDomain(t *testing.T) {
	pts, err := funcanalyze.SamplePlot("sqrt(x)", -1, 1, 3)
	require.NoError(t, err)
	assert.True(t, pts[0].Gap, "sqrt(-1) should be a gap")
	assert.False(t, pts[2].Gap)
}

func TestSamplePlot_BadWindow(t *testing.T) {
	_, err := funcanalyze.SamplePlot("x", 1, -1, 10)
	assert.Error(t, err)
	_, err = funcanalyze.SamplePlot("x", 0, 1, 1)
	assert.Error(t, err)
}
