package funcanalyze

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/njchilds90/funcanalyze/symbolic"
)

// ============================================================
// Domain analysis
// ============================================================

// CompareOp is the comparison a Restriction applies to its
// subexpression, always against zero.
type CompareOp int

const (
	OpNe CompareOp = iota // subexpression != 0
	OpGt                  // subexpression > 0
	OpGe                  // subexpression >= 0
)

func (op CompareOp) String() string {
	switch op {
	case OpNe:
		return "≠"
	case OpGt:
		return ">"
	case OpGe:
		return "≥"
	}
	return "?"
}

// Restriction is a relational constraint a domain-admissible value must
// satisfy: Expr compared against zero under Op. For OpNe, Excluded
// carries the solved violation points when the solver found them.
type Restriction struct {
	Expr     symbolic.Expr
	Op       CompareOp
	Excluded []float64
}

// Describe renders the constraint for traces and violation details.
func (r Restriction) Describe() string {
	return fmt.Sprintf("%s %s 0", r.Expr, r.Op)
}

// MarshalJSON renders the restriction as its description; the
// expression tree itself has no JSON form.
func (r Restriction) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Describe())
}

const satTol = 1e-9

// SatisfiedAt substitutes a value into the restriction's subexpression
// and checks the comparison numerically. Operands that are not real
// count as a violation.
func (r Restriction) SatisfiedAt(x symbolic.Expr) (bool, string) {
	sub := r.Expr.Substitute("x", x).Simplify()
	v, err := symbolic.Evaluate(sub)
	if err != nil {
		return false, fmt.Sprintf("%s: value is complex or undefined", r.Describe())
	}
	var ok bool
	switch r.Op {
	case OpNe:
		ok = math.Abs(v) > satTol
	case OpGt:
		ok = v > 0
	case OpGe:
		ok = v >= 0
	}
	if !ok {
		return false, fmt.Sprintf("violates %s (got %s)", r.Describe(), Format(v))
	}
	return true, ""
}

// DomainResult is the outcome of domain analysis: a human-readable
// summary, the reasoning trace, and the restriction set that defines
// admissibility.
type DomainResult struct {
	Summary      string        `json:"summary"`
	Trace        []string      `json:"trace"`
	Restrictions []Restriction `json:"restrictions,omitempty"`
	Fallback     *Fallback     `json:"fallback,omitempty"`
}

// AnalyzeDomain derives the restriction set of an expression in x and a
// summary of the admissible values.
func AnalyzeDomain(e symbolic.Expr) DomainResult {
	return analyzeDomainVar(e, "x")
}

// analyzeDomainVar is the variable-parameterized form; the range
// analyzer reuses it on inverse expressions in y.
func analyzeDomainVar(e symbolic.Expr, varName string) (res DomainResult) {
	defer func() {
		if r := recover(); r != nil {
			res = DomainResult{
				Summary:  "could not compute the domain",
				Trace:    append(res.Trace, fmt.Sprintf("internal failure: %v", r)),
				Fallback: &Fallback{Reason: fmt.Sprintf("internal failure: %v", r)},
			}
		}
	}()

	res.Trace = append(res.Trace, fmt.Sprintf("analyzing restrictions of %s", e))

	var (
		excluded   []float64
		conditions []string
		seen       = map[string]bool{}
	)

	// Rule 1: denominators must not vanish.
	_, den := symbolic.SplitQuotient(e)
	if !den.Equal(symbolic.Int(1)) {
		r := Restriction{Expr: den, Op: OpNe}
		res.Trace = append(res.Trace, fmt.Sprintf("denominator found: %s", den))
		if factored := symbolic.Factor(den, varName); !factored.Equal(den) {
			res.Trace = append(res.Trace, fmt.Sprintf("denominator factors as %s", factored))
		}
		roots, err := symbolic.SolveRoots(den, varName)
		if err != nil {
			res.Trace = append(res.Trace, fmt.Sprintf("could not solve %s = 0: %v", den, err))
		} else {
			for _, root := range roots {
				v, verr := symbolic.Evaluate(root)
				if verr != nil {
					continue
				}
				r.Excluded = append(r.Excluded, v)
				excluded = append(excluded, v)
				res.Trace = append(res.Trace,
					fmt.Sprintf("%s = 0 at %s = %s, excluded from the domain", den, varName, Format(v)))
			}
			if len(roots) == 0 {
				res.Trace = append(res.Trace, fmt.Sprintf("denominator %s has no real zeros", den))
			}
		}
		res.Restrictions = append(res.Restrictions, r)
	}

	// Rule 2: logarithm arguments must be positive.
	for _, call := range symbolic.FindCalls(e, "log") {
		arg := call.Arg()
		key := "log:" + arg.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		r := Restriction{Expr: arg, Op: OpGt}
		res.Trace = append(res.Trace, fmt.Sprintf("logarithm requires %s", r.Describe()))
		cond, keep := solveRestriction(arg, varName, true, &res)
		if !keep {
			continue
		}
		if cond != "" {
			conditions = append(conditions, cond)
		}
		res.Restrictions = append(res.Restrictions, r)
	}

	// Rule 3: even-index radical bases must be non-negative.
	for _, pow := range symbolic.FindPowers(e) {
		n, ok := pow.Exponent().(*symbolic.Number)
		if !ok || n.IsInteger() || n.Rat().Denom().Bit(0) != 0 {
			continue
		}
		base := pow.Base()
		key := "root:" + base.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		r := Restriction{Expr: base, Op: OpGe}
		res.Trace = append(res.Trace, fmt.Sprintf("even-index root requires %s", r.Describe()))
		cond, keep := solveRestriction(base, varName, false, &res)
		if !keep {
			continue
		}
		if cond != "" {
			conditions = append(conditions, cond)
		}
		res.Restrictions = append(res.Restrictions, r)
	}

	res.Summary = domainSummary(varName, excluded, conditions)
	res.Trace = append(res.Trace, fmt.Sprintf("domain: %s", res.Summary))
	return res
}

// solveRestriction solves expr > 0 (strict) or expr >= 0 over the reals
// and returns the display condition. keep=false means the constraint
// holds everywhere and contributes nothing to the restriction set.
func solveRestriction(expr symbolic.Expr, varName string, strict bool, res *DomainResult) (cond string, keep bool) {
	ivs, err := symbolic.SolveSign(expr, varName, strict)
	if err != nil {
		// Unsolved: keep the structural restriction for membership
		// checks, describe it verbatim.
		res.Trace = append(res.Trace, fmt.Sprintf("could not solve the inequality: %v", err))
		op := "≥"
		if strict {
			op = ">"
		}
		return fmt.Sprintf("%s %s 0", expr, op), true
	}
	if symbolic.IsAllReals(ivs) {
		res.Trace = append(res.Trace, fmt.Sprintf("%s holds for every real %s", expr, varName))
		return "", false
	}
	if len(ivs) == 0 {
		res.Trace = append(res.Trace, fmt.Sprintf("%s is never satisfied", expr))
		return fmt.Sprintf("no real %s satisfies the condition", varName), true
	}
	return describeIntervals(ivs, varName), true
}

// describeIntervals renders a solution set: half-lines as inequalities,
// anything else in interval notation.
func describeIntervals(ivs []symbolic.Interval, varName string) string {
	if len(ivs) == 1 {
		iv := ivs[0]
		switch {
		case math.IsInf(iv.Lo, -1) && !math.IsInf(iv.Hi, 1):
			if iv.HiOpen {
				return fmt.Sprintf("%s < %s", varName, Format(iv.Hi))
			}
			return fmt.Sprintf("%s ≤ %s", varName, Format(iv.Hi))
		case !math.IsInf(iv.Lo, -1) && math.IsInf(iv.Hi, 1):
			if iv.LoOpen {
				return fmt.Sprintf("%s > %s", varName, Format(iv.Lo))
			}
			return fmt.Sprintf("%s ≥ %s", varName, Format(iv.Lo))
		}
	}
	parts := make([]string, len(ivs))
	for i, iv := range ivs {
		parts[i] = formatInterval(iv)
	}
	return strings.Join(parts, " ∪ ")
}

func formatInterval(iv symbolic.Interval) string {
	lo, hi := "-∞", "∞"
	lb, rb := "(", ")"
	if !math.IsInf(iv.Lo, -1) {
		lo = Format(iv.Lo)
		if !iv.LoOpen {
			lb = "["
		}
	}
	if !math.IsInf(iv.Hi, 1) {
		hi = Format(iv.Hi)
		if !iv.HiOpen {
			rb = "]"
		}
	}
	return fmt.Sprintf("%s%s, %s%s", lb, lo, hi, rb)
}

// domainSummary joins the point exclusions and interval conditions into
// the final domain line.
func domainSummary(varName string, excluded []float64, conditions []string) string {
	excluded = dedupeSorted(excluded)
	if len(conditions) == 0 {
		if len(excluded) == 0 {
			return "ℝ"
		}
		parts := make([]string, len(excluded))
		for i, v := range excluded {
			parts[i] = Format(v)
		}
		return fmt.Sprintf("ℝ \\ { %s }", strings.Join(parts, ", "))
	}
	parts := append([]string(nil), conditions...)
	for _, v := range excluded {
		parts = append(parts, fmt.Sprintf("%s ≠ %s", varName, Format(v)))
	}
	return strings.Join(parts, ", ")
}

func dedupeSorted(vals []float64) []float64 {
	if len(vals) == 0 {
		return vals
	}
	sort.Float64s(vals)
	out := vals[:1]
	for _, v := range vals[1:] {
		if math.Abs(v-out[len(out)-1]) > satTol {
			out = append(out, v)
		}
	}
	return out
}
