package symbolic

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnsolvable marks an equation or inequality no solving strategy covers.
// It is an expected outcome for much of the input space, not a bug.
var ErrUnsolvable = errors.New("no solving strategy applies")

const rootTol = 1e-9

// SolveRoots returns the real solutions of e = 0 in varName. Rational
// expressions are solved on the numerator with denominator zeros filtered
// out. Solutions are exact where the arithmetic allows (rational roots,
// perfect-square discriminants) and numeric otherwise.
func SolveRoots(e Expr, varName string) ([]Expr, error) {
	e = e.Simplify()
	num, den := SplitQuotient(e)
	roots, err := solveZero(num, varName)
	if err != nil {
		return nil, err
	}
	if isOne(den) {
		return roots, nil
	}
	kept := roots[:0]
	for _, r := range roots {
		dv, derr := evalAtExpr(den, varName, r)
		if derr == nil && math.Abs(dv) < rootTol {
			continue // pole, not a root
		}
		kept = append(kept, r)
	}
	return kept, nil
}

func solveZero(e Expr, varName string) ([]Expr, error) {
	if !contains(e, varName) {
		// Constant expression: either no roots or an identity; both yield an
		// empty solution list.
		return nil, nil
	}

	switch v := e.(type) {
	case *Product:
		var all []Expr
		for _, f := range v.factors {
			if !contains(f, varName) {
				continue
			}
			roots, err := solveZero(f, varName)
			if err != nil {
				return nil, err
			}
			all = append(all, roots...)
		}
		return dedupeRoots(all), nil

	case *Power:
		if n, ok := v.exp.(*Number); ok && n.Sign() > 0 {
			return solveZero(v.base, varName)
		}

	case *Call:
		switch v.fn {
		case "log":
			// log(u) = 0 iff u = 1.
			return solveZero(Minus(v.arg, Int(1)).Simplify(), varName)
		case "exp":
			return nil, nil
		case "abs", "sqrt":
			return solveZero(v.arg, varName)
		}
	}

	if deg, ok := Degree(e, varName); ok {
		return solvePolynomial(e, varName, deg)
	}
	return nil, fmt.Errorf("%w: %s = 0", ErrUnsolvable, e)
}

func solvePolynomial(e Expr, varName string, deg int) ([]Expr, error) {
	coeffs, ok := Coefficients(e, varName)
	if !ok {
		return nil, fmt.Errorf("%w: %s = 0", ErrUnsolvable, e)
	}
	get := func(d int) Expr {
		if c, ok := coeffs[d]; ok {
			return c
		}
		return Int(0)
	}
	for d := 0; d <= deg; d++ {
		if !IsConstant(get(d)) {
			return nil, fmt.Errorf("%w: non-constant coefficient in %s", ErrUnsolvable, e)
		}
	}

	switch deg {
	case 0:
		return nil, nil
	case 1:
		// a*x + b = 0.
		return []Expr{NewProduct(Int(-1), get(0), Reciprocal(get(1))).Simplify()}, nil
	case 2:
		return solveQuadratic(get(2), get(1), get(0))
	case 3:
		return solveCubic(get(3), get(2), get(1), get(0))
	}
	return newtonSweep(e, varName)
}

// solveQuadratic builds the real roots of a*x^2 + b*x + c = 0 symbolically;
// Simplify collapses perfect-square discriminants to exact rationals.
func solveQuadratic(a, b, c Expr) ([]Expr, error) {
	disc := NewSum(NewPower(b, Int(2)), NewProduct(Int(-4), a, c)).Simplify()
	dv, err := Evaluate(disc)
	if err != nil {
		return nil, fmt.Errorf("%w: discriminant %s", ErrUnsolvable, disc)
	}
	twoA := NewProduct(Int(2), a)
	if dv < -rootTol {
		return nil, nil // complex pair
	}
	if math.Abs(dv) <= rootTol {
		return []Expr{NewProduct(Int(-1), b, Reciprocal(twoA)).Simplify()}, nil
	}
	sq := Sqrt(disc)
	x1 := Div(NewSum(Negate(b), sq), twoA).Simplify()
	x2 := Div(NewSum(Negate(b), Negate(sq)), twoA).Simplify()
	return []Expr{x1, x2}, nil
}

// solveCubic uses the trigonometric/Cardano method on float coefficients.
func solveCubic(a, b, c, d Expr) ([]Expr, error) {
	af, err1 := Evaluate(a)
	bf, err2 := Evaluate(b)
	cf, err3 := Evaluate(c)
	df, err4 := Evaluate(d)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil, fmt.Errorf("%w: cubic with non-numeric coefficients", ErrUnsolvable)
	}
	if af == 0 {
		return solveQuadratic(b, c, d)
	}
	p := (3*af*cf - bf*bf) / (3 * af * af)
	q := (2*bf*bf*bf - 9*af*bf*cf + 27*af*af*df) / (27 * af * af * af)
	offset := bf / (3 * af)
	disc := -(4*p*p*p + 27*q*q)

	var roots []Expr
	switch {
	case disc > rootTol:
		m := 2 * math.Sqrt(-p/3)
		theta := math.Acos(3*q/(p*m)) / 3
		for k := 0; k < 3; k++ {
			roots = append(roots, Float(m*math.Cos(theta-2*math.Pi*float64(k)/3)-offset))
		}
	case disc >= -rootTol:
		if math.Abs(q) <= rootTol {
			roots = []Expr{Float(-offset)}
		} else {
			roots = []Expr{Float(3*q/p - offset), Float(-3*q/(2*p) - offset)}
		}
	default:
		big := math.Cbrt(-q/2 + math.Sqrt(q*q/4+p*p*p/27))
		small := 0.0
		if big != 0 {
			small = -p / (3 * big)
		}
		roots = []Expr{Float(big + small - offset)}
	}
	return dedupeRoots(roots), nil
}

// newtonSweep finds real roots of a higher-degree polynomial by Newton
// iteration from a grid of starting points over [-100, 100].
func newtonSweep(e Expr, varName string) ([]Expr, error) {
	const (
		searchRange = 100.0
		gridSteps   = 200
		maxIter     = 100
	)
	deriv := e.Derivative(varName).Simplify()

	var found []float64
	for i := 0; i <= gridSteps; i++ {
		x := -searchRange + 2*searchRange*float64(i)/gridSteps
		for iter := 0; iter < maxIter; iter++ {
			fx, err := evalAt(e, varName, x)
			if err != nil {
				break
			}
			if math.Abs(fx) < rootTol {
				dup := false
				for _, r := range found {
					if math.Abs(r-x) < rootTol*100 {
						dup = true
						break
					}
				}
				if !dup {
					found = append(found, x)
				}
				break
			}
			dfx, err := evalAt(deriv, varName, x)
			if err != nil || math.Abs(dfx) < 1e-15 {
				break
			}
			x -= fx / dfx
			if math.Abs(x) > searchRange*10 {
				break
			}
		}
	}
	sort.Float64s(found)
	roots := make([]Expr, len(found))
	for i, r := range found {
		roots[i] = Float(r)
	}
	return roots, nil
}

func dedupeRoots(roots []Expr) []Expr {
	var out []Expr
	var seen []float64
	for _, r := range roots {
		v, err := Evaluate(r)
		if err != nil {
			out = append(out, r)
			continue
		}
		dup := false
		for _, s := range seen {
			if math.Abs(s-v) < rootTol*100 {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, v)
			out = append(out, r)
		}
	}
	return out
}

// SolveFor solves f(target) = eqVar for target and returns the solution
// family as expressions in eqVar. Only expressions linear in target after
// clearing denominators are handled (the Möbius family); everything else is
// left to the caller's structural fallbacks.
func SolveFor(f Expr, eqVar, target string) ([]Expr, error) {
	residual := Minus(f, Var(eqVar)).Simplify()
	num, _ := SplitQuotient(residual)
	coeffs, ok := Coefficients(num, target)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not rational in %s", ErrUnsolvable, f, target)
	}
	maxDeg := 0
	for d, c := range coeffs {
		if n, isNum := c.(*Number); isNum && n.IsZero() {
			continue
		}
		if d > maxDeg {
			maxDeg = d
		}
	}
	if maxDeg != 1 {
		return nil, fmt.Errorf("%w: degree %d in %s", ErrUnsolvable, maxDeg, target)
	}
	a := coeffs[1]
	b, okB := coeffs[0]
	if !okB {
		b = Int(0)
	}
	return []Expr{NewProduct(Int(-1), b, Reciprocal(a)).Simplify()}, nil
}

// ============================================================
// Inequality solving
// ============================================================

// Interval is a connected subset of the real line. Infinite endpoints use
// math.Inf.
type Interval struct {
	Lo, Hi         float64
	LoOpen, HiOpen bool
}

// IsAllReals reports whether the interval list covers the entire line.
func IsAllReals(ivs []Interval) bool {
	return len(ivs) == 1 &&
		math.IsInf(ivs[0].Lo, -1) && math.IsInf(ivs[0].Hi, 1)
}

// SolveSign solves e > 0 (strict) or e >= 0 (non-strict) over the reals by
// locating the real roots and poles of e and sampling the sign between them.
// It covers expressions whose roots SolveRoots can find; anything else, or a
// sample point where e cannot be evaluated, returns ErrUnsolvable.
func SolveSign(e Expr, varName string, strict bool) ([]Interval, error) {
	e = e.Simplify()
	roots, err := SolveRoots(e, varName)
	if err != nil {
		return nil, err
	}

	type breakpoint struct {
		at   float64
		pole bool
	}
	var bps []breakpoint
	for _, r := range roots {
		if v, verr := Evaluate(r); verr == nil {
			bps = append(bps, breakpoint{at: v})
		}
	}
	// Poles split the sign pattern too: 1/x changes sign at 0 without a root.
	if _, den := SplitQuotient(e); !isOne(den) {
		poles, perr := SolveRoots(den, varName)
		if perr != nil {
			return nil, perr
		}
		for _, p := range poles {
			if v, verr := Evaluate(p); verr == nil {
				bps = append(bps, breakpoint{at: v, pole: true})
			}
		}
	}
	sort.Slice(bps, func(i, j int) bool { return bps[i].at < bps[j].at })

	bounds := make([]float64, 0, len(bps)+2)
	if len(bps) == 0 {
		bounds = append(bounds, 0)
	} else {
		bounds = append(bounds, bps[0].at-1)
		for i := 0; i < len(bps)-1; i++ {
			bounds = append(bounds, (bps[i].at+bps[i+1].at)/2)
		}
		bounds = append(bounds, bps[len(bps)-1].at+1)
	}

	positive := make([]bool, len(bounds))
	for i, x := range bounds {
		v, verr := evalAt(e, varName, x)
		if verr != nil {
			// Undefined at a sample point means the sign pattern is unknown,
			// not that the inequality fails there.
			return nil, fmt.Errorf("%w: %s undefined at sample %v", ErrUnsolvable, e, x)
		}
		positive[i] = v > 0
	}

	var out []Interval
	for i, pos := range positive {
		if !pos {
			continue
		}
		iv := Interval{Lo: math.Inf(-1), Hi: math.Inf(1), LoOpen: true, HiOpen: true}
		if i > 0 {
			iv.Lo = bps[i-1].at
			iv.LoOpen = strict || bps[i-1].pole
		}
		if i < len(bps) {
			iv.Hi = bps[i].at
			iv.HiOpen = strict || bps[i].pole
		}
		out = append(out, iv)
	}
	return mergeAdjacent(out), nil
}

// mergeAdjacent joins intervals that share a closed endpoint, e.g.
// [a, r] ∪ [r, b] -> [a, b].
func mergeAdjacent(ivs []Interval) []Interval {
	if len(ivs) < 2 {
		return ivs
	}
	out := []Interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &out[len(out)-1]
		if last.Hi == iv.Lo && !last.HiOpen && !iv.LoOpen {
			last.Hi = iv.Hi
			last.HiOpen = iv.HiOpen
			continue
		}
		out = append(out, iv)
	}
	return out
}

func evalAt(e Expr, varName string, x float64) (float64, error) {
	return Evaluate(e.Substitute(varName, Float(x)))
}

func evalAtExpr(e Expr, varName string, x Expr) (float64, error) {
	return Evaluate(e.Substitute(varName, x))
}
