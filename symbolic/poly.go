package symbolic

import "math/big"

// Polynomial and rational-structure utilities.

// Expand distributes products over sums and expands small integer powers.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Product:
		factors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			factors[i] = expandExpr(f)
		}
		for i, f := range factors {
			if sum, ok := f.(*Sum); ok {
				rest := make([]Expr, 0, len(factors)-1)
				for j, other := range factors {
					if j != i {
						rest = append(rest, other)
					}
				}
				terms := make([]Expr, len(sum.terms))
				for k, t := range sum.terms {
					terms[k] = expandExpr(NewProduct(append([]Expr{t}, rest...)...))
				}
				return expandExpr(NewSum(terms...))
			}
		}
		return NewProduct(factors...)
	case *Sum:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = expandExpr(t)
		}
		return NewSum(terms...)
	case *Power:
		if n, ok := v.exp.(*Number); ok && n.IsInteger() {
			e := n.Int64()
			if e >= 0 && e <= 10 {
				result := Expr(Int(1))
				base := expandExpr(v.base)
				for i := int64(0); i < e; i++ {
					result = expandExpr(NewProduct(result, base))
				}
				return result
			}
		}
		return &Power{base: expandExpr(v.base), exp: expandExpr(v.exp)}
	}
	return e
}

// Degree reports the degree of e as a polynomial in varName. The second
// return is false when e is not polynomial in varName (the variable appears
// inside a function call, a fractional power, or an exponent).
func Degree(e Expr, varName string) (int, bool) {
	switch v := e.(type) {
	case *Number, *Constant:
		return 0, true
	case *Symbol:
		if v.name == varName {
			return 1, true
		}
		return 0, true
	case *Sum:
		max := 0
		for _, t := range v.terms {
			d, ok := Degree(t, varName)
			if !ok {
				return 0, false
			}
			if d > max {
				max = d
			}
		}
		return max, true
	case *Product:
		total := 0
		for _, f := range v.factors {
			d, ok := Degree(f, varName)
			if !ok {
				return 0, false
			}
			total += d
		}
		return total, true
	case *Power:
		if contains(v.exp, varName) {
			return 0, false
		}
		n, expIsNum := v.exp.(*Number)
		if !contains(v.base, varName) {
			return 0, true
		}
		if !expIsNum || !n.IsInteger() || n.Sign() < 0 {
			return 0, false
		}
		baseDeg, ok := Degree(v.base, varName)
		if !ok {
			return 0, false
		}
		return baseDeg * int(n.Int64()), true
	case *Call:
		if contains(v.arg, varName) {
			return 0, false
		}
		return 0, true
	}
	return 0, false
}

// IsPolynomial reports whether e is a polynomial in varName.
func IsPolynomial(e Expr, varName string) bool {
	_, ok := Degree(e, varName)
	return ok
}

// IsRational reports whether e is a ratio of two polynomials in varName.
func IsRational(e Expr, varName string) bool {
	num, den := SplitQuotient(e)
	return IsPolynomial(num, varName) && IsPolynomial(den, varName)
}

func contains(e Expr, varName string) bool {
	_, ok := FreeSymbols(e)[varName]
	return ok
}

// Coefficients extracts the coefficient expression for each power of varName.
// Coefficients may themselves contain other symbols. The second return is
// false when e is not polynomial in varName.
func Coefficients(e Expr, varName string) (map[int]Expr, bool) {
	if !IsPolynomial(e, varName) {
		return nil, false
	}
	out := map[int]Expr{}
	if !collectCoeffs(Expand(e), varName, out) {
		return nil, false
	}
	return out, true
}

func collectCoeffs(e Expr, varName string, out map[int]Expr) bool {
	switch v := e.(type) {
	case *Sum:
		for _, t := range v.terms {
			if !collectCoeffs(t, varName, out) {
				return false
			}
		}
		return true
	default:
		deg, coeff, ok := monomial(e, varName)
		if !ok {
			return false
		}
		addCoeff(out, deg, coeff)
		return true
	}
}

// monomial decomposes a product-free-of-sums term into (degree, coefficient).
func monomial(e Expr, varName string) (int, Expr, bool) {
	switch v := e.(type) {
	case *Number, *Constant:
		return 0, e, true
	case *Symbol:
		if v.name == varName {
			return 1, Int(1), true
		}
		return 0, v, true
	case *Power:
		if !contains(v, varName) {
			return 0, v, true
		}
		sym, symOK := v.base.(*Symbol)
		n, numOK := v.exp.(*Number)
		if symOK && sym.name == varName && numOK && n.IsInteger() && n.Sign() >= 0 {
			return int(n.Int64()), Int(1), true
		}
		return 0, nil, false
	case *Product:
		deg := 0
		coeffs := make([]Expr, 0, len(v.factors))
		for _, f := range v.factors {
			d, c, ok := monomial(f, varName)
			if !ok {
				return 0, nil, false
			}
			deg += d
			if n, isNum := c.(*Number); !isNum || !n.IsOne() {
				coeffs = append(coeffs, c)
			}
		}
		switch len(coeffs) {
		case 0:
			return deg, Int(1), true
		case 1:
			return deg, coeffs[0], true
		}
		return deg, NewProduct(coeffs...), true
	case *Call:
		if contains(v.arg, varName) {
			return 0, nil, false
		}
		return 0, v, true
	}
	return 0, nil, false
}

func addCoeff(out map[int]Expr, deg int, c Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = NewSum(existing, c)
	} else {
		out[deg] = c.Simplify()
	}
}

// LeadingCoeff returns the coefficient of the highest power of varName.
func LeadingCoeff(e Expr, varName string) (Expr, int, bool) {
	coeffs, ok := Coefficients(e, varName)
	if !ok || len(coeffs) == 0 {
		return nil, 0, false
	}
	max := -1
	for d, c := range coeffs {
		if n, isNum := c.(*Number); isNum && n.IsZero() {
			continue
		}
		if d > max {
			max = d
		}
	}
	if max < 0 {
		return Int(0), 0, true
	}
	return coeffs[max], max, true
}

// SplitQuotient rewrites e as a single numerator/denominator pair. Sums are
// put over a common denominator; an expression with no division parts returns
// denominator 1.
func SplitQuotient(e Expr) (num, den Expr) {
	n, d := splitQuotient(e.Simplify())
	return n.Simplify(), d.Simplify()
}

func splitQuotient(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Power:
		if n, ok := v.exp.(*Number); ok && n.Sign() < 0 {
			return Int(1), NewPower(v.base, fromRat(new(big.Rat).Neg(n.val)))
		}
		return e, Int(1)
	case *Product:
		nums := []Expr{}
		dens := []Expr{}
		for _, f := range v.factors {
			fn, fd := splitQuotient(f)
			if !isOne(fn) {
				nums = append(nums, fn)
			}
			if !isOne(fd) {
				dens = append(dens, fd)
			}
		}
		return productOf(nums), productOf(dens)
	case *Sum:
		// Put all terms over a common denominator, deduplicating equal
		// denominators by their rendered form.
		type part struct {
			num Expr
			den Expr
		}
		parts := make([]part, 0, len(v.terms))
		denOrder := []string{}
		denByKey := map[string]Expr{}
		for _, t := range v.terms {
			tn, td := splitQuotient(t)
			parts = append(parts, part{num: tn, den: td})
			key := td.String()
			if _, seen := denByKey[key]; !seen && !isOne(td) {
				denOrder = append(denOrder, key)
				denByKey[key] = td
			}
		}
		if len(denOrder) == 0 {
			return e, Int(1)
		}
		terms := make([]Expr, 0, len(parts))
		for _, p := range parts {
			factors := []Expr{p.num}
			for _, key := range denOrder {
				if key != p.den.String() {
					factors = append(factors, denByKey[key])
				}
			}
			terms = append(terms, NewProduct(factors...))
		}
		dens := make([]Expr, 0, len(denOrder))
		for _, key := range denOrder {
			dens = append(dens, denByKey[key])
		}
		return NewSum(terms...), productOf(dens)
	}
	return e, Int(1)
}

// Factor rewrites a constant-coefficient polynomial as a product of linear
// factors over its rational roots, e.g. x^2 - 1 -> (x + 1)*(x - 1). Repeated
// roots collapse into powers. Expressions that are not polynomials of degree
// at least two, or that have no rational roots, come back unchanged.
func Factor(e Expr, varName string) Expr {
	deg, ok := Degree(e, varName)
	if !ok || deg < 2 {
		return e
	}
	coeffs, ok := Coefficients(e, varName)
	if !ok {
		return e
	}
	rats := make([]*big.Rat, deg+1)
	for d := 0; d <= deg; d++ {
		c, present := coeffs[d]
		if !present {
			rats[d] = new(big.Rat)
			continue
		}
		n, isNum := c.(*Number)
		if !isNum {
			return e
		}
		rats[d] = n.Rat()
	}

	lead := new(big.Rat).Set(rats[deg])
	if lead.Sign() == 0 {
		return e
	}
	for d := range rats {
		rats[d] = new(big.Rat).Quo(rats[d], lead)
	}

	var linear []Expr
	for len(rats) > 2 {
		root, found := rationalRoot(rats)
		if !found {
			break
		}
		linear = append(linear, NewSum(Var(varName), fromRat(new(big.Rat).Neg(root))))
		rats = deflate(rats, root)
	}
	if len(linear) == 0 {
		return e
	}

	factors := make([]Expr, 0, len(linear)+2)
	if lead.Cmp(ratOne) != 0 {
		factors = append(factors, fromRat(lead))
	}
	factors = append(factors, linear...)
	if len(rats) > 1 {
		factors = append(factors, polyFromCoeffs(rats, varName))
	}
	return NewProduct(factors...)
}

// rationalRoot finds one rational root of a monic polynomial given by
// ascending coefficients, using the rational root theorem after clearing
// denominators. Divisor enumeration is capped to keep the search bounded.
func rationalRoot(rats []*big.Rat) (*big.Rat, bool) {
	if rats[0].Sign() == 0 {
		return new(big.Rat), true
	}

	lcm := big.NewInt(1)
	for _, r := range rats {
		g := new(big.Int).GCD(nil, nil, lcm, r.Denom())
		lcm.Mul(lcm, new(big.Int).Div(r.Denom(), g))
	}
	ints := make([]*big.Int, len(rats))
	for i, r := range rats {
		scale := new(big.Int).Div(lcm, r.Denom())
		ints[i] = new(big.Int).Mul(r.Num(), scale)
	}

	const divisorCap = 10000
	a0 := new(big.Int).Abs(ints[0])
	an := new(big.Int).Abs(ints[len(ints)-1])
	if !a0.IsInt64() || !an.IsInt64() || a0.Int64() > divisorCap || an.Int64() > divisorCap {
		return nil, false
	}
	for _, p := range divisors(a0.Int64()) {
		for _, q := range divisors(an.Int64()) {
			for _, sign := range []int64{1, -1} {
				cand := big.NewRat(sign*p, q)
				if polyValue(rats, cand).Sign() == 0 {
					return cand, true
				}
			}
		}
	}
	return nil, false
}

func divisors(n int64) []int64 {
	var out []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d == 0 {
			out = append(out, d)
			if d != n/d {
				out = append(out, n/d)
			}
		}
	}
	return out
}

// polyValue evaluates ascending coefficients at x by Horner's rule.
func polyValue(rats []*big.Rat, x *big.Rat) *big.Rat {
	acc := new(big.Rat)
	for i := len(rats) - 1; i >= 0; i-- {
		acc.Mul(acc, x)
		acc.Add(acc, rats[i])
	}
	return acc
}

// deflate divides ascending coefficients by (x - root); the root is exact, so
// the remainder is zero and the quotient has degree one less.
func deflate(rats []*big.Rat, root *big.Rat) []*big.Rat {
	n := len(rats) - 1
	out := make([]*big.Rat, n)
	out[n-1] = new(big.Rat).Set(rats[n])
	for k := n - 2; k >= 0; k-- {
		out[k] = new(big.Rat).Add(rats[k+1], new(big.Rat).Mul(root, out[k+1]))
	}
	return out
}

func polyFromCoeffs(rats []*big.Rat, varName string) Expr {
	terms := make([]Expr, 0, len(rats))
	for d, c := range rats {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, NewProduct(fromRat(c), NewPower(Var(varName), Int(int64(d)))))
	}
	return NewSum(terms...)
}

func isOne(e Expr) bool {
	n, ok := e.(*Number)
	return ok && n.IsOne()
}

func productOf(factors []Expr) Expr {
	switch len(factors) {
	case 0:
		return Int(1)
	case 1:
		return factors[0]
	}
	return NewProduct(factors...)
}
