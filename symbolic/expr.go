// Package symbolic is a small deterministic symbolic math kernel: expression
// trees over exact rationals with simplification, substitution,
// differentiation, polynomial utilities, real-root solving and safe numeric
// evaluation. It covers the restricted grammar the analyzer needs
// (polynomials, rational functions, logarithms, radicals, trig, abs, exp)
// rather than a general CAS.
package symbolic

import (
	"math"
	"math/big"
	"sort"
	"strings"
)

// Expr is an immutable algebraic term. Simplify returns a new tree and never
// mutates the receiver; the same input always simplifies to the same output.
type Expr interface {
	Simplify() Expr
	String() string
	Substitute(name string, value Expr) Expr
	Derivative(name string) Expr
	Equal(other Expr) bool
}

// ============================================================
// Number — exact rational
// ============================================================

type Number struct{ val *big.Rat }

func Int(n int64) *Number { return &Number{val: new(big.Rat).SetInt64(n)} }

func Rat(p, q int64) *Number {
	if q == 0 {
		panic("symbolic: zero denominator")
	}
	return &Number{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

func Float(f float64) *Number { return &Number{val: new(big.Rat).SetFloat64(f)} }

func fromRat(r *big.Rat) *Number { return &Number{val: new(big.Rat).Set(r)} }

func (n *Number) Simplify() Expr              { return n }
func (n *Number) Substitute(string, Expr) Expr { return n }
func (n *Number) Derivative(string) Expr      { return Int(0) }
func (n *Number) Rat() *big.Rat               { return new(big.Rat).Set(n.val) }
func (n *Number) Sign() int                   { return n.val.Sign() }
func (n *Number) IsZero() bool                { return n.val.Sign() == 0 }
func (n *Number) IsOne() bool                 { return n.val.Cmp(ratOne) == 0 }
func (n *Number) IsNegOne() bool              { return n.val.Cmp(ratNegOne) == 0 }
func (n *Number) IsInteger() bool             { return n.val.IsInt() }

func (n *Number) Int64() int64 { return n.val.Num().Int64() }

func (n *Number) Float64() float64 {
	f, _ := n.val.Float64()
	return f
}

func (n *Number) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Number) Equal(other Expr) bool {
	o, ok := other.(*Number)
	return ok && n.val.Cmp(o.val) == 0
}

var (
	ratOne    = new(big.Rat).SetInt64(1)
	ratNegOne = new(big.Rat).SetInt64(-1)
)

// ============================================================
// Symbol — free variable
// ============================================================

type Symbol struct{ name string }

func Var(name string) *Symbol { return &Symbol{name: name} }

func (s *Symbol) Simplify() Expr { return s }
func (s *Symbol) String() string { return s.name }
func (s *Symbol) Name() string   { return s.name }

func (s *Symbol) Substitute(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Symbol) Derivative(name string) Expr {
	if s.name == name {
		return Int(1)
	}
	return Int(0)
}

func (s *Symbol) Equal(other Expr) bool {
	o, ok := other.(*Symbol)
	return ok && s.name == o.name
}

// ============================================================
// Constant — named irrational constant (pi, e)
// ============================================================

// Constant is a named constant with a known numeric value. It is not a free
// symbol: validation and solving treat it like a number.
type Constant struct {
	name  string
	value float64
}

var (
	Pi = &Constant{name: "pi", value: math.Pi}
	E  = &Constant{name: "e", value: math.E}
)

func (c *Constant) Simplify() Expr              { return c }
func (c *Constant) String() string              { return c.name }
func (c *Constant) Name() string                { return c.name }
func (c *Constant) Value() float64              { return c.value }
func (c *Constant) Substitute(string, Expr) Expr { return c }
func (c *Constant) Derivative(string) Expr      { return Int(0) }

func (c *Constant) Equal(other Expr) bool {
	o, ok := other.(*Constant)
	return ok && c.name == o.name
}

// ============================================================
// Sum — combined terms
// ============================================================

type Sum struct{ terms []Expr }

func NewSum(terms ...Expr) Expr { return (&Sum{terms: terms}).Simplify() }

func (a *Sum) Terms() []Expr { return a.terms }

func (a *Sum) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Sum); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	// Combine like terms by their coefficient-free core.
	numAccum := new(big.Rat)
	type like struct {
		coeff *big.Rat
		core  Expr
	}
	order := []string{}
	likes := map[string]*like{}
	for _, t := range flat {
		if n, ok := t.(*Number); ok {
			numAccum.Add(numAccum, n.val)
			continue
		}
		coeff, core := splitCoefficient(t)
		key := core.String()
		if l, seen := likes[key]; seen {
			l.coeff.Add(l.coeff, coeff)
		} else {
			order = append(order, key)
			likes[key] = &like{coeff: coeff, core: core}
		}
	}

	// Descending term order puts higher powers first: x^2 + 2*x + 1.
	sort.Sort(sort.Reverse(sort.StringSlice(order)))
	result := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		l := likes[key]
		switch {
		case l.coeff.Sign() == 0:
		case l.coeff.Cmp(ratOne) == 0:
			result = append(result, l.core)
		default:
			result = append(result, NewProduct(fromRat(l.coeff), l.core))
		}
	}
	if numAccum.Sign() != 0 {
		result = append(result, fromRat(numAccum))
	}

	switch len(result) {
	case 0:
		return Int(0)
	case 1:
		return result[0]
	}
	return &Sum{terms: result}
}

func (a *Sum) String() string {
	if len(a.terms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, t := range a.terms {
		neg, mag := negatedForm(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(mag)
	}
	return b.String()
}

// negatedForm splits a leading minus sign off a term for display.
func negatedForm(t Expr) (bool, string) {
	switch v := t.(type) {
	case *Number:
		if v.Sign() < 0 {
			return true, fromRat(new(big.Rat).Neg(v.val)).String()
		}
	case *Product:
		if len(v.factors) >= 2 {
			if n, ok := v.factors[0].(*Number); ok && n.Sign() < 0 {
				if n.IsNegOne() {
					return true, (&Product{factors: v.factors[1:]}).String()
				}
				rest := append([]Expr{fromRat(new(big.Rat).Neg(n.val))}, v.factors[1:]...)
				return true, (&Product{factors: rest}).String()
			}
		}
	}
	return false, t.String()
}

func (a *Sum) Substitute(name string, value Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Substitute(name, value)
	}
	return NewSum(out...)
}

func (a *Sum) Derivative(name string) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Derivative(name)
	}
	return NewSum(out...)
}

func (a *Sum) Equal(other Expr) bool {
	o, ok := other.(*Sum)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

// splitCoefficient separates a leading rational coefficient from the rest of
// a term: 3*x*y -> (3, x*y), x -> (1, x).
func splitCoefficient(e Expr) (*big.Rat, Expr) {
	p, ok := e.(*Product)
	if !ok || len(p.factors) < 2 {
		return new(big.Rat).SetInt64(1), e
	}
	n, ok := p.factors[0].(*Number)
	if !ok {
		return new(big.Rat).SetInt64(1), e
	}
	rest := p.factors[1:]
	if len(rest) == 1 {
		return n.Rat(), rest[0]
	}
	return n.Rat(), &Product{factors: rest}
}

// ============================================================
// Product — combined factors
// ============================================================

type Product struct{ factors []Expr }

func NewProduct(factors ...Expr) Expr { return (&Product{factors: factors}).Simplify() }

func (m *Product) Factors() []Expr { return m.factors }

func (m *Product) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Product); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	coeff := new(big.Rat).SetInt64(1)
	others := make([]Expr, 0, len(flat))
	for _, f := range flat {
		if n, ok := f.(*Number); ok {
			coeff.Mul(coeff, n.val)
		} else {
			others = append(others, f)
		}
	}
	if coeff.Sign() == 0 {
		return Int(0)
	}
	if len(others) == 0 {
		return fromRat(coeff)
	}

	// Merge like bases: x*x -> x^2, x*x^(-1) -> 1.
	type group struct {
		base Expr
		exps []Expr
	}
	var groups []group
	merged := false
	for _, f := range others {
		base, exp := f, Expr(Int(1))
		if p, ok := f.(*Power); ok {
			base, exp = p.base, p.exp
		}
		found := false
		for i := range groups {
			if groups[i].base.Equal(base) {
				groups[i].exps = append(groups[i].exps, exp)
				merged = true
				found = true
				break
			}
		}
		if !found {
			groups = append(groups, group{base: base, exps: []Expr{exp}})
		}
	}
	if merged {
		out := []Expr{fromRat(coeff)}
		for _, g := range groups {
			out = append(out, NewPower(g.base, NewSum(g.exps...)))
		}
		return (&Product{factors: out}).Simplify()
	}

	sort.Slice(others, func(i, j int) bool { return others[i].String() < others[j].String() })

	if coeff.Cmp(ratOne) == 0 {
		if len(others) == 1 {
			return others[0]
		}
		return &Product{factors: others}
	}
	return &Product{factors: append([]Expr{fromRat(coeff)}, others...)}
}

func (m *Product) String() string {
	if len(m.factors) == 0 {
		return "1"
	}
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		if _, isSum := f.(*Sum); isSum {
			parts[i] = "(" + f.String() + ")"
		} else {
			parts[i] = f.String()
		}
	}
	return strings.Join(parts, "*")
}

func (m *Product) Substitute(name string, value Expr) Expr {
	out := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		out[i] = f.Substitute(name, value)
	}
	return NewProduct(out...)
}

func (m *Product) Derivative(name string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Derivative(name)
		rest := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				rest = append(rest, fj)
			}
		}
		if len(rest) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = NewProduct(append([]Expr{dfi}, rest...)...)
		}
	}
	return NewSum(terms...)
}

func (m *Product) Equal(other Expr) bool {
	o, ok := other.(*Product)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

// ============================================================
// Power — base^exponent
// ============================================================

type Power struct{ base, exp Expr }

func NewPower(base, exp Expr) Expr { return (&Power{base: base, exp: exp}).Simplify() }

func (p *Power) Base() Expr     { return p.base }
func (p *Power) Exponent() Expr { return p.exp }

func (p *Power) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	bn, baseIsNum := base.(*Number)
	en, expIsNum := exp.(*Number)

	if expIsNum && en.IsZero() {
		if baseIsNum && bn.IsZero() {
			// 0^0 stays symbolic; evaluation reports it as undefined.
			return &Power{base: base, exp: exp}
		}
		return Int(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}
	if baseIsNum && bn.IsZero() {
		if expIsNum && en.Sign() < 0 {
			return &Power{base: base, exp: exp}
		}
		return Int(0)
	}
	if baseIsNum && bn.IsOne() {
		return Int(1)
	}

	if baseIsNum && expIsNum {
		if en.IsInteger() {
			e := en.Int64()
			if e >= -24 && e <= 24 {
				return fromRat(ratPowInt(bn.val, e))
			}
		} else if bn.Sign() >= 0 {
			// Extract exact roots of small rationals: 4^(1/2) -> 2.
			if r, ok := exactRationalRoot(bn.val, en.val); ok {
				return fromRat(r)
			}
		}
	}

	// (b^p)^n = b^(p*n) is only unconditionally valid for integer n.
	if inner, ok := base.(*Power); ok {
		if expIsNum && en.IsInteger() {
			return NewPower(inner.base, NewProduct(inner.exp, exp))
		}
	}

	return &Power{base: base, exp: exp}
}

func ratPowInt(r *big.Rat, e int64) *big.Rat {
	result := new(big.Rat).SetInt64(1)
	neg := e < 0
	if neg {
		e = -e
	}
	for i := int64(0); i < e; i++ {
		result.Mul(result, r)
	}
	if neg {
		result.Inv(result)
	}
	return result
}

// exactRationalRoot returns r^e when e = p/q and the q-th root of r is exact.
func exactRationalRoot(r *big.Rat, e *big.Rat) (*big.Rat, bool) {
	q := e.Denom().Int64()
	if q < 2 || q > 6 || !r.IsInt() {
		return nil, false
	}
	f, _ := r.Float64()
	root := math.Pow(f, 1/float64(q))
	rounded := math.Round(root)
	if math.Abs(root-rounded) > 1e-9 || rounded == 0 {
		return nil, false
	}
	exact := new(big.Rat).SetInt64(int64(rounded))
	if ratPowInt(exact, q).Cmp(r) != 0 {
		return nil, false
	}
	return ratPowInt(exact, e.Num().Int64()), true
}

func (p *Power) String() string {
	baseStr := p.base.String()
	switch p.base.(type) {
	case *Sum, *Product, *Power:
		baseStr = "(" + baseStr + ")"
	}
	expStr := p.exp.String()
	switch p.exp.(type) {
	case *Sum, *Product:
		expStr = "(" + expStr + ")"
	default:
		if n, ok := p.exp.(*Number); ok && (!n.IsInteger() || n.Sign() < 0) {
			expStr = "(" + expStr + ")"
		}
	}
	return baseStr + "^" + expStr
}

func (p *Power) Substitute(name string, value Expr) Expr {
	return NewPower(p.base.Substitute(name, value), p.exp.Substitute(name, value))
}

func (p *Power) Derivative(name string) Expr {
	du := p.base.Derivative(name)
	dv := p.exp.Derivative(name)
	if _, ok := p.exp.(*Number); ok {
		// Power rule: d(u^n) = n*u^(n-1)*du.
		return NewProduct(p.exp, NewPower(p.base, NewSum(p.exp, Int(-1))), du)
	}
	if !dependsOnAny(p.base) {
		// d(a^v) = a^v * ln(a) * dv.
		return NewProduct(NewPower(p.base, p.exp), NewCall("log", p.base), dv)
	}
	logTerm := NewProduct(dv, NewCall("log", p.base))
	ratioTerm := NewProduct(p.exp, du, NewPower(p.base, Int(-1)))
	return NewProduct(NewPower(p.base, p.exp), NewSum(logTerm, ratioTerm))
}

func dependsOnAny(e Expr) bool { return len(FreeSymbols(e)) > 0 }

func (p *Power) Equal(other Expr) bool {
	o, ok := other.(*Power)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// ============================================================
// Call — named function application
// ============================================================

type Call struct {
	fn  string
	arg Expr
}

func NewCall(fn string, arg Expr) Expr { return (&Call{fn: fn, arg: arg}).Simplify() }

func (c *Call) Name() string { return c.fn }
func (c *Call) Arg() Expr    { return c.arg }

// Simplify folds only exact identities; irrational values such as log(2) are
// kept symbolic so callers can choose between exact and decimal forms.
func (c *Call) Simplify() Expr {
	arg := c.arg.Simplify()
	n, argIsNum := arg.(*Number)

	switch c.fn {
	case "log":
		if argIsNum && n.IsOne() {
			return Int(0)
		}
		if k, ok := arg.(*Constant); ok && k.name == "e" {
			return Int(1)
		}
		if inner, ok := arg.(*Call); ok && inner.fn == "exp" {
			return inner.arg
		}
	case "exp":
		if argIsNum && n.IsZero() {
			return Int(1)
		}
		if inner, ok := arg.(*Call); ok && inner.fn == "log" {
			return inner.arg
		}
	case "sin", "tan":
		if argIsNum && n.IsZero() {
			return Int(0)
		}
	case "cos":
		if argIsNum && n.IsZero() {
			return Int(1)
		}
	case "abs":
		if argIsNum {
			if n.Sign() < 0 {
				return fromRat(new(big.Rat).Neg(n.val))
			}
			return n
		}
		if m, ok := arg.(*Product); ok && len(m.factors) >= 2 {
			if lead, ok2 := m.factors[0].(*Number); ok2 && lead.IsNegOne() {
				return NewCall("abs", (&Product{factors: m.factors[1:]}).Simplify())
			}
		}
	}
	return &Call{fn: c.fn, arg: arg}
}

func (c *Call) String() string { return c.fn + "(" + c.arg.String() + ")" }

func (c *Call) Substitute(name string, value Expr) Expr {
	return NewCall(c.fn, c.arg.Substitute(name, value))
}

func (c *Call) Derivative(name string) Expr {
	du := c.arg.Derivative(name)
	var outer Expr
	switch c.fn {
	case "sin":
		outer = NewCall("cos", c.arg)
	case "cos":
		outer = Negate(NewCall("sin", c.arg))
	case "tan":
		outer = NewSum(Int(1), NewPower(NewCall("tan", c.arg), Int(2)))
	case "cot":
		outer = Negate(NewSum(Int(1), NewPower(NewCall("cot", c.arg), Int(2))))
	case "exp":
		outer = NewCall("exp", c.arg)
	case "log":
		outer = NewPower(c.arg, Int(-1))
	case "asin":
		outer = NewPower(NewSum(Int(1), Negate(NewPower(c.arg, Int(2)))), Rat(-1, 2))
	case "acos":
		outer = Negate(NewPower(NewSum(Int(1), Negate(NewPower(c.arg, Int(2)))), Rat(-1, 2)))
	case "atan":
		outer = NewPower(NewSum(Int(1), NewPower(c.arg, Int(2))), Int(-1))
	case "sinh":
		outer = NewCall("cosh", c.arg)
	case "cosh":
		outer = NewCall("sinh", c.arg)
	case "tanh":
		outer = NewSum(Int(1), Negate(NewPower(NewCall("tanh", c.arg), Int(2))))
	default:
		// No closed-form rule (abs and friends); keep the application opaque.
		return NewProduct(&Call{fn: "D[" + c.fn + "]", arg: c.arg}, du)
	}
	return NewProduct(outer, du)
}

func (c *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	return ok && c.fn == o.fn && c.arg.Equal(o.arg)
}

// ============================================================
// Convenience constructors
// ============================================================

func Negate(e Expr) Expr     { return NewProduct(Int(-1), e) }
func Reciprocal(e Expr) Expr { return NewPower(e, Int(-1)) }
func Minus(a, b Expr) Expr   { return NewSum(a, Negate(b)) }
func Div(a, b Expr) Expr     { return NewProduct(a, Reciprocal(b)) }
func Sqrt(e Expr) Expr       { return NewPower(e, Rat(1, 2)) }

// ============================================================
// Tree queries
// ============================================================

// FreeSymbols returns the set of free variable names in e. Named constants
// (pi, e) are not free symbols.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	collectSymbols(e, out)
	return out
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Symbol:
		out[v.name] = struct{}{}
	case *Sum:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Product:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Power:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Call:
		collectSymbols(v.arg, out)
	}
}

// FindCalls returns every application of the named function within e, outermost
// first.
func FindCalls(e Expr, fn string) []*Call {
	var out []*Call
	walk(e, func(sub Expr) {
		if c, ok := sub.(*Call); ok && c.fn == fn {
			out = append(out, c)
		}
	})
	return out
}

// FindPowers returns every Power node within e, outermost first.
func FindPowers(e Expr) []*Power {
	var out []*Power
	walk(e, func(sub Expr) {
		if p, ok := sub.(*Power); ok {
			out = append(out, p)
		}
	})
	return out
}

func walk(e Expr, visit func(Expr)) {
	visit(e)
	switch v := e.(type) {
	case *Sum:
		for _, t := range v.terms {
			walk(t, visit)
		}
	case *Product:
		for _, f := range v.factors {
			walk(f, visit)
		}
	case *Power:
		walk(v.base, visit)
		walk(v.exp, visit)
	case *Call:
		walk(v.arg, visit)
	}
}
