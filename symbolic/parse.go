package symbolic

import (
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Parse turns canonical infix text into an expression tree. The grammar
// covers the analyzer's restricted surface: `+ - * / **`, unary minus,
// parentheses, one-argument function calls, integer and decimal literals,
// the constants pi and e, and free symbols.
//
// Parse expects already-normalized text (see the analyzer's Normalize);
// synonyms like `^` or `ln` are not accepted here.
func Parse(text string) (Expr, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
	}
	return e.Simplify(), nil
}

// knownFuncs are the callable names the kernel understands.
var knownFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"log": true, "exp": true, "sqrt": true, "abs": true,
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPower
	tokLParen
	tokRParen
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func lex(text string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(text) {
		ch := rune(text[i])
		switch {
		case unicode.IsSpace(ch):
			i++
		case ch >= '0' && ch <= '9' || ch == '.':
			start := i
			seenDot := false
			for i < len(text) && (text[i] >= '0' && text[i] <= '9' || text[i] == '.') {
				if text[i] == '.' {
					if seenDot {
						return nil, fmt.Errorf("malformed number at position %d", start)
					}
					seenDot = true
				}
				i++
			}
			lit := text[start:i]
			if lit == "." {
				return nil, fmt.Errorf("malformed number at position %d", start)
			}
			toks = append(toks, token{tokNumber, lit, start})
		case unicode.IsLetter(ch):
			start := i
			for i < len(text) && (unicode.IsLetter(rune(text[i])) || text[i] >= '0' && text[i] <= '9') {
				i++
			}
			toks = append(toks, token{tokIdent, text[start:i], start})
		case ch == '+':
			toks = append(toks, token{tokPlus, "+", i})
			i++
		case ch == '-':
			toks = append(toks, token{tokMinus, "-", i})
			i++
		case ch == '*':
			if i+1 < len(text) && text[i+1] == '*' {
				toks = append(toks, token{tokPower, "**", i})
				i += 2
			} else {
				toks = append(toks, token{tokStar, "*", i})
				i++
			}
		case ch == '/':
			toks = append(toks, token{tokSlash, "/", i})
			i++
		case ch == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case ch == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at position %d", string(ch), i)
		}
	}
	toks = append(toks, token{tokEOF, "", len(text)})
	return toks, nil
}

type parser struct {
	toks []token
	idx  int
}

func (p *parser) peek() token { return p.toks[p.idx] }

func (p *parser) next() token {
	t := p.toks[p.idx]
	if t.kind != tokEOF {
		p.idx++
	}
	return t
}

// parseSum: term (('+'|'-') term)*
func (p *parser) parseSum() (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokPlus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = NewSum(left, right)
		case tokMinus:
			p.next()
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = Minus(left, right)
		default:
			return left, nil
		}
	}
}

// parseTerm: unary (('*'|'/') unary)*
func (p *parser) parseTerm() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().kind {
		case tokStar:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = NewProduct(left, right)
		case tokSlash:
			p.next()
			right, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			left = Div(left, right)
		default:
			return left, nil
		}
	}
}

// parseUnary: '-' unary | power. Exponentiation binds tighter than unary
// minus, so -x**2 parses as -(x**2).
func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokMinus {
		p.next()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Negate(inner), nil
	}
	return p.parsePower()
}

// parsePower: atom ('**' unary)?  — right associative.
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	if p.peek().kind == tokPower {
		p.next()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewPower(base, exp), nil
	}
	return base, nil
}

func (p *parser) parseAtom() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		r, ok := new(big.Rat).SetString(tok.text)
		if !ok {
			return nil, fmt.Errorf("invalid number %q at position %d", tok.text, tok.pos)
		}
		return fromRat(r), nil

	case tokIdent:
		name := strings.ToLower(tok.text)
		if p.peek().kind == tokLParen {
			if !knownFuncs[name] {
				return nil, fmt.Errorf("unknown function %q at position %d", tok.text, tok.pos)
			}
			p.next()
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			if closing := p.next(); closing.kind != tokRParen {
				return nil, fmt.Errorf("missing ')' for %s( at position %d", name, tok.pos)
			}
			if name == "sqrt" {
				return Sqrt(arg), nil
			}
			return NewCall(name, arg), nil
		}
		switch name {
		case "pi":
			return Pi, nil
		case "e":
			return E, nil
		}
		return Var(tok.text), nil

	case tokLParen:
		inner, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("missing ')' at position %d", tok.pos)
		}
		return inner, nil

	case tokEOF:
		return nil, fmt.Errorf("unexpected end of expression")
	}
	return nil, fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
}
