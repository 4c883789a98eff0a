package funcanalyze

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/njchilds90/funcanalyze/symbolic"
)

// ============================================================
// Validation
// ============================================================

var (
	// ErrParse marks malformed input text or x-values.
	ErrParse = errors.New("parse error")
	// ErrValidation marks syntactically valid input with the wrong
	// free-variable set.
	ErrValidation = errors.New("validation error")
)

// ValidateFunction parses normalized text and confirms it denotes a
// single-variable expression in x. Constant expressions are admitted
// (their free-variable set is a subset of {x}).
func ValidateFunction(normalized string) (symbolic.Expr, error) {
	if strings.TrimSpace(normalized) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrParse)
	}
	expr, err := symbolic.Parse(normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	free := symbolic.FreeSymbols(expr)
	var extra []string
	for name := range free {
		if name != "x" {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, fmt.Errorf("%w: expression must use only the variable x, found %s",
			ErrValidation, strings.Join(extra, ", "))
	}
	return expr, nil
}

// ParseXValue parses an x-value: an integer or decimal literal, a p/q
// rational, or the constants pi and e. Anything with a free symbol is
// rejected before it can reach the evaluator.
func ParseXValue(s string) (symbolic.Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty value", ErrParse)
	}
	expr, err := symbolic.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid value %q: %v", ErrParse, s, err)
	}
	if !symbolic.IsConstant(expr) {
		return nil, fmt.Errorf("%w: value %q is not a number", ErrParse, s)
	}
	return expr, nil
}
