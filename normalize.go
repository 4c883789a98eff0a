package funcanalyze

import (
	"regexp"
	"strings"
)

// ============================================================
// Expression normalization
// ============================================================

// synonym rewrites run in order: the longer abbreviations first so that
// e.g. "arcsen" is not mangled by the "sen" rule.
var synonyms = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`\barcsen\b`), "asin"},
	{regexp.MustCompile(`\barccos\b`), "acos"},
	{regexp.MustCompile(`\barctg\b`), "atan"},
	{regexp.MustCompile(`\bctg\b`), "cot"},
	{regexp.MustCompile(`\bsen\b`), "sin"},
	{regexp.MustCompile(`\btg\b`), "tan"},
	{regexp.MustCompile(`\bln\b`), "log"},
}

var implicitMul = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`(\d)([a-zA-Z])`), `$1*$2`},
	{regexp.MustCompile(`(\d)(\()`), `$1*$2`},
	{regexp.MustCompile(`([a-zA-Z])(\d)`), `$1*$2`},
	{regexp.MustCompile(`(\))(\d)`), `$1*$2`},
	{regexp.MustCompile(`(\))([a-zA-Z])`), `$1*$2`},
	{regexp.MustCompile(`(\))(\()`), `$1*$2`},
}

// Normalize rewrites raw user text into the canonical grammar: operator
// and synonym substitution, then implicit-multiplication insertion. No
// semantic validation happens here; garbage passes through for the
// validator to reject.
func Normalize(text string) string {
	s := strings.TrimSpace(text)
	for _, syn := range synonyms {
		s = syn.re.ReplaceAllString(s, syn.repl)
	}
	s = strings.ReplaceAll(s, "^", "**")
	for _, rule := range implicitMul {
		s = rule.re.ReplaceAllString(s, rule.repl)
	}
	return s
}
