package funcanalyze

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/njchilds90/funcanalyze/symbolic"
)

// ============================================================
// Report assembly
// ============================================================

// DefaultStageTimeout bounds each solve-heavy analysis stage. Symbolic
// solving can run long on adversarial input; a timeout is a regular
// stage failure, not a crash.
const DefaultStageTimeout = 5 * time.Second

// Analyzer runs the full analysis pipeline. The zero value works with
// the default timeout and logger.
type Analyzer struct {
	Timeout time.Duration
	Log     *slog.Logger
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{Timeout: DefaultStageTimeout, Log: slog.Default()}
}

// Report is the complete analysis of one function, possibly including a
// point evaluation.
type Report struct {
	ID         string             `json:"id"`
	Input      string             `json:"input"`
	Normalized string             `json:"normalized"`
	XInput     string             `json:"x,omitempty"`
	Domain     DomainResult       `json:"domain"`
	Range      RangeResult        `json:"range"`
	Intercepts InterceptResult    `json:"intercepts"`
	Evaluation *EvaluationOutcome `json:"evaluation,omitempty"`
}

// Analyze normalizes and validates the input, then runs the four
// analysis stages. Parse and validation errors stop the pipeline; stage
// failures degrade into fallback summaries inside the report.
func (a *Analyzer) Analyze(text, xText string) (*Report, error) {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = DefaultStageTimeout
	}
	log := a.Log
	if log == nil {
		log = slog.Default()
	}

	normalized := Normalize(text)
	expr, err := ValidateFunction(normalized)
	if err != nil {
		return nil, err
	}

	var xVal symbolic.Expr
	if xText != "" {
		xVal, err = ParseXValue(xText)
		if err != nil {
			return nil, err
		}
	}

	rep := &Report{
		ID:         uuid.NewString(),
		Input:      text,
		Normalized: normalized,
		XInput:     xText,
	}

	rep.Domain = runStage(timeout, "domain", log, func(reason string) DomainResult {
		return DomainResult{
			Summary:  "could not compute the domain",
			Trace:    []string{reason},
			Fallback: &Fallback{Reason: reason},
		}
	}, func() DomainResult { return AnalyzeDomain(expr) })

	rep.Range = runStage(timeout, "range", log, func(reason string) RangeResult {
		return RangeResult{
			Summary:  "could not compute the range",
			Trace:    []string{reason},
			Fallback: &Fallback{Reason: reason},
		}
	}, func() RangeResult { return AnalyzeRange(expr) })

	rep.Intercepts = runStage(timeout, "intercepts", log, func(reason string) InterceptResult {
		return InterceptResult{
			Summary:  "could not compute the intercepts",
			Trace:    []string{reason},
			Fallback: &Fallback{Reason: reason},
		}
	}, func() InterceptResult { return AnalyzeIntercepts(expr) })

	if xVal != nil {
		ev := runStage(timeout, "evaluation", log, func(reason string) EvaluationOutcome {
			return EvaluationOutcome{
				Trace:         []string{reason},
				FailureReason: reason,
			}
		}, func() EvaluationOutcome {
			return EvaluateAt(expr, xVal, normalized, rep.Domain.Restrictions)
		})
		rep.Evaluation = &ev
	}

	log.Info("analysis complete",
		"id", rep.ID, "input", text, "x", xText)
	return rep, nil
}

// runStage executes one analysis stage with a bounded-time guard. A
// panic or a timeout produces the stage's fallback value.
func runStage[T any](timeout time.Duration, name string, log *slog.Logger,
	fallback func(reason string) T, fn func() T) T {

	done := make(chan T, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("stage panicked", "stage", name, "panic", r)
				done <- fallback(fmt.Sprintf("internal failure: %v", r))
			}
		}()
		done <- fn()
	}()
	select {
	case v := <-done:
		return v
	case <-time.After(timeout):
		log.Warn("stage timed out", "stage", name, "timeout", timeout)
		return fallback(fmt.Sprintf("timed out after %s", timeout))
	}
}

// Render formats the report as plain text for terminal display.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "f(x) = %s\n", r.Normalized)
	section(&b, "Domain", r.Domain.Summary, r.Domain.Trace)
	section(&b, "Range", r.Range.Summary, r.Range.Trace)
	section(&b, "Intercepts", r.Intercepts.Summary, r.Intercepts.Trace)
	if r.Evaluation != nil {
		label := fmt.Sprintf("Evaluation at x = %s", r.XInput)
		summary := r.Evaluation.Exact
		if r.Evaluation.Approx != nil {
			summary = fmt.Sprintf("%s ≈ %s", r.Evaluation.Exact, Format(*r.Evaluation.Approx))
		} else if r.Evaluation.FailureReason != "" {
			summary = fmt.Sprintf("%s (%s)", summary, r.Evaluation.FailureReason)
		}
		if r.Evaluation.DomainViolation {
			summary += " [outside the domain]"
		}
		section(&b, label, summary, r.Evaluation.Trace)
	}
	return b.String()
}

func section(b *strings.Builder, title, summary string, trace []string) {
	fmt.Fprintf(b, "\n%s: %s\n", title, summary)
	for _, step := range trace {
		fmt.Fprintf(b, "  - %s\n", step)
	}
}

// Examples returns canonical demo inputs for the CLI and docs.
func Examples() []string {
	return []string{
		"(x+1)/(x-2)",
		"x**2 - 4",
		"log(x + 1)",
		"sqrt(x**2 + 1)",
		"tan(x)",
		"1/x",
	}
}
