// Package funcanalyze analyzes single-variable real functions given as
// text: domain restrictions, a best-effort range estimate, axis
// intercepts, and step-by-step evaluation at a point. Each analysis
// stage degrades gracefully when a sub-problem cannot be solved; the
// report is always complete, with failed stages saying so explicitly.
package funcanalyze

// Fallback records why an analysis stage could not be completed. A
// stage with a non-nil Fallback still contributes its partial summary
// and trace; it never aborts the other stages.
type Fallback struct {
	Reason string `json:"reason"`
}
