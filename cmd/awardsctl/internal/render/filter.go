// Package render holds output helpers shared by the list commands.
package render

import (
	"strings"

	"github.com/hashicorp/go-bexpr"
)

// Matcher evaluates a bexpr filter expression against row fields. The
// zero expression matches everything.
type Matcher struct {
	eval *bexpr.Evaluator
}

// NewMatcher compiles the expression once for the whole listing.
func NewMatcher(expr string) (*Matcher, error) {
	if strings.TrimSpace(expr) == "" {
		return &Matcher{}, nil
	}
	eval, err := bexpr.CreateEvaluator(expr)
	if err != nil {
		return nil, err
	}
	return &Matcher{eval: eval}, nil
}

// Match reports whether the row passes the filter. Evaluation errors
// (e.g. a field name the row does not have) exclude the row.
func (m *Matcher) Match(fields map[string]any) bool {
	if m.eval == nil {
		return true
	}
	ok, err := m.eval.Evaluate(fields)
	if err != nil {
		return false
	}
	return ok
}
