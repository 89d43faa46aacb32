package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when analysis parameters fail fast
// validation before any generation happens (non-positive patient count,
// negative thresholds). Callers test for it with errors.Is.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// InvariantViolationError indicates a rule-authoring bug: a produced alert
// broke a structural invariant, such as estimating more recovery than the
// claim billed. It is fatal and never retried; the engine is deterministic,
// so retrying the same input cannot change the outcome.
type InvariantViolationError struct {
	RuleCode string
	ClaimID  string
	Detail   string
}

// Error implements the error interface.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation in rule %s on claim %s: %s", e.RuleCode, e.ClaimID, e.Detail)
}
