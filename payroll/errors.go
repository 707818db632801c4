/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All sentinel errors in one place. The pure computation functions in this
  package signal absence with (value, ok) returns and never fail; these
  errors belong to the storage and composition layers built on top.

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, payroll.ErrWorkerNotFound) {
        // 404
    }

SEE ALSO:
  - store.go: Store operations returning these errors
  - paystub: Wraps these with request context
*/
package payroll

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrWorkerNotFound is returned when a referenced worker doesn't exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrDuplicateEvent is returned when an event with the same ID is
	// inserted twice. Expected behavior for import retries.
	ErrDuplicateEvent = errors.New("duplicate clock event")

	// ErrInvalidWeek is returned when a week window is malformed
	// (end before start, or start not a Monday).
	ErrInvalidWeek = errors.New("invalid week window")

	// ErrNegativeRate is returned when intake tries to record a negative
	// pay rate. Rates are validated at the edge, never inside the engine.
	ErrNegativeRate = errors.New("negative pay rate")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// WorkerNotFoundError identifies which worker was missing.
type WorkerNotFoundError struct {
	WorkerID WorkerID
}

func (e *WorkerNotFoundError) Error() string {
	return fmt.Sprintf("worker not found: %s", e.WorkerID)
}

func (e *WorkerNotFoundError) Unwrap() error { return ErrWorkerNotFound }

// InvalidWeekError explains why a week window was rejected.
type InvalidWeekError struct {
	Start  time.Time
	Reason string
}

func (e *InvalidWeekError) Error() string {
	return fmt.Sprintf("invalid week starting %s: %s", e.Start.Format("2006-01-02"), e.Reason)
}

func (e *InvalidWeekError) Unwrap() error { return ErrInvalidWeek }

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkerNotFound)
}
