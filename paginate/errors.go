package paginate

import (
	"context"
	"errors"
	"fmt"
)

// Operation names carried by TimeoutError.
const (
	OpNavigation = "navigation"
	OpExtraction = "extraction"
	OpVisibility = "visibility"
)

// InsufficientItemsError is returned when collection ends short of the
// target, either because the "load more" control never showed up or because
// the hop ceiling was reached.
type InsufficientItemsError struct {
	Collected int
	Target    int
	Reason    string
}

func (e *InsufficientItemsError) Error() string {
	return fmt.Sprintf("insufficient items: collected %d of %d (%s)", e.Collected, e.Target, e.Reason)
}

// TimeoutError is returned when a single page interaction exceeds the
// per-operation timeout.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timeout: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// ClassifyTimeout turns err into a TimeoutError when opCtx ran out of time, so the
// caller can tell an exceeded step from other failures.
func ClassifyTimeout(opCtx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(opCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Err: err}
	}
	return err
}
