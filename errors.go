package newsorder

import (
	"errors"

	"github.com/pevans/newsorder/paginate"
)

// Process exit statuses.
const (
	ExitPass              = 0
	ExitOrderViolation    = 1
	ExitError             = 2
	ExitInsufficientItems = 3
	ExitTimeout           = 4
	ExitInvalidConfig     = 5
)

// HasExitCode is implemented by errors that carry their own exit status.
type HasExitCode interface {
	error
	ExitCode() int
}

type exitCodeError struct {
	error
	code int
}

func (e exitCodeError) ExitCode() int {
	return e.code
}

func (e exitCodeError) Unwrap() error {
	return e.error
}

// WithExitCode attaches an exit status to err. A nil err stays nil.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitCodeError{error: err, code: code}
}

// ExitCode returns the exit status for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitPass
	}

	var withCode HasExitCode
	if errors.As(err, &withCode) {
		return withCode.ExitCode()
	}

	var insufficient *paginate.InsufficientItemsError
	if errors.As(err, &insufficient) {
		return ExitInsufficientItems
	}

	var timeout *paginate.TimeoutError
	if errors.As(err, &timeout) {
		return ExitTimeout
	}

	return ExitError
}

// ErrorKind names the failure class of err for reports.
func ErrorKind(err error) string {
	var insufficient *paginate.InsufficientItemsError
	if errors.As(err, &insufficient) {
		return "InsufficientItems"
	}

	var timeout *paginate.TimeoutError
	if errors.As(err, &timeout) {
		if timeout.Op == paginate.OpExtraction {
			return "ExtractionTimeout"
		}
		return "NavigationTimeout"
	}

	return "Error"
}
