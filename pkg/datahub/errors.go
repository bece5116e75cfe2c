package datahub

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	n, err := loader.Load(ctx, cfg)
//	if errors.Is(err, datahub.ErrInvalidRecord) {
//	    // A product without a usable id or name aborted the run
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid
	// (missing credentials, missing input source, bad flag values).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates the input JSON is empty, malformed or not an array.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRecord indicates a product record without a usable id or name.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrTransportFailed indicates a GraphQL request failed (timeout, HTTP error,
	// rate-limit rejection or an errors array in the response).
	ErrTransportFailed = errors.New("transport failed")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrExecutionFailed indicates SQL execution failed.
	ErrExecutionFailed = errors.New("execution failed")
)

// ExitCodeForError returns the process exit code for an error.
// Every failure of a batch job is reported with ExitGeneralError so that
// operators and schedulers only need to test for a non-zero status; the
// sentinel errors above exist to let callers and tests tell failures apart.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitGeneralError
}

// JoinErrors is errors.Join rendered on a single line with "; " between the
// messages, so a command rejecting several problems still prints one
// diagnostic line. It returns nil when every err is nil.
func JoinErrors(errs ...error) error {
	var joined []error
	for _, err := range errs {
		if err != nil {
			joined = append(joined, err)
		}
	}
	if len(joined) == 0 {
		return nil
	}
	return &joinError{errs: joined}
}

type joinError struct {
	errs []error
}

func (e *joinError) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *joinError) Unwrap() []error {
	return e.errs
}
