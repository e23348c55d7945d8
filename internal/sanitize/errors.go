package sanitize

import "fmt"

// ValidationError indicates the submitted text was rejected before any
// model call was made. It maps to a request-level failure and is never
// retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}
