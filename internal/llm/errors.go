package llm

import "fmt"

// TransientError marks a model call that failed at the transport level
// (network error, API error, deadline exceeded). Call sites that define a
// retry budget may retry it; the sentinel and verifier substitute a
// permissive default instead.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
