package correction

import "fmt"

// MalformedResponseError reports a model response that could not be
// turned into a usable result after parsing, repair and validation.
// The engine retries these; callers only see one when inspecting the
// cause chain of a degraded fallback.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %s", e.Reason)
}
