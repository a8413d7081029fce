package llm

import (
	"errors"
	"fmt"
)

// ErrInvalidResponseFormat reports a model answer that could not be parsed
// into the requested JSON shape. It is surfaced rather than silently
// defaulted; fabricating analysis data would mislead the caller.
var ErrInvalidResponseFormat = errors.New("invalid response format")

// ProviderError wraps a network, timeout or non-2xx failure from a model
// provider. There is no automatic retry inside a single completion call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
