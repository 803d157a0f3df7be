package builder

import "fmt"

// NotFoundError indicates the referenced profile does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// InvalidStateError indicates the operation is not valid for the session's
// current state, such as answering when no session is active
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state: %s", e.Message)
}

// GenerationUnavailableError indicates the generation backend failed and the
// operation can be retried without side effects
type GenerationUnavailableError struct {
	Message string
	Cause   error
}

func (e *GenerationUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("generation unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("generation unavailable: %s", e.Message)
}

func (e *GenerationUnavailableError) Unwrap() error {
	return e.Cause
}
