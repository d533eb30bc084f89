package store

import "fmt"

// ValidationError indicates the caller supplied an invalid or missing
// required field. Always caller-recoverable; never retried automatically.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NotFoundError indicates a referenced id does not exist or is not owned by
// the calling user. The two cases are deliberately indistinguishable.
type NotFoundError struct {
	Kind string // "resume", "job", "version"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
