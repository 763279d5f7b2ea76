package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for handlers to map to HTTP status.
var (
	// ErrNotFound means a referenced entity does not exist. The caller must
	// re-resolve or abort; retrying the same call cannot succeed.
	ErrNotFound = errors.New("not found")

	// ErrStorage means the persistence layer itself failed. Transient and
	// safe to retry; internal detail is never shown to end users.
	ErrStorage = errors.New("storage failure")
)

// ValidationError carries a caller-fixable input problem. It is never
// retried automatically.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func Storage(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
