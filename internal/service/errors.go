package service

import (
	"errors"
	"fmt"

	"github.com/nhle/lacquer/internal/store"
)

// ValidationError is a rule violation whose message is safe to show the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation checks whether an error is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NotFoundError reports a row that does not exist or belongs to another
// user. The two cases are indistinguishable to the caller.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found or access denied"
}

// Is lets errors.Is match store.ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == store.ErrNotFound
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

// IsNotFound checks whether an error is a NotFoundError or store.ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
