package auth

import (
	"errors"
	"fmt"
)

// AuthError indicates that the caller has no valid session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ErrAuthRequired is the message returned to unauthenticated callers.
const ErrAuthRequired = "Authentication required"
