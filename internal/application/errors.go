package application

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials covers both an unknown login email and a wrong
// password so the HTTP layer cannot be used for account enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// InvalidIDError is returned for any non-positive id argument, before any
// persistence access happens.
type InvalidIDError struct {
	ID int64
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("id must be a greater than 0 [%d]", e.ID)
}

// UserNotFoundError is returned when an id-keyed lookup or existence check
// matches no user.
type UserNotFoundError struct {
	ID int64
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("could not find user %d", e.ID)
}

// UsernameNotFoundError is the auth-side counterpart, keyed by login email.
type UsernameNotFoundError struct {
	Email string
}

func (e *UsernameNotFoundError) Error() string {
	return fmt.Sprintf("User '%s' not found", e.Email)
}
