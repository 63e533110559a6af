package auth

import "errors"

var (
	// ErrEmailExists is returned by repositories on a duplicate address.
	ErrEmailExists = errors.New("email already exists")
	// ErrUserNotFound is returned when updating a missing account.
	ErrUserNotFound = errors.New("user not found")
)
