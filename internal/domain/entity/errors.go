package entity

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches. It is
	// distinguishable from transient storage failures, which are returned
	// as wrapped driver errors.
	ErrNotFound = errors.New("not found")

	ErrInvalidEmail          = errors.New("invalid email")
	ErrAlreadyActivated      = errors.New("account already activated")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
)
