package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized indicates the upstream credential was rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrSubmitInFlight blocks a second submission while one is pending.
	ErrSubmitInFlight = errors.New("submission already in flight")
)
