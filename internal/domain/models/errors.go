package models

import "errors"

// Failure taxonomy shared by the services, the stores and the HTTP layer.
var (
	// ErrUnauthorized indicates the actor lacks the role required by the operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound indicates a referenced record id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState indicates the operation is not valid for the record's current status.
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidArgument indicates malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
)
