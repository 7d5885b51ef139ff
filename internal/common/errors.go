// Package common contains shared sentinel errors and small helpers used across
// PinVault packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotFound is returned when a record looked up by id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument marks user input rejected before any state change.
	ErrInvalidArgument = errors.New("invalid argument")
)
