// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Loader errors.
	ErrNoInput           = errors.New("no input dataset available")
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrEmptyTable        = errors.New("dataset contains no rows")

	// Storage errors.
	ErrNotFound          = errors.New("not found")
	ErrDatabaseCorrupted = errors.New("database corrupted")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DataFormatError reports a value that could not be coerced to the
// type a column requires. It names the offending column and row so
// users can fix the source file instead of chasing a silent zero.
type DataFormatError struct {
	Column string
	Value  string
	Row    int
}

func (e *DataFormatError) Error() string {
	return fmt.Sprintf("column %q: row %d: cannot parse %q as a number", e.Column, e.Row, e.Value)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
