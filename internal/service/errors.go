package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrDuplicateUsername    = errors.New("username already exists")
	ErrDuplicateID          = errors.New("product id already exists")
	ErrInvalidDetailsFormat = errors.New("invalid details format")
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrUnexpected           = errors.New("unexpected failure")
)

// FieldError names the form field that failed validation. Message is shown
// to the user as is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }
func (e *FieldError) Unwrap() error { return ErrInvalidInput }

func invalid(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}

// UnexpectedError carries a store or infrastructure failure. Only Op is safe
// to show; Err is for the logs.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *UnexpectedError) Is(target error) bool { return target == ErrUnexpected }
func (e *UnexpectedError) Unwrap() error        { return e.Err }

func unexpected(op string, err error) error {
	return &UnexpectedError{Op: op, Err: err}
}
