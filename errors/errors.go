package errors

import (
	"errors"
)

const (
	InvalidArgumentError = "InvalidArgumentError"
	CodecError           = "CodecError"
	RelayError           = "RelayError"
)

var (
	ErrInvalidEmitter   = NewInvalidArgumentError("Must provide an emitter").Err()
	ErrInvalidEventName = NewInvalidArgumentError("Must provide an event name").Err()
	ErrRelayClosed      = (&Error{Message: "relay is closed", Type: RelayError}).Err()
)

type Error struct {
	Message     string
	Type        string
	Description error
}

func New(message string) *Error {
	return &Error{Message: message}
}

func NewInvalidArgumentError(message string) *Error {
	return &Error{Message: message, Type: InvalidArgumentError}
}

func NewCodecError(message string, description error) *Error {
	return &Error{Message: message, Type: CodecError, Description: description}
}

func (e *Error) Err() error {
	return e
}

func (e *Error) Error() string {
	if e.Description != nil {
		return e.Message + ": " + e.Description.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Description
}

// Is, As and Join re-export the standard helpers so callers need only this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Join(errs ...error) error {
	return errors.Join(errs...)
}
