package fines

import (
	"errors"
	"fmt"
)

// Error represents a fine state-machine violation.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// FineID identifies the affected fine.
	FineID int64
}

// ErrorCode categorizes fine errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates no fine exists with the given id.
	ErrCodeNotFound ErrorCode = "FINE_NOT_FOUND"

	// ErrCodeAlreadyClosed indicates the fine was closed before.
	// The OPEN -> CLOSED transition happens exactly once.
	ErrCodeAlreadyClosed ErrorCode = "FINE_ALREADY_CLOSED"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (fine=%d)", e.Code, e.Message, e.FineID)
}

// IsNotFound returns true if the error is an unknown-fine error.
// Uses errors.As to handle wrapped errors.
func IsNotFound(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeNotFound
	}
	return false
}

// IsAlreadyClosed returns true if the error is a repeat-close error.
// Uses errors.As to handle wrapped errors.
func IsAlreadyClosed(err error) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == ErrCodeAlreadyClosed
	}
	return false
}

// NewNotFoundError creates an Error for an unknown fine id.
func NewNotFoundError(fineID int64) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: "no fine with this id",
		FineID:  fineID,
	}
}

// NewAlreadyClosedError creates an Error for a fine closed earlier.
func NewAlreadyClosedError(fineID int64) *Error {
	return &Error{
		Code:    ErrCodeAlreadyClosed,
		Message: "fine is already closed",
		FineID:  fineID,
	}
}
