package ledger

import (
	"errors"
	"fmt"
)

// Error represents a ledger rule violation.
//
// Store failures are not wrapped in Error; they propagate as wrapped
// errors from the failing statement so callers can tell a rule violation
// from an unavailable store.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// MemberID identifies the affected member.
	MemberID string

	// Amount is the offending amount, when relevant.
	Amount int64
}

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	// ErrCodeInvalidAmount indicates a negative amount was passed to a
	// mutation. Deposits, withdrawals and transfers all take non-negative
	// amounts; debt is expressed by withdrawing past zero, never by
	// negative operands.
	ErrCodeInvalidAmount ErrorCode = "INVALID_AMOUNT"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.MemberID != "" {
		return fmt.Sprintf("%s: %s (member=%s)", e.Code, e.Message, e.MemberID)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidAmount returns true if the error is an invalid-amount violation.
// Uses errors.As to handle wrapped errors.
func IsInvalidAmount(err error) bool {
	var le *Error
	if errors.As(err, &le) {
		return le.Code == ErrCodeInvalidAmount
	}
	return false
}

// NewInvalidAmountError creates an Error for a negative amount.
func NewInvalidAmountError(memberID string, amount int64) *Error {
	return &Error{
		Code:     ErrCodeInvalidAmount,
		Message:  fmt.Sprintf("amount must not be negative, got %d", amount),
		MemberID: memberID,
		Amount:   amount,
	}
}
