package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrUnauthorized    = errors.New("account does not belong to member")
	ErrMemberNotFound  = errors.New("member not found")

	// Transfer errors
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrLockTimeout         = errors.New("timed out acquiring account lock")
	ErrCategoryNotFound    = errors.New("transfer category not found")

	// Auto-transfer errors
	ErrAutoTransferNotFound = errors.New("auto-transfer not found")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")
)

// Invalid transaction reasons. All of them match ErrInvalidTransaction with errors.Is.
var (
	ErrSameAccount        = fmt.Errorf("%w: source and destination are the same account", ErrInvalidTransaction)
	ErrCredentialMismatch = fmt.Errorf("%w: credential mismatch", ErrInvalidTransaction)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive whole number", ErrInvalidTransaction)
	ErrInvalidTransferDay = fmt.Errorf("%w: transfer day must be between 1 and 31", ErrInvalidTransaction)
	ErrBalanceOverflow    = fmt.Errorf("%w: credit would overflow the destination balance", ErrInvalidTransaction)
)
