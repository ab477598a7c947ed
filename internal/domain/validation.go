package domain

import (
	"fmt"
	"strings"
)

var ErrInvalidDisplayName = fmt.Errorf("%w: invalid display name", ErrInvalidTransaction)

const (
	MaxDisplayNameLength = 64
	DefaultPageSize      = 50
	MaxPageSize          = 500
)

// ValidateDisplayName checks a counterparty name shown on a transaction line.
// An empty name is allowed and means "use the owner's name".
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	if len(name) > MaxDisplayNameLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidDisplayName, MaxDisplayNameLength)
	}

	if strings.ContainsAny(name, "\n\r\t") {
		return fmt.Errorf("%w: contains control characters", ErrInvalidDisplayName)
	}

	return nil
}

// ValidateAccountRef checks that a destination bank and number were both supplied.
func ValidateAccountRef(bankName, number string) error {
	if strings.TrimSpace(bankName) == "" || strings.TrimSpace(number) == "" {
		return fmt.Errorf("%w: bank name and account number are required", ErrInvalidTransaction)
	}
	return nil
}

// ValidatePagination clamps pagination parameters.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
