package domain

import (
	"fmt"
	"time"
)

// NotificationKind identifies why a member is being notified.
type NotificationKind string

const (
	NotificationAutoTransferSuccess NotificationKind = "AUTO_TRANSFER_SUCCESS"
	NotificationAutoTransferFail    NotificationKind = "AUTO_TRANSFER_FAIL"
	NotificationBudgetExceeded      NotificationKind = "BUDGET_EXCEEDED"
)

// Notification is a message delivered to a member.
type Notification struct {
	CreatedAt time.Time
	ID        string
	MemberID  string
	Kind      NotificationKind
	Message   string
	Read      bool
	Deleted   bool
}

// AutoTransferSuccessMessage renders the success notice for a transfer.
func AutoTransferSuccessMessage(t *AutoTransfer) string {
	return fmt.Sprintf(
		"Auto-transfer completed\n\nFrom account: %s\nTo account: %s %s\nAmount: %d\nTransfer day: %d",
		t.SourceAccountNumber, t.TargetBankName, t.TargetAccountNumber, t.Amount, t.TransferDay,
	)
}

// AutoTransferFailMessage renders the failure notice for a transfer.
func AutoTransferFailMessage(t *AutoTransfer) string {
	return fmt.Sprintf(
		"Auto-transfer failed\n\nFrom account: %s\nTo account: %s %s\nAmount: %d\nReason: insufficient balance or other error",
		t.SourceAccountNumber, t.TargetBankName, t.TargetAccountNumber, t.Amount,
	)
}
