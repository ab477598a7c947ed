package domain

import "time"

// Event types published to the broker.
const (
	EventTypeTransferCompleted   = "transfer.completed"
	EventTypeNotificationCreated = "notification.created"
)

// Event is an envelope published after a state change has committed.
type Event struct {
	CreatedAt   time.Time      `json:"created_at"`
	Payload     map[string]any `json:"payload"`
	ID          string         `json:"id"`
	AggregateID string         `json:"aggregate_id"`
	Type        string         `json:"type"`
}

// NewNotificationEvent wraps a notification for publishing.
func NewNotificationEvent(n *Notification) Event {
	return Event{
		ID:          n.ID,
		AggregateID: n.MemberID,
		Type:        EventTypeNotificationCreated,
		CreatedAt:   n.CreatedAt,
		Payload: map[string]any{
			"member_id": n.MemberID,
			"kind":      string(n.Kind),
			"message":   n.Message,
		},
	}
}

// NewTransferCompletedEvent wraps a transfer result for publishing.
func NewTransferCompletedEvent(kind TransferKind, r *TransferResult) Event {
	return Event{
		ID:          r.Debit.ID,
		AggregateID: r.Debit.AccountID,
		Type:        EventTypeTransferCompleted,
		CreatedAt:   r.Debit.CreatedAt,
		Payload: map[string]any{
			"kind":            string(kind),
			"from_account_id": r.Debit.AccountID,
			"to_account_id":   r.Credit.AccountID,
			"amount":          r.Debit.Amount,
			"debit_id":        r.Debit.ID,
			"credit_id":       r.Credit.ID,
		},
	}
}
