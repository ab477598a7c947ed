package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/autotransfer/internal/adapter/http/dto"
	"github.com/iho/autotransfer/internal/domain"
)

// LastEventIDHeader carries the last notification a reconnecting client saw.
const LastEventIDHeader = "Last-Event-ID"

// NotificationService defines the behavior needed by NotificationHandler.
type NotificationService interface {
	List(ctx context.Context, memberID string, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, memberID string) error
	Delete(ctx context.Context, id, memberID string) error
	UnreadCount(ctx context.Context, memberID string) (int, error)
	ReplaySince(ctx context.Context, memberID, lastEventID string) ([]*domain.Notification, error)
}

// NotificationHandler handles member notifications.
type NotificationHandler struct {
	notificationUC NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationUC NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationUC: notificationUC}
}

// List lists the caller's notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	list, err := h.notificationUC.List(r.Context(), memberID(r), limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list notifications", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NotificationsFromDomain(list))
}

// UnreadCount returns how many notifications are unread.
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.notificationUC.UnreadCount(r.Context(), memberID(r))
	if err != nil {
		writeDomainError(w, "failed to count notifications", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UnreadCountResponse{Unread: n})
}

// Replay returns cached notifications newer than the Last-Event-ID header
// or the last_event_id query parameter.
func (h *NotificationHandler) Replay(w http.ResponseWriter, r *http.Request) {
	lastEventID := r.Header.Get(LastEventIDHeader)
	if lastEventID == "" {
		lastEventID = r.URL.Query().Get("last_event_id")
	}

	list, err := h.notificationUC.ReplaySince(r.Context(), memberID(r), lastEventID)
	if err != nil {
		writeDomainError(w, "failed to replay notifications", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.NotificationsFromDomain(list))
}

// MarkRead flags a notification as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationUC.MarkRead(r.Context(), chi.URLParam(r, "id"), memberID(r)); err != nil {
		writeDomainError(w, "failed to mark notification read", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete hides a notification.
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationUC.Delete(r.Context(), chi.URLParam(r, "id"), memberID(r)); err != nil {
		writeDomainError(w, "failed to delete notification", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
