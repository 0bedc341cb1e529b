package domain

import "time"

type NotificationEvent string

const (
	EventRequestCreated   NotificationEvent = "request_created"
	EventRequestAccepted  NotificationEvent = "request_accepted"
	EventRequestRejected  NotificationEvent = "request_rejected"
	EventRequestCompleted NotificationEvent = "request_completed"
	EventRequestCancelled NotificationEvent = "request_cancelled"
	EventProviderVerified NotificationEvent = "provider_verified"
)

// Notification is an in-app message for a user (customer or provider).
// The (request, user, event) triple is unique so a retried transition
// cannot fan out twice.
type Notification struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id" gorm:"index:idx_notifications_user_unread;uniqueIndex:ux_notifications_dedup,priority:2"`
	Event     NotificationEvent `json:"event" gorm:"uniqueIndex:ux_notifications_dedup,priority:3"`
	Message   string            `json:"message" gorm:"type:text"`
	RequestID *int64            `json:"request_id,omitempty" gorm:"uniqueIndex:ux_notifications_dedup,priority:1"`
	IsRead    bool              `json:"is_read" gorm:"index:idx_notifications_user_unread"`
	CreatedAt time.Time         `json:"created_at"`
}
