package notification

import (
	"context"

	"homeservices/internal/domain"
)

// NotificationStore is the persistence surface the fanout writes to.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	DeleteByRequestEvent(ctx context.Context, requestID int64, event domain.NotificationEvent) error
}

// ProviderLister enumerates providers for request-created fanout.
type ProviderLister interface {
	ListAll(ctx context.Context) ([]domain.Provider, error)
}
