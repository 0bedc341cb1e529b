package request

import (
	"context"

	"homeservices/internal/domain"
)

// RequestRepository is the persistence surface for service requests.
// The Mark*/Assign methods are atomic conditional updates: they return
// false when the guard no longer holds, which the service reports as a
// status conflict.
type RequestRepository interface {
	Create(ctx context.Context, sr *domain.ServiceRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.ServiceRequest, error)
	ListPendingUnassigned(ctx context.Context, slugs []string) ([]domain.ServiceRequest, error)
	ListByProviderStatus(ctx context.Context, providerID int64, status domain.RequestStatus, slugs []string) ([]domain.ServiceRequest, error)
	Assign(ctx context.Context, requestID, providerID int64) (bool, error)
	MarkRejected(ctx context.Context, requestID int64) (bool, error)
	MarkCompleted(ctx context.Context, requestID, providerID int64) (bool, error)
	MarkCancelled(ctx context.Context, requestID, userID int64, fromStatuses []domain.RequestStatus) (bool, error)
}

type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// NotificationSender fans out lifecycle events. Calls are fire-and-forget
// from the lifecycle's point of view.
type NotificationSender interface {
	FanoutRequestCreated(ctx context.Context, req *domain.ServiceRequest, requesterName string) error
	NotifyRequestAccepted(ctx context.Context, req *domain.ServiceRequest, providerName string) error
	NotifyRequestRejected(ctx context.Context, req *domain.ServiceRequest, providerName string) error
	NotifyRequestCompleted(ctx context.Context, req *domain.ServiceRequest, providerName string) error
	NotifyRequestCancelled(ctx context.Context, req *domain.ServiceRequest, requesterName string, providerUserID int64) error
}
