package admin

import (
	"context"

	"homeservices/internal/domain"
)

type RequestRepository interface {
	CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.ServiceRequest, int64, error)
}

type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	List(ctx context.Context, limit, offset int) ([]domain.Provider, int64, error)
	Update(ctx context.Context, p *domain.Provider) error
}

type UserRepository interface {
	List(ctx context.Context, limit, offset int) ([]domain.User, int64, error)
}

type verifiedNotifier interface {
	NotifyProviderVerified(ctx context.Context, providerUserID int64) error
}
