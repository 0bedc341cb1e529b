package provider

import (
	"context"

	"homeservices/internal/domain"
)

type ProviderRepository interface {
	Create(ctx context.Context, p *domain.Provider) error
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.Provider, error)
	Update(ctx context.Context, p *domain.Provider) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
