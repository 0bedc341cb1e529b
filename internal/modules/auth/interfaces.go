package auth

import (
	"context"

	"homeservices/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ProviderRegistrar creates the provider profile after the user row, and
// kicks off email verification.
type ProviderRegistrar interface {
	RegisterProfile(ctx context.Context, user *domain.User, phone, location string, age int, serviceType string) (*domain.Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error)
}
