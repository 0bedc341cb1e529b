package auth

import (
	"context"
	"errors"
	"strings"

	"homeservices/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

// Service contains all business logic for authentication
type Service struct {
	users     UserRepository
	providers ProviderRegistrar
	jwt       jwtService

	// providerLoginRequiresVerified blocks unverified providers at login.
	providerLoginRequiresVerified bool
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

func NewService(users UserRepository, providers ProviderRegistrar, jwt jwtService, providerLoginRequiresVerified bool) *Service {
	return &Service{
		users:                         users,
		providers:                     providers,
		jwt:                           jwt,
		providerLoginRequiresVerified: providerLoginRequiresVerified,
	}
}

func (s *Service) RegisterCustomer(ctx context.Context, req RegisterCustomerRequest) (*domain.User, string, error) {
	if err := s.validateEmailUnique(ctx, req.Email); err != nil {
		return nil, "", err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// RegisterProvider creates the user row, then the provider profile.
// The profile starts unverified; the registrar sends the verification
// email.
func (s *Service) RegisterProvider(ctx context.Context, req RegisterProviderRequest) (*domain.User, *domain.Provider, string, error) {
	if err := s.validateEmailUnique(ctx, req.Email); err != nil {
		return nil, nil, "", err
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, nil, "", err
	}

	user := &domain.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         domain.RoleProvider,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, "", err
	}

	profile, err := s.providers.RegisterProfile(ctx, user, req.Phone, req.Location, req.Age, req.ServiceType)
	if err != nil {
		return nil, nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, nil, "", err
	}
	return user, profile, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Role == domain.RoleProvider && s.providerLoginRequiresVerified {
		profile, err := s.providers.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if profile == nil || !profile.IsVerified {
			return nil, ErrNotVerified
		}
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, AccessToken: token}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) validateEmailUnique(ctx context.Context, email string) error {
	exists, err := s.users.ExistsByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyExists
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
