package provider

import (
	"context"
	"errors"
	"fmt"
	"log"

	"homeservices/internal/domain"
	"homeservices/internal/pkg/mailer"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type verifiedNotifier interface {
	NotifyProviderVerified(ctx context.Context, providerUserID int64) error
}

type Service struct {
	providers ProviderRepository
	users     UserReader
	mail      mailer.Mailer
	notifs    verifiedNotifier

	// baseURL is the public address verification links point at.
	baseURL string
}

func NewService(providers ProviderRepository, users UserReader, mail mailer.Mailer, notifs verifiedNotifier, baseURL string) *Service {
	return &Service{
		providers: providers,
		users:     users,
		mail:      mail,
		notifs:    notifs,
		baseURL:   baseURL,
	}
}

// RegisterProfile creates the unverified profile and emails the
// verification link. Called from registration, after the user row exists.
func (s *Service) RegisterProfile(ctx context.Context, user *domain.User, phone, location string, age int, serviceType string) (*domain.Provider, error) {
	p := &domain.Provider{
		UserID:            user.ID,
		Name:              user.Name,
		Phone:             phone,
		Location:          location,
		Age:               age,
		ServiceType:       serviceType,
		IsVerified:        false,
		VerificationToken: uuid.NewString(),
	}
	if err := s.providers.Create(ctx, p); err != nil {
		return nil, err
	}

	s.sendVerificationMail(ctx, user.Email, user.DisplayName(), p.VerificationToken)
	return p, nil
}

// VerifyByToken flips the profile to verified and burns the token.
func (s *Service) VerifyByToken(ctx context.Context, token string) (*domain.Provider, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	p, err := s.providers.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	p.IsVerified = true
	p.VerificationToken = ""
	if err := s.providers.Update(ctx, p); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyProviderVerified(ctx, p.UserID)
	}
	return p, nil
}

// ResendVerification issues a fresh token and re-sends the email.
func (s *Service) ResendVerification(ctx context.Context, userID int64) error {
	p, err := s.getByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if p.IsVerified {
		return ErrVerified
	}

	p.VerificationToken = uuid.NewString()
	if err := s.providers.Update(ctx, p); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	s.sendVerificationMail(ctx, user.Email, user.DisplayName(), p.VerificationToken)
	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*domain.Provider, error) {
	return s.getByUserID(ctx, userID)
}

func (s *Service) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	return s.providers.GetByUserID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.Provider, error) {
	p, err := s.getByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		p.Name = req.Name
	}
	if req.Phone != "" {
		p.Phone = req.Phone
	}
	if req.Location != "" {
		p.Location = req.Location
	}
	if req.Age != 0 {
		p.Age = req.Age
	}
	if req.ServiceType != "" {
		p.ServiceType = req.ServiceType
	}

	if err := s.providers.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) getByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	p, err := s.providers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) sendVerificationMail(ctx context.Context, email, name, token string) {
	if s.mail == nil {
		return
	}
	link := fmt.Sprintf("%s/api/provider/verify?token=%s", s.baseURL, token)
	if err := s.mail.Send(ctx, email, mailer.TemplateVerifyEmail, map[string]string{
		"name":             name,
		"verification_url": link,
	}); err != nil {
		log.Printf("provider: verification mail to %s failed: %v", email, err)
	}
}
