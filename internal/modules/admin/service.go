package admin

import (
	"context"
	"errors"

	"homeservices/internal/domain"

	"gorm.io/gorm"
)

var ErrProviderNotFound = errors.New("provider not found")

type Service struct {
	requests  RequestRepository
	providers ProviderRepository
	users     UserRepository
	notifs    verifiedNotifier
}

func NewService(requests RequestRepository, providers ProviderRepository, users UserRepository, notifs verifiedNotifier) *Service {
	return &Service{
		requests:  requests,
		providers: providers,
		users:     users,
		notifs:    notifs,
	}
}

func (s *Service) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	stats := &StatisticsResponse{}

	counts := []struct {
		status domain.RequestStatus
		dst    *int64
	}{
		{domain.RequestPending, &stats.PendingRequests},
		{domain.RequestApproved, &stats.ApprovedRequests},
		{domain.RequestRejected, &stats.RejectedRequests},
		{domain.RequestCompleted, &stats.CompletedRequests},
		{domain.RequestCancelled, &stats.CancelledRequests},
	}
	for _, c := range counts {
		n, err := s.requests.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, err
		}
		*c.dst = n
		stats.TotalRequests += n
	}

	providers, total, err := s.providers.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	stats.TotalProviders = total
	for _, p := range providers {
		if p.IsVerified {
			stats.VerifiedProviders++
		}
	}

	return stats, nil
}

func (s *Service) ListProviders(ctx context.Context, page, limit int) ([]domain.Provider, int64, error) {
	limit, offset := pageToRange(page, limit)
	return s.providers.List(ctx, limit, offset)
}

func (s *Service) ListRequests(ctx context.Context, page, limit int) ([]domain.ServiceRequest, int64, error) {
	limit, offset := pageToRange(page, limit)
	return s.requests.ListAll(ctx, limit, offset)
}

func (s *Service) ListUsers(ctx context.Context, page, limit int) ([]domain.User, int64, error) {
	limit, offset := pageToRange(page, limit)
	return s.users.List(ctx, limit, offset)
}

// VerifyProvider flips a profile to verified without the email round
// trip. The token is burned so the stale link stops working.
func (s *Service) VerifyProvider(ctx context.Context, providerID int64) (*domain.Provider, error) {
	p, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}

	if p.IsVerified {
		return p, nil
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

func pageToRange(page, limit int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}
