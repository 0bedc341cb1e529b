package request

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"homeservices/internal/catalog"
	"homeservices/internal/domain"
	"homeservices/internal/pkg/mailer"

	"gorm.io/gorm"
)

type Service struct {
	requests  RequestRepository
	providers ProviderRepository
	users     UserRepository
	notifs    NotificationSender
	mail      mailer.Mailer
	table     *catalog.Table

	// cancelAnyActive also allows cancel from approved (policy knob);
	// off means pending-only.
	cancelAnyActive bool
}

func NewService(
	requests RequestRepository,
	providers ProviderRepository,
	users UserRepository,
	notifs NotificationSender,
	mail mailer.Mailer,
	table *catalog.Table,
	cancelAnyActive bool,
) *Service {
	return &Service{
		requests:        requests,
		providers:       providers,
		users:           users,
		notifs:          notifs,
		mail:            mail,
		table:           table,
		cancelAnyActive: cancelAnyActive,
	}
}

// CreateRequest records a new pending request and fans out notifications
// to every provider whose category covers the service.
func (s *Service) CreateRequest(ctx context.Context, userID int64, req CreateRequest) (*domain.ServiceRequest, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Service))
	if slug == "" || !s.table.Contains(slug) {
		return nil, fmt.Errorf("%w: unknown service %q", ErrValidation, req.Service)
	}

	sr := &domain.ServiceRequest{
		UserID:      userID,
		Service:     slug,
		Description: req.Description,
		Location:    req.Location,
		Status:      domain.RequestPending,
	}

	if err := s.requests.Create(ctx, sr); err != nil {
		return nil, err
	}

	if s.notifs != nil {
		requester, err := s.users.GetByID(ctx, userID)
		name := ""
		if err == nil {
			name = requester.DisplayName()
		}
		if err := s.notifs.FanoutRequestCreated(ctx, sr, name); err != nil {
			log.Printf("request: fanout for request %d failed: %v", sr.ID, err)
		}
	}

	return sr, nil
}

// Dashboard builds the provider's matcher views: pending-unassigned,
// accepted-by-me, completed-by-me.
func (s *Service) Dashboard(ctx context.Context, providerUserID int64) (*Dashboard, error) {
	provider, err := s.providerOf(ctx, providerUserID)
	if err != nil {
		return nil, err
	}

	matchSet := s.table.MatchSet(provider.ServiceType)

	pending, err := s.requests.ListPendingUnassigned(ctx, matchSet)
	if err != nil {
		return nil, err
	}
	accepted, err := s.requests.ListByProviderStatus(ctx, provider.ID, domain.RequestApproved, matchSet)
	if err != nil {
		return nil, err
	}
	completed, err := s.requests.ListByProviderStatus(ctx, provider.ID, domain.RequestCompleted, matchSet)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		ServiceType:    provider.ServiceType,
		MatchSet:       matchSet,
		Pending:        pending,
		Accepted:       accepted,
		Completed:      completed,
		TotalPending:   len(pending),
		TotalAccepted:  len(accepted),
		TotalCompleted: len(completed),
	}, nil
}

// Accept moves a pending unassigned request to approved for the acting
// provider. The assignment is a single conditional update, so of two
// concurrent accepts exactly one wins; the loser gets ErrConflict.
func (s *Service) Accept(ctx context.Context, providerUserID, requestID int64) (*domain.ServiceRequest, error) {
	provider, err := s.providerOf(ctx, providerUserID)
	if err != nil {
		return nil, err
	}

	sr, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !s.covers(provider, sr.Service) {
		return nil, ErrCategoryMismatch
	}

	ok, err := s.requests.Assign(ctx, requestID, provider.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.conflict(ctx, requestID)
	}

	sr, err = s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyRequestAccepted(ctx, sr, provider.Name)
	}
	s.sendLifecycleMail(ctx, sr, provider.Name, mailer.TemplateRequestAccepted)

	return sr, nil
}

// Reject declines a pending unassigned request. Like accept it requires
// the provider's category to cover the request; rejection does not assign
// the provider.
func (s *Service) Reject(ctx context.Context, providerUserID, requestID int64) (*domain.ServiceRequest, error) {
	provider, err := s.providerOf(ctx, providerUserID)
	if err != nil {
		return nil, err
	}

	sr, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !s.covers(provider, sr.Service) {
		return nil, ErrCategoryMismatch
	}

	ok, err := s.requests.MarkRejected(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.conflict(ctx, requestID)
	}

	sr, err = s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyRequestRejected(ctx, sr, provider.Name)
	}
	s.sendLifecycleMail(ctx, sr, provider.Name, mailer.TemplateRequestRejected)

	return sr, nil
}

// Complete closes an approved request. Only the provider who accepted it
// may complete it; a same-category colleague gets ErrConflict.
func (s *Service) Complete(ctx context.Context, providerUserID, requestID int64) (*domain.ServiceRequest, error) {
	provider, err := s.providerOf(ctx, providerUserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.getRequest(ctx, requestID); err != nil {
		return nil, err
	}

	ok, err := s.requests.MarkCompleted(ctx, requestID, provider.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.conflict(ctx, requestID)
	}

	sr, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		_ = s.notifs.NotifyRequestCompleted(ctx, sr, provider.Name)
	}
	s.sendLifecycleMail(ctx, sr, provider.Name, mailer.TemplateRequestCompleted)

	return sr, nil
}

// Cancel withdraws the requester's own request. Pending requests can
// always be cancelled; approved ones only under the cancelAnyActive
// policy, in which case the assigned provider is notified.
func (s *Service) Cancel(ctx context.Context, userID, requestID int64) (*domain.ServiceRequest, error) {
	sr, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if sr.UserID != userID {
		return nil, ErrUnauthorized
	}

	// remember the provider before the link is cleared
	var providerUserID int64
	if sr.ProviderID != nil {
		if p, err := s.providers.GetByID(ctx, *sr.ProviderID); err == nil {
			providerUserID = p.UserID
		}
	}

	from := []domain.RequestStatus{domain.RequestPending}
	if s.cancelAnyActive {
		from = append(from, domain.RequestApproved)
	}

	ok, err := s.requests.MarkCancelled(ctx, requestID, userID, from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, s.conflict(ctx, requestID)
	}

	sr, err = s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if s.notifs != nil {
		requester, err := s.users.GetByID(ctx, userID)
		name := ""
		if err == nil {
			name = requester.DisplayName()
		}
		_ = s.notifs.NotifyRequestCancelled(ctx, sr, name, providerUserID)
	}

	return sr, nil
}

// MyRequests returns the requester's requests, newest first.
func (s *Service) MyRequests(ctx context.Context, userID int64) ([]domain.ServiceRequest, error) {
	return s.requests.ListByUser(ctx, userID)
}

// GetRequest returns a single request to its requester or its assigned
// provider.
func (s *Service) GetRequest(ctx context.Context, actorUserID, requestID int64) (*domain.ServiceRequest, error) {
	sr, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if sr.UserID == actorUserID {
		return sr, nil
	}
	if sr.ProviderID != nil {
		if p, err := s.providers.GetByID(ctx, *sr.ProviderID); err == nil && p.UserID == actorUserID {
			return sr, nil
		}
	}
	return nil, ErrUnauthorized
}

func (s *Service) providerOf(ctx context.Context, userID int64) (*domain.Provider, error) {
	provider, err := s.providers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoProvider
		}
		return nil, err
	}
	return provider, nil
}

func (s *Service) getRequest(ctx context.Context, requestID int64) (*domain.ServiceRequest, error) {
	sr, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sr, nil
}

func (s *Service) covers(provider *domain.Provider, slug string) bool {
	for _, v := range s.table.MatchSet(provider.ServiceType) {
		if v == slug {
			return true
		}
	}
	return false
}

// conflict re-reads the request so the error names the status that beat
// the caller.
func (s *Service) conflict(ctx context.Context, requestID int64) error {
	sr, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return ErrConflict
	}
	return fmt.Errorf("%w: request is %s", ErrConflict, sr.Status)
}

func (s *Service) sendLifecycleMail(ctx context.Context, sr *domain.ServiceRequest, providerName, template string) {
	if s.mail == nil {
		return
	}
	requester, err := s.users.GetByID(ctx, sr.UserID)
	if err != nil {
		log.Printf("request: lookup requester %d for mail failed: %v", sr.UserID, err)
		return
	}
	// fire-and-forget: a mail failure never rolls back the transition
	_ = s.mail.Send(ctx, requester.Email, template, map[string]string{
		"name":     requester.DisplayName(),
		"service":  sr.Service,
		"provider": providerName,
	})
}
