package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"homeservices/internal/catalog"
	"homeservices/internal/domain"
	"homeservices/internal/repository"
)

// Service creates and serves in-app notifications. Fanout methods are
// idempotent per (request, recipient, event): a duplicate insert is
// swallowed, so retried transitions cannot double-notify.
type Service struct {
	store     NotificationStore
	providers ProviderLister
	table     *catalog.Table
	feed      *Feed
}

func NewService(store NotificationStore, providers ProviderLister, table *catalog.Table, feed *Feed) *Service {
	return &Service{
		store:     store,
		providers: providers,
		table:     table,
		feed:      feed,
	}
}

// FanoutRequestCreated notifies every provider whose match set covers the
// request's service. One notification per provider user.
func (s *Service) FanoutRequestCreated(ctx context.Context, req *domain.ServiceRequest, requesterName string) error {
	providers, err := s.providers.ListAll(ctx)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("New service request from %s in %s", requesterName, req.Location)
	for _, p := range providers {
		if !matches(s.table, p.ServiceType, req.Service) {
			continue
		}
		if err := s.deliver(ctx, p.UserID, domain.EventRequestCreated, msg, &req.ID); err != nil {
			log.Printf("notification: fanout request %d to provider %d failed: %v", req.ID, p.ID, err)
		}
	}
	return nil
}

func (s *Service) NotifyRequestAccepted(ctx context.Context, req *domain.ServiceRequest, providerName string) error {
	msg := fmt.Sprintf("%s has accepted your %s request", providerName, req.Service)
	return s.deliver(ctx, req.UserID, domain.EventRequestAccepted, msg, &req.ID)
}

func (s *Service) NotifyRequestRejected(ctx context.Context, req *domain.ServiceRequest, providerName string) error {
	msg := fmt.Sprintf("Your %s request has been rejected", req.Service)
	_ = providerName
	return s.deliver(ctx, req.UserID, domain.EventRequestRejected, msg, &req.ID)
}

func (s *Service) NotifyRequestCompleted(ctx context.Context, req *domain.ServiceRequest, providerName string) error {
	msg := fmt.Sprintf("%s has completed your %s request", providerName, req.Service)
	return s.deliver(ctx, req.UserID, domain.EventRequestCompleted, msg, &req.ID)
}

// NotifyRequestCancelled tells the previously assigned provider that the
// requester withdrew, and removes the now-dead fanout offers.
func (s *Service) NotifyRequestCancelled(ctx context.Context, req *domain.ServiceRequest, requesterName string, providerUserID int64) error {
	if err := s.store.DeleteByRequestEvent(ctx, req.ID, domain.EventRequestCreated); err != nil {
		log.Printf("notification: cleanup for cancelled request %d failed: %v", req.ID, err)
	}
	if providerUserID == 0 {
		return nil
	}
	msg := fmt.Sprintf("Service request from %s has been cancelled", requesterName)
	return s.deliver(ctx, providerUserID, domain.EventRequestCancelled, msg, &req.ID)
}

func (s *Service) NotifyProviderVerified(ctx context.Context, providerUserID int64) error {
	return s.deliver(ctx, providerUserID, domain.EventProviderVerified, "Your provider account has been verified", nil)
}

func (s *Service) deliver(ctx context.Context, userID int64, event domain.NotificationEvent, msg string, requestID *int64) error {
	n := &domain.Notification{
		UserID:    userID,
		Event:     event,
		Message:   msg,
		RequestID: requestID,
	}
	if err := s.store.Create(ctx, n); err != nil {
		if errors.Is(err, repository.ErrDuplicateNotification) {
			return nil
		}
		return err
	}

	if s.feed != nil {
		s.feed.Push(userID, &FeedEvent{
			Type:    string(event),
			Message: msg,
		})
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.store.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.store.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.store.MarkAllAsRead(ctx, userID)
}

func matches(table *catalog.Table, providerServiceType, requestSlug string) bool {
	for _, slug := range table.MatchSet(providerServiceType) {
		if slug == requestSlug {
			return true
		}
	}
	return false
}
