package notification

import (
	"context"
	"testing"

	"homeservices/internal/catalog"
	"homeservices/internal/domain"
	"homeservices/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationStore) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStore) MarkAsRead(ctx context.Context, id, userID int64) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationStore) MarkAllAsRead(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationStore) DeleteByRequestEvent(ctx context.Context, requestID int64, event domain.NotificationEvent) error {
	args := m.Called(ctx, requestID, event)
	return args.Error(0)
}

type MockProviderLister struct {
	mock.Mock
}

func (m *MockProviderLister) ListAll(ctx context.Context) ([]domain.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Provider), args.Error(1)
}

func TestService_FanoutRequestCreated_MatchesCategory(t *testing.T) {
	store := new(MockNotificationStore)
	lister := new(MockProviderLister)

	lister.On("ListAll", mock.Anything).Return([]domain.Provider{
		{ID: 1, UserID: 11, ServiceType: "Plumbing"},
		{ID: 2, UserID: 12, ServiceType: "Roofing"},
		{ID: 3, UserID: 13, ServiceType: "pipe-repair"}, // specific slug, same category
	}, nil)

	var delivered []int64
	store.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		n := args.Get(1).(*domain.Notification)
		delivered = append(delivered, n.UserID)
		assert.Equal(t, domain.EventRequestCreated, n.Event)
		assert.Equal(t, "New service request from Alice in Springfield", n.Message)
	}).Return(nil)

	service := NewService(store, lister, catalog.Default(), nil)

	req := &domain.ServiceRequest{ID: 50, UserID: 1, Service: "pipe-repair", Location: "Springfield", Status: domain.RequestPending}
	err := service.FanoutRequestCreated(context.Background(), req, "Alice")

	assert.NoError(t, err)
	// both plumbing providers, never the roofer
	assert.ElementsMatch(t, []int64{11, 13}, delivered)
}

func TestService_FanoutRequestCreated_DuplicateIsIdempotent(t *testing.T) {
	store := new(MockNotificationStore)
	lister := new(MockProviderLister)

	lister.On("ListAll", mock.Anything).Return([]domain.Provider{
		{ID: 1, UserID: 11, ServiceType: "plumbing"},
	}, nil)
	// second delivery of the same (request, user, event) hits the unique index
	store.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateNotification)

	service := NewService(store, lister, catalog.Default(), nil)

	req := &domain.ServiceRequest{ID: 51, UserID: 1, Service: "plumbing", Location: "Springfield"}
	err := service.FanoutRequestCreated(context.Background(), req, "Alice")

	assert.NoError(t, err)
	store.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_NotifyRequestAccepted(t *testing.T) {
	store := new(MockNotificationStore)

	store.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 1 &&
			n.Event == domain.EventRequestAccepted &&
			n.Message == "Mario has accepted your pipe-repair request"
	})).Return(nil)

	service := NewService(store, new(MockProviderLister), catalog.Default(), nil)

	req := &domain.ServiceRequest{ID: 52, UserID: 1, Service: "pipe-repair"}
	err := service.NotifyRequestAccepted(context.Background(), req, "Mario")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_NotifyRequestCancelled_CleansFanout(t *testing.T) {
	store := new(MockNotificationStore)

	store.On("DeleteByRequestEvent", mock.Anything, int64(53), domain.EventRequestCreated).Return(nil)
	store.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.UserID == 22 && n.Event == domain.EventRequestCancelled
	})).Return(nil)

	service := NewService(store, new(MockProviderLister), catalog.Default(), nil)

	req := &domain.ServiceRequest{ID: 53, UserID: 1, Service: "roofing", Status: domain.RequestCancelled}
	err := service.NotifyRequestCancelled(context.Background(), req, "Alice", 22)

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_NotifyRequestCancelled_NoAssignedProvider(t *testing.T) {
	store := new(MockNotificationStore)

	store.On("DeleteByRequestEvent", mock.Anything, int64(54), domain.EventRequestCreated).Return(nil)

	service := NewService(store, new(MockProviderLister), catalog.Default(), nil)

	req := &domain.ServiceRequest{ID: 54, UserID: 1, Service: "roofing", Status: domain.RequestCancelled}
	err := service.NotifyRequestCancelled(context.Background(), req, "Alice", 0)

	assert.NoError(t, err)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_GetUserNotifications_ClampsLimit(t *testing.T) {
	store := new(MockNotificationStore)

	store.On("GetByUserID", mock.Anything, int64(1), 20).Return([]domain.Notification{}, nil)
	store.On("CountUnread", mock.Anything, int64(1)).Return(int64(3), nil)

	service := NewService(store, new(MockProviderLister), catalog.Default(), nil)

	_, unread, err := service.GetUserNotifications(context.Background(), 1, 10000)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), unread)
	store.AssertCalled(t, "GetByUserID", mock.Anything, int64(1), 20)
}
