package request

import (
	"context"
	"testing"

	"homeservices/internal/catalog"
	"homeservices/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// Mock repositories
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, sr *domain.ServiceRequest) error {
	args := m.Called(ctx, sr)
	if sr != nil {
		sr.ID = 777 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRequest), args.Error(1)
}

func (m *MockRequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ServiceRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceRequest), args.Error(1)
}

func (m *MockRequestRepository) ListPendingUnassigned(ctx context.Context, slugs []string) ([]domain.ServiceRequest, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceRequest), args.Error(1)
}

func (m *MockRequestRepository) ListByProviderStatus(ctx context.Context, providerID int64, status domain.RequestStatus, slugs []string) ([]domain.ServiceRequest, error) {
	args := m.Called(ctx, providerID, status, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceRequest), args.Error(1)
}

func (m *MockRequestRepository) Assign(ctx context.Context, requestID, providerID int64) (bool, error) {
	args := m.Called(ctx, requestID, providerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) MarkRejected(ctx context.Context, requestID int64) (bool, error) {
	args := m.Called(ctx, requestID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) MarkCompleted(ctx context.Context, requestID, providerID int64) (bool, error) {
	args := m.Called(ctx, requestID, providerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) MarkCancelled(ctx context.Context, requestID, userID int64, fromStatuses []domain.RequestStatus) (bool, error) {
	args := m.Called(ctx, requestID, userID, fromStatuses)
	return args.Bool(0), args.Error(1)
}

type MockProviderRepository struct {
	mock.Mock
}

func (m *MockProviderRepository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

func (m *MockProviderRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Provider), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) FanoutRequestCreated(ctx context.Context, req *domain.ServiceRequest, requesterName string) error {
	args := m.Called(ctx, req, requesterName)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyRequestAccepted(ctx context.Context, req *domain.ServiceRequest, providerName string) error {
	args := m.Called(ctx, req, providerName)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyRequestRejected(ctx context.Context, req *domain.ServiceRequest, providerName string) error {
	args := m.Called(ctx, req, providerName)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyRequestCompleted(ctx context.Context, req *domain.ServiceRequest, providerName string) error {
	args := m.Called(ctx, req, providerName)
	return args.Error(0)
}

func (m *MockNotificationSender) NotifyRequestCancelled(ctx context.Context, req *domain.ServiceRequest, requesterName string, providerUserID int64) error {
	args := m.Called(ctx, req, requesterName, providerUserID)
	return args.Error(0)
}

func newTestService(reqs *MockRequestRepository, provs *MockProviderRepository, users *MockUserRepository, notifs *MockNotificationSender, cancelAnyActive bool) *Service {
	return NewService(reqs, provs, users, notifs, nil, catalog.Default(), cancelAnyActive)
}

func plumber(userID int64) *domain.Provider {
	return &domain.Provider{ID: 5, UserID: userID, Name: "Mario", ServiceType: "plumbing"}
}

func TestService_CreateRequest_Success(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)
	mockUsers := new(MockUserRepository)
	mockNotifs := new(MockNotificationSender)

	mockReqs.On("Create", mock.Anything, mock.Anything).Return(nil)
	mockUsers.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Alice"}, nil)
	mockNotifs.On("FanoutRequestCreated", mock.Anything, mock.Anything, "Alice").Return(nil)

	service := newTestService(mockReqs, mockProvs, mockUsers, mockNotifs, false)

	sr, err := service.CreateRequest(context.Background(), 1, CreateRequest{
		Service:  "Pipe-Repair", // normalized to lowercase slug
		Location: "Springfield",
	})

	assert.NoError(t, err)
	assert.Equal(t, "pipe-repair", sr.Service)
	assert.Equal(t, domain.RequestPending, sr.Status)
	assert.Nil(t, sr.ProviderID)
	mockNotifs.AssertCalled(t, "FanoutRequestCreated", mock.Anything, mock.Anything, "Alice")
}

func TestService_CreateRequest_UnknownService(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	service := newTestService(mockReqs, new(MockProviderRepository), new(MockUserRepository), new(MockNotificationSender), false)

	_, err := service.CreateRequest(context.Background(), 1, CreateRequest{
		Service:  "exorcism",
		Location: "Springfield",
	})

	assert.ErrorIs(t, err, ErrValidation)
	mockReqs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Accept_Success(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)
	mockUsers := new(MockUserRepository)
	mockNotifs := new(MockNotificationSender)

	pending := &domain.ServiceRequest{ID: 10, UserID: 1, Service: "pipe-repair", Status: domain.RequestPending}
	providerID := int64(5)
	approved := &domain.ServiceRequest{ID: 10, UserID: 1, Service: "pipe-repair", Status: domain.RequestApproved, ProviderID: &providerID}

	mockProvs.On("GetByUserID", mock.Anything, int64(2)).Return(plumber(2), nil)
	mockReqs.On("GetByID", mock.Anything, int64(10)).Return(pending, nil).Once()
	mockReqs.On("Assign", mock.Anything, int64(10), int64(5)).Return(true, nil)
	mockReqs.On("GetByID", mock.Anything, int64(10)).Return(approved, nil)
	mockNotifs.On("NotifyRequestAccepted", mock.Anything, approved, "Mario").Return(nil)

	service := newTestService(mockReqs, mockProvs, mockUsers, mockNotifs, false)

	sr, err := service.Accept(context.Background(), 2, 10)

	assert.NoError(t, err)
	assert.Equal(t, domain.RequestApproved, sr.Status)
	assert.Equal(t, int64(5), *sr.ProviderID)
	mockNotifs.AssertCalled(t, "NotifyRequestAccepted", mock.Anything, approved, "Mario")
}

func TestService_Accept_CategoryMismatch(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)

	// roofing is not in the plumbing category
	roofing := &domain.ServiceRequest{ID: 11, UserID: 1, Service: "roofing", Status: domain.RequestPending}

	mockProvs.On("GetByUserID", mock.Anything, int64(2)).Return(plumber(2), nil)
	mockReqs.On("GetByID", mock.Anything, int64(11)).Return(roofing, nil)

	service := newTestService(mockReqs, mockProvs, new(MockUserRepository), new(MockNotificationSender), false)

	_, err := service.Accept(context.Background(), 2, 11)

	assert.ErrorIs(t, err, ErrCategoryMismatch)
	mockReqs.AssertNotCalled(t, "Assign", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Accept_AlreadyTaken(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)

	otherProvider := int64(9)
	pending := &domain.ServiceRequest{ID: 12, UserID: 1, Service: "pipe-repair", Status: domain.RequestPending}
	taken := &domain.ServiceRequest{ID: 12, UserID: 1, Service: "pipe-repair", Status: domain.RequestApproved, ProviderID: &otherProvider}

	mockProvs.On("GetByUserID", mock.Anything, int64(2)).Return(plumber(2), nil)
	mockReqs.On("GetByID", mock.Anything, int64(12)).Return(pending, nil).Once()
	// a rival accepted between the read and the conditional update
	mockReqs.On("Assign", mock.Anything, int64(12), int64(5)).Return(false, nil)
	mockReqs.On("GetByID", mock.Anything, int64(12)).Return(taken, nil)

	service := newTestService(mockReqs, mockProvs, new(MockUserRepository), new(MockNotificationSender), false)

	_, err := service.Accept(context.Background(), 2, 12)

	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "approved")
}

func TestService_Accept_NoProviderProfile(t *testing.T) {
	mockProvs := new(MockProviderRepository)
	mockProvs.On("GetByUserID", mock.Anything, int64(3)).Return(nil, gorm.ErrRecordNotFound)

	service := newTestService(new(MockRequestRepository), mockProvs, new(MockUserRepository), new(MockNotificationSender), false)

	_, err := service.Accept(context.Background(), 3, 10)
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestService_Complete_OnlyAssignedProvider(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)

	assigned := int64(9)
	approved := &domain.ServiceRequest{ID: 13, UserID: 1, Service: "pipe-repair", Status: domain.RequestApproved, ProviderID: &assigned}

	// same-category colleague, but not the assigned provider
	mockProvs.On("GetByUserID", mock.Anything, int64(2)).Return(plumber(2), nil)
	mockReqs.On("GetByID", mock.Anything, int64(13)).Return(approved, nil)
	mockReqs.On("MarkCompleted", mock.Anything, int64(13), int64(5)).Return(false, nil)

	service := newTestService(mockReqs, mockProvs, new(MockUserRepository), new(MockNotificationSender), false)

	_, err := service.Complete(context.Background(), 2, 13)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Complete_Success(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)
	mockNotifs := new(MockNotificationSender)

	providerID := int64(5)
	approved := &domain.ServiceRequest{ID: 14, UserID: 1, Service: "pipe-repair", Status: domain.RequestApproved, ProviderID: &providerID}
	completed := &domain.ServiceRequest{ID: 14, UserID: 1, Service: "pipe-repair", Status: domain.RequestCompleted, ProviderID: &providerID}

	mockProvs.On("GetByUserID", mock.Anything, int64(2)).Return(plumber(2), nil)
	mockReqs.On("GetByID", mock.Anything, int64(14)).Return(approved, nil).Once()
	mockReqs.On("MarkCompleted", mock.Anything, int64(14), int64(5)).Return(true, nil)
	mockReqs.On("GetByID", mock.Anything, int64(14)).Return(completed, nil)
	mockNotifs.On("NotifyRequestCompleted", mock.Anything, completed, "Mario").Return(nil)

	service := newTestService(mockReqs, mockProvs, new(MockUserRepository), mockNotifs, false)

	sr, err := service.Complete(context.Background(), 2, 14)

	assert.NoError(t, err)
	assert.Equal(t, domain.RequestCompleted, sr.Status)
}

func TestService_Cancel_Pending(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockUsers := new(MockUserRepository)
	mockNotifs := new(MockNotificationSender)

	pending := &domain.ServiceRequest{ID: 15, UserID: 1, Service: "roofing", Status: domain.RequestPending}
	cancelled := &domain.ServiceRequest{ID: 15, UserID: 1, Service: "roofing", Status: domain.RequestCancelled}

	mockReqs.On("GetByID", mock.Anything, int64(15)).Return(pending, nil).Once()
	mockReqs.On("MarkCancelled", mock.Anything, int64(15), int64(1), []domain.RequestStatus{domain.RequestPending}).Return(true, nil)
	mockReqs.On("GetByID", mock.Anything, int64(15)).Return(cancelled, nil)
	mockUsers.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Alice"}, nil)
	mockNotifs.On("NotifyRequestCancelled", mock.Anything, cancelled, "Alice", int64(0)).Return(nil)

	service := newTestService(mockReqs, new(MockProviderRepository), mockUsers, mockNotifs, false)

	sr, err := service.Cancel(context.Background(), 1, 15)

	assert.NoError(t, err)
	assert.Equal(t, domain.RequestCancelled, sr.Status)
}

func TestService_Cancel_NotOwner(t *testing.T) {
	mockReqs := new(MockRequestRepository)

	pending := &domain.ServiceRequest{ID: 16, UserID: 1, Service: "roofing", Status: domain.RequestPending}
	mockReqs.On("GetByID", mock.Anything, int64(16)).Return(pending, nil)

	service := newTestService(mockReqs, new(MockProviderRepository), new(MockUserRepository), new(MockNotificationSender), false)

	_, err := service.Cancel(context.Background(), 42, 16)

	assert.ErrorIs(t, err, ErrUnauthorized)
	mockReqs.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Cancel_ApprovedBlockedByDefault(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)

	providerID := int64(5)
	approved := &domain.ServiceRequest{ID: 17, UserID: 1, Service: "roofing", Status: domain.RequestApproved, ProviderID: &providerID}

	mockReqs.On("GetByID", mock.Anything, int64(17)).Return(approved, nil)
	mockProvs.On("GetByID", mock.Anything, int64(5)).Return(plumber(2), nil)
	mockReqs.On("MarkCancelled", mock.Anything, int64(17), int64(1), []domain.RequestStatus{domain.RequestPending}).Return(false, nil)

	service := newTestService(mockReqs, mockProvs, new(MockUserRepository), new(MockNotificationSender), false)

	_, err := service.Cancel(context.Background(), 1, 17)

	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_Cancel_ApprovedWithPolicy(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)
	mockUsers := new(MockUserRepository)
	mockNotifs := new(MockNotificationSender)

	providerID := int64(5)
	approved := &domain.ServiceRequest{ID: 18, UserID: 1, Service: "roofing", Status: domain.RequestApproved, ProviderID: &providerID}
	cancelled := &domain.ServiceRequest{ID: 18, UserID: 1, Service: "roofing", Status: domain.RequestCancelled}

	mockReqs.On("GetByID", mock.Anything, int64(18)).Return(approved, nil).Once()
	mockProvs.On("GetByID", mock.Anything, int64(5)).Return(plumber(2), nil)
	mockReqs.On("MarkCancelled", mock.Anything, int64(18), int64(1), []domain.RequestStatus{domain.RequestPending, domain.RequestApproved}).Return(true, nil)
	mockReqs.On("GetByID", mock.Anything, int64(18)).Return(cancelled, nil)
	mockUsers.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{ID: 1, Name: "Alice"}, nil)
	// the assigned provider's user gets told
	mockNotifs.On("NotifyRequestCancelled", mock.Anything, cancelled, "Alice", int64(2)).Return(nil)

	service := newTestService(mockReqs, mockProvs, mockUsers, mockNotifs, true)

	sr, err := service.Cancel(context.Background(), 1, 18)

	assert.NoError(t, err)
	assert.Equal(t, domain.RequestCancelled, sr.Status)
	mockNotifs.AssertCalled(t, "NotifyRequestCancelled", mock.Anything, cancelled, "Alice", int64(2))
}

func TestService_Dashboard_MatchSet(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)

	mockProvs.On("GetByUserID", mock.Anything, int64(2)).Return(plumber(2), nil)

	// plumbing category slugs, in table order
	matchSet := catalog.Default().MatchSet("plumbing")

	pending := []domain.ServiceRequest{{ID: 20, Service: "leak-repair", Status: domain.RequestPending}}
	mockReqs.On("ListPendingUnassigned", mock.Anything, matchSet).Return(pending, nil)
	mockReqs.On("ListByProviderStatus", mock.Anything, int64(5), domain.RequestApproved, matchSet).Return([]domain.ServiceRequest{}, nil)
	mockReqs.On("ListByProviderStatus", mock.Anything, int64(5), domain.RequestCompleted, matchSet).Return([]domain.ServiceRequest{}, nil)

	service := newTestService(mockReqs, mockProvs, new(MockUserRepository), new(MockNotificationSender), false)

	dash, err := service.Dashboard(context.Background(), 2)

	assert.NoError(t, err)
	assert.Equal(t, "plumbing", dash.ServiceType)
	assert.Contains(t, dash.MatchSet, "pipe-repair")
	assert.Equal(t, 1, dash.TotalPending)
	assert.Equal(t, 0, dash.TotalAccepted)
}

func TestService_GetRequest_Access(t *testing.T) {
	mockReqs := new(MockRequestRepository)
	mockProvs := new(MockProviderRepository)

	providerID := int64(5)
	sr := &domain.ServiceRequest{ID: 21, UserID: 1, Service: "pipe-repair", Status: domain.RequestApproved, ProviderID: &providerID}
	mockReqs.On("GetByID", mock.Anything, int64(21)).Return(sr, nil)
	mockProvs.On("GetByID", mock.Anything, int64(5)).Return(plumber(2), nil)

	service := newTestService(mockReqs, mockProvs, new(MockUserRepository), new(MockNotificationSender), false)

	// requester
	got, err := service.GetRequest(context.Background(), 1, 21)
	assert.NoError(t, err)
	assert.Equal(t, int64(21), got.ID)

	// assigned provider's user
	_, err = service.GetRequest(context.Background(), 2, 21)
	assert.NoError(t, err)

	// stranger
	_, err = service.GetRequest(context.Background(), 99, 21)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
