package repository

import (
	"context"
	"time"

	"homeservices/internal/domain"

	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

type requestModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	UserID      int64     `gorm:"column:user_id;index"`
	Service     string    `gorm:"column:service;index"`
	Description *string   `gorm:"column:description"`
	Location    *string   `gorm:"column:location"`
	Status      string    `gorm:"column:status;index"`
	ProviderID  *int64    `gorm:"column:provider_id;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (requestModel) TableName() string { return "service_requests" }

func toDomainRequest(m requestModel) *domain.ServiceRequest {
	var desc, location string
	if m.Description != nil {
		desc = *m.Description
	}
	if m.Location != nil {
		location = *m.Location
	}

	return &domain.ServiceRequest{
		ID:          m.ID,
		UserID:      m.UserID,
		Service:     m.Service,
		Description: desc,
		Location:    location,
		Status:      domain.RequestStatus(m.Status),
		ProviderID:  m.ProviderID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toRequestModel(sr *domain.ServiceRequest) requestModel {
	var desc, location *string
	if sr.Description != "" {
		v := sr.Description
		desc = &v
	}
	if sr.Location != "" {
		v := sr.Location
		location = &v
	}

	return requestModel{
		ID:          sr.ID,
		UserID:      sr.UserID,
		Service:     sr.Service,
		Description: desc,
		Location:    location,
		Status:      string(sr.Status),
		ProviderID:  sr.ProviderID,
		CreatedAt:   sr.CreatedAt,
		UpdatedAt:   sr.UpdatedAt,
	}
}

func (r *RequestRepository) Create(ctx context.Context, sr *domain.ServiceRequest) error {
	m := toRequestModel(sr)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*sr = *toDomainRequest(m)
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	var m requestModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequest(m), nil
}

// ListByUser returns the requester's own requests, newest first.
func (r *RequestRepository) ListByUser(ctx context.Context, userID int64) ([]domain.ServiceRequest, error) {
	var rows []requestModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequests(rows), nil
}

// ListPendingUnassigned returns open requests whose service is in slugs,
// newest first. The provider dashboard's "newest first" contract depends
// on this ordering.
func (r *RequestRepository) ListPendingUnassigned(ctx context.Context, slugs []string) ([]domain.ServiceRequest, error) {
	var rows []requestModel
	tx := r.db.WithContext(ctx).
		Where("service IN ? AND status = ? AND provider_id IS NULL", slugs, string(domain.RequestPending)).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequests(rows), nil
}

// ListByProviderStatus returns requests assigned to a provider in the
// given status, newest first.
func (r *RequestRepository) ListByProviderStatus(ctx context.Context, providerID int64, status domain.RequestStatus, slugs []string) ([]domain.ServiceRequest, error) {
	var rows []requestModel
	tx := r.db.WithContext(ctx).
		Where("service IN ? AND status = ? AND provider_id = ?", slugs, string(status), providerID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequests(rows), nil
}

// Assign atomically moves a pending unassigned request to approved with
// the given provider. False means another actor won the race (or the
// request left pending in the meantime).
func (r *RequestRepository) Assign(ctx context.Context, requestID, providerID int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&requestModel{}).
		Where("id = ? AND status = ? AND provider_id IS NULL", requestID, string(domain.RequestPending)).
		Updates(map[string]any{
			"status":      string(domain.RequestApproved),
			"provider_id": providerID,
			"updated_at":  time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// MarkRejected atomically rejects a pending unassigned request.
func (r *RequestRepository) MarkRejected(ctx context.Context, requestID int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&requestModel{}).
		Where("id = ? AND status = ? AND provider_id IS NULL", requestID, string(domain.RequestPending)).
		Updates(map[string]any{
			"status":     string(domain.RequestRejected),
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// MarkCompleted atomically completes a request approved for exactly this
// provider. Identity match, not category match.
func (r *RequestRepository) MarkCompleted(ctx context.Context, requestID, providerID int64) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&requestModel{}).
		Where("id = ? AND status = ? AND provider_id = ?", requestID, string(domain.RequestApproved), providerID).
		Updates(map[string]any{
			"status":     string(domain.RequestCompleted),
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// MarkCancelled atomically cancels the requester's own request while its
// status is still one of fromStatuses. The provider link is cleared so the
// "provider set only while approved/completed" invariant holds.
func (r *RequestRepository) MarkCancelled(ctx context.Context, requestID, userID int64, fromStatuses []domain.RequestStatus) (bool, error) {
	from := make([]string, 0, len(fromStatuses))
	for _, s := range fromStatuses {
		from = append(from, string(s))
	}

	tx := r.db.WithContext(ctx).Model(&requestModel{}).
		Where("id = ? AND user_id = ? AND status IN ?", requestID, userID, from).
		Updates(map[string]any{
			"status":      string(domain.RequestCancelled),
			"provider_id": nil,
			"updated_at":  time.Now(),
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected == 1, nil
}

// CountByStatus supports the admin statistics view.
func (r *RequestRepository) CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error) {
	var cnt int64
	tx := r.db.WithContext(ctx).Model(&requestModel{}).
		Where("status = ?", string(status)).
		Count(&cnt)
	return cnt, tx.Error
}

// ListAll returns every request, newest first, for the admin overview.
func (r *RequestRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.ServiceRequest, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&requestModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []requestModel
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toDomainRequests(rows), total, nil
}

func toDomainRequests(rows []requestModel) []domain.ServiceRequest {
	out := make([]domain.ServiceRequest, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRequest(m))
	}
	return out
}

func (r *RequestRepository) DB() *gorm.DB {
	return r.db
}
