package repository

import (
	"context"
	"strings"
	"time"

	"homeservices/internal/domain"

	"gorm.io/gorm"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

type providerModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	UserID            int64     `gorm:"column:user_id"`
	Name              string    `gorm:"column:name"`
	Phone             *string   `gorm:"column:phone"`
	Location          *string   `gorm:"column:location"`
	Age               int       `gorm:"column:age"`
	ServiceType       string    `gorm:"column:service_type"`
	IsVerified        bool      `gorm:"column:is_verified"`
	VerificationToken *string   `gorm:"column:verification_token"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (providerModel) TableName() string { return "providers" }

func toDomainProvider(m providerModel) *domain.Provider {
	var phone, location, token string
	if m.Phone != nil {
		phone = *m.Phone
	}
	if m.Location != nil {
		location = *m.Location
	}
	if m.VerificationToken != nil {
		token = *m.VerificationToken
	}

	return &domain.Provider{
		ID:                m.ID,
		UserID:            m.UserID,
		Name:              m.Name,
		Phone:             phone,
		Location:          location,
		Age:               m.Age,
		ServiceType:       m.ServiceType,
		IsVerified:        m.IsVerified,
		VerificationToken: token,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toProviderModel(p *domain.Provider) providerModel {
	var phone, location, token *string
	if p.Phone != "" {
		v := p.Phone
		phone = &v
	}
	if p.Location != "" {
		v := p.Location
		location = &v
	}
	if p.VerificationToken != "" {
		v := p.VerificationToken
		token = &v
	}

	return providerModel{
		ID:     p.ID,
		UserID: p.UserID,
		Name:   p.Name,
		Phone:  phone,
		// specialties are stored lowercased, matching normalizes anyway
		ServiceType:       strings.TrimSpace(p.ServiceType),
		Location:          location,
		Age:               p.Age,
		IsVerified:        p.IsVerified,
		VerificationToken: token,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (r *ProviderRepository) Create(ctx context.Context, p *domain.Provider) error {
	m := toProviderModel(p)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*p = *toDomainProvider(m)
	return nil
}

func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*domain.Provider, error) {
	var m providerModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProvider(m), nil
}

func (r *ProviderRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Provider, error) {
	var m providerModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProvider(m), nil
}

func (r *ProviderRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.Provider, error) {
	var m providerModel
	tx := r.db.WithContext(ctx).Where("verification_token = ?", token).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainProvider(m), nil
}

func (r *ProviderRepository) Update(ctx context.Context, p *domain.Provider) error {
	m := toProviderModel(p)
	return r.db.WithContext(ctx).Save(&m).Error
}

// List returns all providers, newest first.
func (r *ProviderRepository) List(ctx context.Context, limit, offset int) ([]domain.Provider, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&providerModel{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []providerModel
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Provider, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProvider(m))
	}
	return out, total, nil
}

// ListAll returns every provider; fanout scans it for category matches.
func (r *ProviderRepository) ListAll(ctx context.Context) ([]domain.Provider, error) {
	var rows []providerModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Provider, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainProvider(m))
	}
	return out, nil
}

func (r *ProviderRepository) DB() *gorm.DB {
	return r.db
}
