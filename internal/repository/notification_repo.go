package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"homeservices/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrDuplicateNotification is returned when the (request, user, event)
// dedup index rejects an insert. Callers treat it as "already delivered".
var ErrDuplicateNotification = errors.New("notification already exists")

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	UserID    int64     `gorm:"column:user_id;index:idx_notifications_user_unread;uniqueIndex:ux_notifications_dedup,priority:2"`
	Event     string    `gorm:"column:event;uniqueIndex:ux_notifications_dedup,priority:3"`
	Message   string    `gorm:"column:message"`
	RequestID *int64    `gorm:"column:request_id;uniqueIndex:ux_notifications_dedup,priority:1"`
	IsRead    bool      `gorm:"column:is_read;index:idx_notifications_user_unread"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) domain.Notification {
	return domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Event:     domain.NotificationEvent(m.Event),
		Message:   m.Message,
		RequestID: m.RequestID,
		IsRead:    m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		UserID:    n.UserID,
		Event:     string(n.Event),
		Message:   n.Message,
		RequestID: n.RequestID,
		IsRead:    n.IsRead,
	}

	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return ErrDuplicateNotification
		}
		return tx.Error
	}

	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var rows []notificationModel
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

// DeleteByRequestEvent removes a request's fanout notifications; used when
// the requester cancels so providers stop seeing a dead offer.
func (r *NotificationRepository) DeleteByRequestEvent(ctx context.Context, requestID int64, event domain.NotificationEvent) error {
	return r.db.WithContext(ctx).
		Where("request_id = ? AND event = ?", requestID, string(event)).
		Delete(&notificationModel{}).Error
}

// isUniqueViolation detects duplicate-key errors from both backends:
// pg error 23505, and the sqlite driver's constraint message.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *NotificationRepository) DB() *gorm.DB {
	return r.db
}
