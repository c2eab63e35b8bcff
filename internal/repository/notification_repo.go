package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-events/backend/internal/model"
)

// NotificationRepository notifications data access.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListRecent(ctx context.Context, userID int64, role model.Role, limit int) ([]model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64, role model.Role) error
	CountUnread(ctx context.Context, userID int64, role model.Role) (int64, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo creates a NotificationRepository.
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListRecent(ctx context.Context, userID int64, role model.Role, limit int) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND user_role = ?", userID, role).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, userID int64, role model.Role) error {
	return r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND user_role = ? AND is_read = ?", userID, role, false).
		Update("is_read", true).Error
}

func (r *notificationRepo) CountUnread(ctx context.Context, userID int64, role model.Role) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("user_id = ? AND user_role = ? AND is_read = ?", userID, role, false).
		Count(&n).Error
	return n, err
}
