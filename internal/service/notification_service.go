package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	"campus-events/backend/pkg/metrics"
)

// NotificationService in-app notifications.
//
// NotifyUser and NotifyAllAdmins are best-effort: failures are logged and counted,
// never returned, so they cannot undo the mutation that triggered them.
type NotificationService interface {
	NotifyUser(ctx context.Context, userID int64, role model.Role, message string)
	NotifyAllAdmins(ctx context.Context, message string)
	// Fetch returns the most recent notifications, then marks all of the caller's unread ones read.
	Fetch(ctx context.Context, p model.Principal) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, p model.Principal) (int64, error)
}

type notificationService struct {
	repo    *repository.Repository
	limit   int
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewNotificationService creates a NotificationService returning at most limit items per fetch.
func NewNotificationService(repo *repository.Repository, limit int, m *metrics.Metrics, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, limit: limit, metrics: m, logger: logger}
}

func (s *notificationService) NotifyUser(ctx context.Context, userID int64, role model.Role, message string) {
	n := &model.Notification{UserID: userID, UserRole: role, Message: message}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.metrics.Notification("failed")
		s.logger.Warn("notification insert failed",
			zap.Int64("user_id", userID), zap.String("role", string(role)), zap.Error(err))
		return
	}
	s.metrics.Notification("ok")
}

func (s *notificationService) NotifyAllAdmins(ctx context.Context, message string) {
	admins, err := s.repo.Faculty.ListAdmins(ctx)
	if err != nil {
		s.metrics.Notification("failed")
		s.logger.Warn("list admins for notification failed", zap.Error(err))
		return
	}
	for _, a := range admins {
		s.NotifyUser(ctx, a.ID, model.RoleFaculty, message)
	}
}

func (s *notificationService) Fetch(ctx context.Context, p model.Principal) ([]dto.NotificationResponse, error) {
	list, err := s.repo.Notification.ListRecent(ctx, p.UserID, p.Role, s.limit)
	if err != nil {
		s.logger.Error("list notifications failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		return nil, err
	}

	items := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		items = append(items, toNotificationResponse(&list[i]))
	}

	if err := s.repo.Notification.MarkAllRead(ctx, p.UserID, p.Role); err != nil {
		s.logger.Error("mark notifications read failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		return nil, err
	}
	return items, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, p model.Principal) (int64, error) {
	n, err := s.repo.Notification.CountUnread(ctx, p.UserID, p.Role)
	if err != nil {
		s.logger.Error("count unread notifications failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
