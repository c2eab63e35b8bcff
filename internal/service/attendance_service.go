package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	"campus-events/backend/pkg/metrics"
)

// ── Attendance errors ──

var (
	ErrTokenRequired = errors.New("no token provided")
	ErrInvalidQRCode = errors.New("invalid qr code")
)

// AttendanceService QR redemption at the venue.
type AttendanceService interface {
	// MarkAttendance marks the registration behind token Present and queues its certificate.
	// Redeeming a token twice rewrites the same values.
	MarkAttendance(ctx context.Context, p model.Principal, token string) (*dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo     *repository.Repository
	notify   NotificationService
	renotify bool
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewAttendanceService creates an AttendanceService. With renotify false a rescan sends no notifications.
func NewAttendanceService(repo *repository.Repository, notify NotificationService, renotify bool, m *metrics.Metrics, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, notify: notify, renotify: renotify, metrics: m, logger: logger}
}

func (s *attendanceService) MarkAttendance(ctx context.Context, p model.Principal, token string) (*dto.AttendanceResponse, error) {
	if !p.IsFaculty() {
		return nil, ErrForbidden
	}
	token = strings.TrimSpace(token)
	if token == "" {
		s.metrics.Attendance("no_token")
		return nil, ErrTokenRequired
	}

	reg, err := s.repo.Registration.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.Attendance("not_found")
			return nil, ErrInvalidQRCode
		}
		s.logger.Error("lookup qr token failed", zap.Error(err))
		return nil, err
	}
	alreadyMarked := reg.IsPresent()

	if err := s.repo.Registration.MarkPresent(ctx, token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.Attendance("not_found")
			return nil, ErrInvalidQRCode
		}
		s.logger.Error("mark attendance failed", zap.Int64("registration_id", reg.ID), zap.Error(err))
		return nil, err
	}

	resp := &dto.AttendanceResponse{RegistrationID: reg.ID, AlreadyMarked: alreadyMarked}
	if reg.Student != nil {
		resp.StudentName = reg.Student.Name
	}
	if reg.Event != nil {
		resp.EventName = reg.Event.Name
	}

	if alreadyMarked {
		s.metrics.Attendance("rescan")
	} else {
		s.metrics.Attendance("marked")
	}

	if !alreadyMarked || s.renotify {
		s.notify.NotifyUser(ctx, reg.StudentID, model.RoleStudent, fmt.Sprintf("Attendance marked: %s.", resp.EventName))
		s.notify.NotifyAllAdmins(ctx, fmt.Sprintf("Certificate Pending Approval: %s - %s.", resp.StudentName, resp.EventName))
	}
	return resp, nil
}
