package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	pkgerrors "campus-events/backend/pkg/errors"
)

// ── On-duty errors ──

var (
	ErrOnDutyNotEligible      = errors.New("attendance not marked or not registered")
	ErrOnDutyAlreadySubmitted = errors.New("on-duty request already submitted for this event")
	ErrOnDutyNotFound         = errors.New("on-duty request not found")
	ErrOnDutyAlreadyResolved  = errors.New("on-duty request already resolved")
	ErrInvalidOnDutyAction    = errors.New("action must be approve or reject")
)

// OnDutyService on-duty (excused absence) requests.
type OnDutyService interface {
	Request(ctx context.Context, p model.Principal, registrationID int64) error
	Respond(ctx context.Context, p model.Principal, requestID int64, action string) error
	List(ctx context.Context) ([]dto.OnDutyResponse, error)
}

type onDutyService struct {
	repo   *repository.Repository
	notify NotificationService
	logger *zap.Logger
}

// NewOnDutyService creates an OnDutyService.
func NewOnDutyService(repo *repository.Repository, notify NotificationService, logger *zap.Logger) OnDutyService {
	return &onDutyService{repo: repo, notify: notify, logger: logger}
}

// ────────────────────── Request ──────────────────────

func (s *onDutyService) Request(ctx context.Context, p model.Principal, registrationID int64) error {
	if !p.IsStudent() {
		return ErrForbidden
	}
	reg, err := s.repo.Registration.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOnDutyNotEligible
		}
		s.logger.Error("get registration failed", zap.Int64("id", registrationID), zap.Error(err))
		return err
	}
	if reg.StudentID != p.UserID || !reg.IsPresent() {
		return ErrOnDutyNotEligible
	}

	_, err = s.repo.OnDuty.GetByStudentAndEvent(ctx, p.UserID, reg.EventID)
	if err == nil {
		return ErrOnDutyAlreadySubmitted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check on-duty request failed", zap.Int64("registration_id", registrationID), zap.Error(err))
		return err
	}

	req := &model.OnDutyRequest{
		StudentID:      p.UserID,
		EventID:        reg.EventID,
		RegistrationID: &reg.ID,
		Status:         model.OnDutyPending,
	}
	if err := s.repo.OnDuty.Create(ctx, req); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return ErrOnDutyAlreadySubmitted
		}
		s.logger.Error("create on-duty request failed", zap.Int64("registration_id", registrationID), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Respond ──────────────────────

func (s *onDutyService) Respond(ctx context.Context, p model.Principal, requestID int64, action string) error {
	if !p.IsAdmin {
		return ErrForbidden
	}

	var status string
	switch strings.ToLower(action) {
	case "approve":
		status = model.OnDutyApproved
	case "reject":
		status = model.OnDutyRejected
	default:
		return ErrInvalidOnDutyAction
	}

	req, err := s.repo.OnDuty.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOnDutyNotFound
		}
		s.logger.Error("get on-duty request failed", zap.Int64("id", requestID), zap.Error(err))
		return err
	}
	if req.Status != model.OnDutyPending {
		return ErrOnDutyAlreadyResolved
	}

	// Resolve only matches Pending rows, so a concurrent response loses here.
	if err := s.repo.OnDuty.Resolve(ctx, requestID, status, p.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOnDutyAlreadyResolved
		}
		s.logger.Error("resolve on-duty request failed", zap.Int64("id", requestID), zap.Error(err))
		return err
	}

	eventName := ""
	if req.Event != nil {
		eventName = req.Event.Name
	}
	s.notify.NotifyUser(ctx, req.StudentID, model.RoleStudent,
		fmt.Sprintf("Your On-Duty request for event '%s' has been %s by Admin.", eventName, status))
	return nil
}

// ────────────────────── List ──────────────────────

func (s *onDutyService) List(ctx context.Context) ([]dto.OnDutyResponse, error) {
	list, err := s.repo.OnDuty.List(ctx)
	if err != nil {
		s.logger.Error("list on-duty requests failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.OnDutyResponse, 0, len(list))
	for _, r := range list {
		item := dto.OnDutyResponse{ID: r.ID, Status: r.Status, CreatedAt: r.CreatedAt.Format(time.RFC3339)}
		if r.Student != nil {
			item.StudentName = r.Student.Name
			item.RegisterNumber = r.Student.RegisterNumber
		}
		if r.Event != nil {
			item.EventName = r.Event.Name
			item.EventDate = model.FormatDate(r.Event.Date)
		}
		out = append(out, item)
	}
	return out, nil
}
