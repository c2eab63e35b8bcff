package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	pkgerrors "campus-events/backend/pkg/errors"
)

// ── Feedback errors ──

var (
	ErrFeedbackNotRegistered    = errors.New("not registered for this event")
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted")
	ErrFeedbackInvalidRating    = errors.New("rating must be between 1 and 5")
)

// FeedbackService post-event feedback.
type FeedbackService interface {
	Submit(ctx context.Context, p model.Principal, eventID int64, req *dto.SubmitFeedbackRequest) error
	List(ctx context.Context) ([]dto.FeedbackResponse, error)
}

type feedbackService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFeedbackService creates a FeedbackService.
func NewFeedbackService(repo *repository.Repository, logger *zap.Logger) FeedbackService {
	return &feedbackService{repo: repo, logger: logger}
}

func (s *feedbackService) Submit(ctx context.Context, p model.Principal, eventID int64, req *dto.SubmitFeedbackRequest) error {
	if !p.IsStudent() {
		return ErrForbidden
	}
	if req.Rating < 1 || req.Rating > 5 {
		return ErrFeedbackInvalidRating
	}

	if _, err := s.repo.Registration.GetByStudentAndEvent(ctx, p.UserID, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFeedbackNotRegistered
		}
		s.logger.Error("check registration failed", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}

	_, err := s.repo.Feedback.GetByStudentAndEvent(ctx, p.UserID, eventID)
	if err == nil {
		return ErrFeedbackAlreadySubmitted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check feedback failed", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}

	fb := &model.Feedback{
		StudentID: p.UserID,
		EventID:   eventID,
		Rating:    req.Rating,
		Comments:  strings.TrimSpace(req.Comments),
	}
	if err := s.repo.Feedback.Create(ctx, fb); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return ErrFeedbackAlreadySubmitted
		}
		s.logger.Error("create feedback failed", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

func (s *feedbackService) List(ctx context.Context) ([]dto.FeedbackResponse, error) {
	list, err := s.repo.Feedback.List(ctx)
	if err != nil {
		s.logger.Error("list feedback failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.FeedbackResponse, 0, len(list))
	for _, f := range list {
		item := dto.FeedbackResponse{
			ID:        f.ID,
			Rating:    f.Rating,
			Comments:  f.Comments,
			CreatedAt: f.CreatedAt.Format(time.RFC3339),
		}
		if f.Student != nil {
			item.StudentName = f.Student.Name
		}
		if f.Event != nil {
			item.EventName = f.Event.Name
		}
		out = append(out, item)
	}
	return out, nil
}
