package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-events/backend/internal/model"
)

// FeedbackRepository feedback data access.
type FeedbackRepository interface {
	Create(ctx context.Context, fb *model.Feedback) error
	GetByStudentAndEvent(ctx context.Context, studentID, eventID int64) (*model.Feedback, error)
	List(ctx context.Context) ([]model.Feedback, error)
	EventIDsForStudent(ctx context.Context, studentID int64) ([]int64, error)
	DeleteByStudent(ctx context.Context, studentID int64) error
}

type feedbackRepo struct {
	db *gorm.DB
}

// NewFeedbackRepo creates a FeedbackRepository.
func NewFeedbackRepo(db *gorm.DB) FeedbackRepository {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, fb *model.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

func (r *feedbackRepo) GetByStudentAndEvent(ctx context.Context, studentID, eventID int64) (*model.Feedback, error) {
	var fb model.Feedback
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND event_id = ?", studentID, eventID).
		First(&fb).Error
	if err != nil {
		return nil, err
	}
	return &fb, nil
}

func (r *feedbackRepo) List(ctx context.Context) ([]model.Feedback, error) {
	var list []model.Feedback
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Event").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *feedbackRepo) EventIDsForStudent(ctx context.Context, studentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Feedback{}).
		Where("student_id = ?", studentID).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (r *feedbackRepo) DeleteByStudent(ctx context.Context, studentID int64) error {
	return r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&model.Feedback{}).Error
}
