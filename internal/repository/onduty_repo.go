package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-events/backend/internal/model"
)

// OnDutyRepository onduty_requests data access.
type OnDutyRepository interface {
	Create(ctx context.Context, req *model.OnDutyRequest) error
	GetByID(ctx context.Context, id int64) (*model.OnDutyRequest, error)
	GetByStudentAndEvent(ctx context.Context, studentID, eventID int64) (*model.OnDutyRequest, error)
	// Resolve moves a Pending request to status; gorm.ErrRecordNotFound when it is no longer Pending.
	Resolve(ctx context.Context, id int64, status string, approvedBy int64) error
	List(ctx context.Context) ([]model.OnDutyRequest, error)
	ListByStudent(ctx context.Context, studentID int64) ([]model.OnDutyRequest, error)
	DeleteByStudent(ctx context.Context, studentID int64) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type onDutyRepo struct {
	db *gorm.DB
}

// NewOnDutyRepo creates an OnDutyRepository.
func NewOnDutyRepo(db *gorm.DB) OnDutyRepository {
	return &onDutyRepo{db: db}
}

func (r *onDutyRepo) Create(ctx context.Context, req *model.OnDutyRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *onDutyRepo) GetByID(ctx context.Context, id int64) (*model.OnDutyRequest, error) {
	var req model.OnDutyRequest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Event").
		Where("id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *onDutyRepo) GetByStudentAndEvent(ctx context.Context, studentID, eventID int64) (*model.OnDutyRequest, error) {
	var req model.OnDutyRequest
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND event_id = ?", studentID, eventID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *onDutyRepo) Resolve(ctx context.Context, id int64, status string, approvedBy int64) error {
	result := r.db.WithContext(ctx).Model(&model.OnDutyRequest{}).
		Where("id = ? AND status = ?", id, model.OnDutyPending).
		Updates(map[string]any{"status": status, "approved_by": approvedBy})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *onDutyRepo) List(ctx context.Context) ([]model.OnDutyRequest, error) {
	var list []model.OnDutyRequest
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Event").
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *onDutyRepo) ListByStudent(ctx context.Context, studentID int64) ([]model.OnDutyRequest, error) {
	var list []model.OnDutyRequest
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Find(&list).Error
	return list, err
}

func (r *onDutyRepo) DeleteByStudent(ctx context.Context, studentID int64) error {
	return r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&model.OnDutyRequest{}).Error
}

func (r *onDutyRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OnDutyRequest{}).Where("status = ?", status).Count(&n).Error
	return n, err
}
