package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-events/backend/internal/model"
)

// RegistrationRepository registrations data access.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *model.Registration) error
	GetByID(ctx context.Context, id int64) (*model.Registration, error)
	GetByStudentAndEvent(ctx context.Context, studentID, eventID int64) (*model.Registration, error)
	GetByToken(ctx context.Context, token string) (*model.Registration, error)
	// MarkPresent sets attendance Present and certificate Pending for the token in one statement.
	MarkPresent(ctx context.Context, token string) error
	SetCertificateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	DeleteByEvent(ctx context.Context, eventID int64) error
	DeleteByStudent(ctx context.Context, studentID int64) error
	ListByStudent(ctx context.Context, studentID int64) ([]model.Registration, error)
	ListByEvent(ctx context.Context, eventID int64) ([]model.Registration, error)
	ListByCertificateStatus(ctx context.Context, status string) ([]model.Registration, error)
	EventIDsForStudent(ctx context.Context, studentID int64) ([]int64, error)
	Count(ctx context.Context) (int64, error)
}

type registrationRepo struct {
	db *gorm.DB
}

// NewRegistrationRepo creates a RegistrationRepository.
func NewRegistrationRepo(db *gorm.DB) RegistrationRepository {
	return &registrationRepo{db: db}
}

func (r *registrationRepo) Create(ctx context.Context, reg *model.Registration) error {
	return r.db.WithContext(ctx).Create(reg).Error
}

func (r *registrationRepo) GetByID(ctx context.Context, id int64) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Event").
		Where("id = ?", id).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepo) GetByStudentAndEvent(ctx context.Context, studentID, eventID int64) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND event_id = ?", studentID, eventID).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepo) GetByToken(ctx context.Context, token string) (*model.Registration, error) {
	var reg model.Registration
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Event").
		Where("qr_token = ?", token).
		First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *registrationRepo) MarkPresent(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("qr_token = ?", token).
		Updates(map[string]any{
			"attendance":         model.AttendancePresent,
			"certificate_status": model.CertificatePending,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *registrationRepo) SetCertificateStatus(ctx context.Context, id int64, status string) error {
	result := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("id = ?", id).
		Update("certificate_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *registrationRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Registration{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *registrationRepo) DeleteByEvent(ctx context.Context, eventID int64) error {
	return r.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&model.Registration{}).Error
}

func (r *registrationRepo) DeleteByStudent(ctx context.Context, studentID int64) error {
	return r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&model.Registration{}).Error
}

func (r *registrationRepo) ListByStudent(ctx context.Context, studentID int64) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Select("registrations.*").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.student_id = ?", studentID).
		Order("events.event_date DESC").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepo) ListByEvent(ctx context.Context, eventID int64) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("event_id = ?", eventID).
		Order("id").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepo) ListByCertificateStatus(ctx context.Context, status string) ([]model.Registration, error) {
	var regs []model.Registration
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Event").
		Where("certificate_status = ?", status).
		Order("id").
		Find(&regs).Error
	return regs, err
}

func (r *registrationRepo) EventIDsForStudent(ctx context.Context, studentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("student_id = ?", studentID).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (r *registrationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).Count(&n).Error
	return n, err
}
