package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-events/backend/internal/model"
)

// StudentRepository students data access.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id int64) (*model.Student, error)
	GetByRegisterNumber(ctx context.Context, registerNumber string) (*model.Student, error)
	GetByEmail(ctx context.Context, email string) (*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Student, error)
	ListByCohort(ctx context.Context, department string, semester int) ([]model.Student, error)
	Count(ctx context.Context) (int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo creates a StudentRepository.
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id int64) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) GetByRegisterNumber(ctx context.Context, registerNumber string) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("register_number = ?", registerNumber).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) GetByEmail(ctx context.Context, email string) (*model.Student, error) {
	var s model.Student
	if err := r.db.WithContext(ctx).Where("email = ?", email).Order("id").First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Student{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *studentRepo) List(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).Order("name").Find(&students).Error
	return students, err
}

func (r *studentRepo) ListByCohort(ctx context.Context, department string, semester int) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("department = ? AND semester = ?", department, semester).
		Order("name").
		Find(&students).Error
	return students, err
}

func (r *studentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Student{}).Count(&n).Error
	return n, err
}
