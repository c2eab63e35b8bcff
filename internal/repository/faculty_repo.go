package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-events/backend/internal/model"
)

// FacultyRepository faculty data access.
type FacultyRepository interface {
	Create(ctx context.Context, faculty *model.Faculty) error
	GetByID(ctx context.Context, id int64) (*model.Faculty, error)
	GetByEmail(ctx context.Context, email string) (*model.Faculty, error)
	Update(ctx context.Context, faculty *model.Faculty) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.Faculty, error)
	ListAdmins(ctx context.Context) ([]model.Faculty, error)
	Count(ctx context.Context) (int64, error)
}

type facultyRepo struct {
	db *gorm.DB
}

// NewFacultyRepo creates a FacultyRepository.
func NewFacultyRepo(db *gorm.DB) FacultyRepository {
	return &facultyRepo{db: db}
}

func (r *facultyRepo) Create(ctx context.Context, faculty *model.Faculty) error {
	return r.db.WithContext(ctx).Create(faculty).Error
}

func (r *facultyRepo) GetByID(ctx context.Context, id int64) (*model.Faculty, error) {
	var f model.Faculty
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facultyRepo) GetByEmail(ctx context.Context, email string) (*model.Faculty, error) {
	var f model.Faculty
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *facultyRepo) Update(ctx context.Context, faculty *model.Faculty) error {
	return r.db.WithContext(ctx).Save(faculty).Error
}

func (r *facultyRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	result := r.db.WithContext(ctx).Model(&model.Faculty{}).
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

func (r *facultyRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Faculty{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *facultyRepo) List(ctx context.Context) ([]model.Faculty, error) {
	var list []model.Faculty
	err := r.db.WithContext(ctx).Order("name").Find(&list).Error
	return list, err
}

func (r *facultyRepo) ListAdmins(ctx context.Context) ([]model.Faculty, error) {
	var list []model.Faculty
	err := r.db.WithContext(ctx).Where("is_admin = ?", true).Order("id").Find(&list).Error
	return list, err
}

func (r *facultyRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Faculty{}).Count(&n).Error
	return n, err
}
