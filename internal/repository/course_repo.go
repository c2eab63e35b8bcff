package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"campus-events/backend/internal/model"
)

// weekdayOrder sorts timetable rows Monday to Saturday.
const weekdayOrder = `CASE day WHEN 'Monday' THEN 1 WHEN 'Tuesday' THEN 2 WHEN 'Wednesday' THEN 3
	WHEN 'Thursday' THEN 4 WHEN 'Friday' THEN 5 WHEN 'Saturday' THEN 6 ELSE 7 END`

// CourseRepository courses data access.
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	List(ctx context.Context) ([]model.Course, error)
	Delete(ctx context.Context, id int64) error
}

// TimetableRepository timetable data access.
type TimetableRepository interface {
	Create(ctx context.Context, slot *model.TimetableSlot) error
	GetByID(ctx context.Context, id int64) (*model.TimetableSlot, error)
	// FindOverlap returns a slot of facultyID on day intersecting [start, end), or gorm.ErrRecordNotFound.
	FindOverlap(ctx context.Context, facultyID int64, day string, start, end datatypes.Time) (*model.TimetableSlot, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCourse(ctx context.Context, courseID int64) error
	ListAll(ctx context.Context) ([]model.TimetableSlot, error)
	ListByFaculty(ctx context.Context, facultyID int64) ([]model.TimetableSlot, error)
	ListByCohort(ctx context.Context, department string, semester int) ([]model.TimetableSlot, error)
}

// ExamRepository exams data access.
type ExamRepository interface {
	Create(ctx context.Context, exam *model.Exam) error
	GetByID(ctx context.Context, id int64) (*model.Exam, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCourse(ctx context.Context, courseID int64) error
	ListAll(ctx context.Context) ([]model.Exam, error)
	ListByCohort(ctx context.Context, department string, semester int) ([]model.Exam, error)
}

// ── Course Repository ──

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo creates a CourseRepository.
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepo) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	var c model.Course
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) List(ctx context.Context) ([]model.Course, error) {
	var list []model.Course
	err := r.db.WithContext(ctx).Order("department, semester, name").Find(&list).Error
	return list, err
}

func (r *courseRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Course{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ── Timetable Repository ──

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo creates a TimetableRepository.
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, slot *model.TimetableSlot) error {
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *timetableRepo) GetByID(ctx context.Context, id int64) (*model.TimetableSlot, error) {
	var slot model.TimetableSlot
	err := r.db.WithContext(ctx).
		Preload("Course").
		Preload("Faculty").
		Where("id = ?", id).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timetableRepo) FindOverlap(ctx context.Context, facultyID int64, day string, start, end datatypes.Time) (*model.TimetableSlot, error) {
	var slot model.TimetableSlot
	err := r.db.WithContext(ctx).
		Where("faculty_id = ? AND day = ?", facultyID, day).
		Where("start_time < ? AND end_time > ?", end, start).
		First(&slot).Error
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *timetableRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TimetableSlot{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *timetableRepo) DeleteByCourse(ctx context.Context, courseID int64) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.TimetableSlot{}).Error
}

func (r *timetableRepo) ListAll(ctx context.Context) ([]model.TimetableSlot, error) {
	var list []model.TimetableSlot
	err := r.ordered(ctx).Find(&list).Error
	return list, err
}

func (r *timetableRepo) ListByFaculty(ctx context.Context, facultyID int64) ([]model.TimetableSlot, error) {
	var list []model.TimetableSlot
	err := r.ordered(ctx).Where("timetable.faculty_id = ?", facultyID).Find(&list).Error
	return list, err
}

func (r *timetableRepo) ListByCohort(ctx context.Context, department string, semester int) ([]model.TimetableSlot, error) {
	var list []model.TimetableSlot
	err := r.ordered(ctx).
		Select("timetable.*").
		Joins("JOIN courses ON courses.id = timetable.course_id").
		Where("courses.department = ? AND courses.semester = ?", department, semester).
		Find(&list).Error
	return list, err
}

func (r *timetableRepo) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Course").
		Preload("Faculty").
		Order(weekdayOrder).
		Order("start_time")
}

// ── Exam Repository ──

type examRepo struct {
	db *gorm.DB
}

// NewExamRepo creates an ExamRepository.
func NewExamRepo(db *gorm.DB) ExamRepository {
	return &examRepo{db: db}
}

func (r *examRepo) Create(ctx context.Context, exam *model.Exam) error {
	return r.db.WithContext(ctx).Create(exam).Error
}

func (r *examRepo) GetByID(ctx context.Context, id int64) (*model.Exam, error) {
	var e model.Exam
	if err := r.db.WithContext(ctx).Preload("Course").Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *examRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Exam{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *examRepo) DeleteByCourse(ctx context.Context, courseID int64) error {
	return r.db.WithContext(ctx).Where("course_id = ?", courseID).Delete(&model.Exam{}).Error
}

func (r *examRepo) ListAll(ctx context.Context) ([]model.Exam, error) {
	var list []model.Exam
	err := r.db.WithContext(ctx).
		Preload("Course").
		Order("exam_date, start_time").
		Find(&list).Error
	return list, err
}

func (r *examRepo) ListByCohort(ctx context.Context, department string, semester int) ([]model.Exam, error) {
	var list []model.Exam
	err := r.db.WithContext(ctx).
		Preload("Course").
		Select("exams.*").
		Joins("JOIN courses ON courses.id = exams.course_id").
		Where("courses.department = ? AND courses.semester = ?", department, semester).
		Order("exams.exam_date, exams.start_time").
		Find(&list).Error
	return list, err
}
