package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every table repository.
type Repository struct {
	db *gorm.DB

	Student      StudentRepository
	Faculty      FacultyRepository
	Event        EventRepository
	Registration RegistrationRepository
	OnDuty       OnDutyRepository
	Feedback     FeedbackRepository
	Notification NotificationRepository
	Course       CourseRepository
	Timetable    TimetableRepository
	Exam         ExamRepository
}

// NewRepository builds the aggregate over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		Student:      NewStudentRepo(db),
		Faculty:      NewFacultyRepo(db),
		Event:        NewEventRepo(db),
		Registration: NewRegistrationRepo(db),
		OnDuty:       NewOnDutyRepo(db),
		Feedback:     NewFeedbackRepo(db),
		Notification: NewNotificationRepo(db),
		Course:       NewCourseRepo(db),
		Timetable:    NewTimetableRepo(db),
		Exam:         NewExamRepo(db),
	}
}

// BeginTx starts a transaction. Returns a nil tx when the aggregate has no database (unit tests).
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx returns an aggregate bound to tx. WithTx(nil) returns r itself.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
