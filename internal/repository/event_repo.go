package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-events/backend/internal/model"
)

// EventRepository events data access.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	SetStatus(ctx context.Context, id int64, status model.EventStatus) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, offset, limit int) ([]model.Event, int64, error)
	ListByCoordinator(ctx context.Context, facultyID int64) ([]model.Event, error)
	Count(ctx context.Context) (int64, error)
	// Stats counts registrations and attendance per event; coordinatorID 0 means all events.
	Stats(ctx context.Context, coordinatorID int64) ([]model.EventStats, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository.
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	var e model.Event
	err := r.db.WithContext(ctx).
		Preload("Coordinator").
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) SetStatus(ctx context.Context, id int64, status model.EventStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepo) List(ctx context.Context, offset, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Event{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Coordinator").
		Order("event_date DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepo) ListByCoordinator(ctx context.Context, facultyID int64) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("coordinator_id = ?", facultyID).
		Order("event_date DESC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&n).Error
	return n, err
}

func (r *eventRepo) Stats(ctx context.Context, coordinatorID int64) ([]model.EventStats, error) {
	var stats []model.EventStats
	q := r.db.WithContext(ctx).
		Table("events AS e").
		Select(`e.id AS event_id, e.name AS event_name, e.event_date, e.location, e.status,
			COUNT(r.id) AS registrations,
			COUNT(CASE WHEN r.attendance = ? THEN 1 END) AS attended`, model.AttendancePresent).
		Joins("LEFT JOIN registrations r ON r.event_id = e.id").
		Group("e.id").
		Order("e.event_date DESC")
	if coordinatorID != 0 {
		q = q.Where("e.coordinator_id = ?", coordinatorID)
	}
	err := q.Scan(&stats).Error
	return stats, err
}
