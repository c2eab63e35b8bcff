package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	pkgerrors "campus-events/backend/pkg/errors"
)

// ── Event errors ──

var (
	ErrCoordinatorNotFound = errors.New("coordinator not found")
	ErrInvalidEventStatus  = errors.New("invalid status")
	ErrInvalidEventDate    = errors.New("invalid event date")
)

// EventService event administration.
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	Get(ctx context.Context, id int64) (*dto.EventResponse, error)
	// Delete removes the event and its registrations in one transaction.
	Delete(ctx context.Context, id int64) error
	SetStatus(ctx context.Context, id int64, status string) error
}

type eventService struct {
	repo   *repository.Repository
	notify NotificationService
	mailer EmailDispatcher
	logger *zap.Logger
}

// NewEventService creates an EventService.
func NewEventService(repo *repository.Repository, notify NotificationService, mailer EmailDispatcher, logger *zap.Logger) EventService {
	return &eventService{repo: repo, notify: notify, mailer: mailer, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	date, err := model.ParseDate(req.EventDate)
	if err != nil {
		return nil, ErrInvalidEventDate
	}

	coordinator, err := s.repo.Faculty.GetByID(ctx, req.CoordinatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCoordinatorNotFound
		}
		s.logger.Error("get coordinator failed", zap.Int64("faculty_id", req.CoordinatorID), zap.Error(err))
		return nil, err
	}

	event := &model.Event{
		Name:          strings.TrimSpace(req.Name),
		Date:          date,
		Location:      strings.TrimSpace(req.Location),
		Description:   strings.TrimSpace(req.Description),
		CoordinatorID: &coordinator.ID,
		Status:        model.EventOpen,
	}
	if err := s.repo.Event.Create(ctx, event); err != nil {
		if errors.Is(pkgerrors.Classify(err), pkgerrors.ErrForeignKey) {
			return nil, ErrCoordinatorNotFound
		}
		s.logger.Error("create event failed", zap.String("name", event.Name), zap.Error(err))
		return nil, err
	}
	event.Coordinator = coordinator

	s.announce(ctx, event)

	resp := toEventResponse(event)
	return &resp, nil
}

// announce fans the new event out to the coordinator, every student and the other faculty.
func (s *eventService) announce(ctx context.Context, event *model.Event) {
	ctx = context.WithoutCancel(ctx)
	date := model.FormatDate(event.Date)
	coordinatorID := *event.CoordinatorID
	s.notify.NotifyUser(ctx, coordinatorID, model.RoleFaculty, fmt.Sprintf("Assigned Coordinator: %s.", event.Name))

	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Warn("list students for announcement failed", zap.Int64("event_id", event.ID), zap.Error(err))
	}
	for _, st := range students {
		s.notify.NotifyUser(ctx, st.ID, model.RoleStudent, fmt.Sprintf("New Event: %s on %s.", event.Name, date))
		msg, err := announcementEmail(st.Email, event.Name, date, event.Location, event.Description)
		if err != nil {
			s.logger.Warn("build announcement email failed", zap.Error(err))
			continue
		}
		s.mailer.Submit(ctx, msg)
	}

	faculty, err := s.repo.Faculty.List(ctx)
	if err != nil {
		s.logger.Warn("list faculty for announcement failed", zap.Int64("event_id", event.ID), zap.Error(err))
		return
	}
	for _, f := range faculty {
		if f.ID == coordinatorID {
			continue
		}
		s.notify.NotifyUser(ctx, f.ID, model.RoleFaculty, fmt.Sprintf("Event Added: %s.", event.Name))
	}
}

// ────────────────────── Get ──────────────────────

func (s *eventService) Get(ctx context.Context, id int64) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("get event failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	resp := toEventResponse(event)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Event.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("get event failed", zap.Int64("id", id), zap.Error(err))
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.Registration.DeleteByEvent(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("delete event registrations failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if err := txRepo.Event.Delete(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("delete event failed", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit transaction failed", zap.Error(err))
			return err
		}
	}
	return nil
}

// ────────────────────── SetStatus ──────────────────────

func (s *eventService) SetStatus(ctx context.Context, id int64, status string) error {
	st := model.EventStatus(status)
	if !st.Valid() {
		return ErrInvalidEventStatus
	}
	if err := s.repo.Event.SetStatus(ctx, id, st); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("set event status failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}
