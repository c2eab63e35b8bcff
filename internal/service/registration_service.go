package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/config"
	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	pkgerrors "campus-events/backend/pkg/errors"
	"campus-events/backend/pkg/metrics"
	"campus-events/backend/pkg/qrcode"
)

// ── Registration errors ──

var (
	ErrEventNotFound              = errors.New("event not found")
	ErrRegistrationClosed         = errors.New("registration is closed for this event")
	ErrRegistrationDeadlinePassed = errors.New("registration deadline has passed")
	ErrAlreadyRegistered          = errors.New("already registered for this event")
	ErrRegistrationNotFound       = errors.New("registration not found or access denied")
	ErrAlreadyAttended            = errors.New("registration already attended")
	ErrCancelWindowClosed         = errors.New("cancellation window has closed")
)

// MissingFieldError a required registration form field was empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Field + " is required."
}

// RegistrationService student registration for events.
type RegistrationService interface {
	Register(ctx context.Context, p model.Principal, eventID int64, req *dto.RegisterEventRequest) error
	// ListEvents public event listing; p may be nil for anonymous callers.
	ListEvents(ctx context.Context, p *model.Principal, page int) (*dto.EventPage, error)
	LookupRegistrations(ctx context.Context, registerNumber, email string) ([]dto.RegistrationResponse, error)
	GetQRCode(ctx context.Context, p model.Principal, registrationID int64) ([]byte, error)
	// Cancel deletes the caller's registration. A missing and a foreign registration look the same.
	Cancel(ctx context.Context, p model.Principal, registrationID int64) error
}

type registrationService struct {
	repo    *repository.Repository
	notify  NotificationService
	mailer  EmailDispatcher
	cfg     config.EventConfig
	loc     *time.Location
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewRegistrationService creates a RegistrationService. Deadlines count days in loc.
func NewRegistrationService(
	repo *repository.Repository,
	notify NotificationService,
	mailer EmailDispatcher,
	cfg config.EventConfig,
	loc *time.Location,
	m *metrics.Metrics,
	logger *zap.Logger,
) RegistrationService {
	if loc == nil {
		loc = time.Local
	}
	return &registrationService{
		repo:    repo,
		notify:  notify,
		mailer:  mailer,
		cfg:     cfg,
		loc:     loc,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// ────────────────────── Register ──────────────────────

func (s *registrationService) Register(ctx context.Context, p model.Principal, eventID int64, req *dto.RegisterEventRequest) error {
	if !p.IsStudent() {
		return ErrForbidden
	}

	// 1. event preconditions, in order
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.Registration("event_not_found")
			return ErrEventNotFound
		}
		s.logger.Error("get event failed", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	if event.Status == model.EventClosed {
		s.metrics.Registration("closed")
		return ErrRegistrationClosed
	}
	if model.DaysUntil(event.Date, s.today()) < s.cfg.RegistrationLeadDays {
		s.metrics.Registration("deadline_passed")
		return ErrRegistrationDeadlinePassed
	}

	// 2. one registration per (student, event)
	_, err = s.repo.Registration.GetByStudentAndEvent(ctx, p.UserID, eventID)
	if err == nil {
		s.metrics.Registration("duplicate")
		return ErrAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check registration failed", zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}

	// 3. form fields
	if field := req.MissingField(); field != "" {
		s.metrics.Registration("invalid_form")
		return &MissingFieldError{Field: field}
	}

	// 4. insert
	token, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generate qr token: %w", err)
	}
	reg := &model.Registration{StudentID: p.UserID, EventID: eventID, QRToken: token.String()}
	if err := s.repo.Registration.Create(ctx, reg); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			s.metrics.Registration("duplicate")
			return ErrAlreadyRegistered
		}
		s.metrics.Registration("error")
		s.logger.Error("create registration failed",
			zap.Int64("student_id", p.UserID), zap.Int64("event_id", eventID), zap.Error(err))
		return err
	}
	s.metrics.Registration("success")

	// 5. best-effort side effects
	s.afterRegister(ctx, p, event, reg)
	return nil
}

func (s *registrationService) afterRegister(ctx context.Context, p model.Principal, event *model.Event, reg *model.Registration) {
	// the registration is committed; a client hang-up must not drop its side effects
	ctx = context.WithoutCancel(ctx)

	studentName := p.DisplayName
	student, err := s.repo.Student.GetByID(ctx, p.UserID)
	if err != nil {
		s.logger.Warn("load student for confirmation failed", zap.Int64("student_id", p.UserID), zap.Error(err))
	} else {
		studentName = student.Name
	}

	s.notify.NotifyUser(ctx, p.UserID, model.RoleStudent, fmt.Sprintf("Registered: %s.", event.Name))
	msg := fmt.Sprintf("Reg: %s - %s.", studentName, event.Name)
	if event.CoordinatorID != nil {
		s.notify.NotifyUser(ctx, *event.CoordinatorID, model.RoleFaculty, msg)
	}
	s.notify.NotifyAllAdmins(ctx, msg)

	if student != nil {
		s.sendConfirmation(ctx, student, event, reg.QRToken)
	}
}

func (s *registrationService) sendConfirmation(ctx context.Context, student *model.Student, event *model.Event, token string) {
	png, err := qrcode.PNG(token, qrcode.DefaultSize)
	if err != nil {
		s.logger.Warn("render qr code failed", zap.Int64("event_id", event.ID), zap.Error(err))
		return
	}
	msg, err := registrationEmail(student.Email, student.Name, event.Name, model.FormatDate(event.Date), event.Location, png)
	if err != nil {
		s.logger.Warn("build confirmation email failed", zap.Error(err))
		return
	}
	s.mailer.Submit(ctx, msg)
}

// ────────────────────── ListEvents ──────────────────────

func (s *registrationService) ListEvents(ctx context.Context, p *model.Principal, page int) (*dto.EventPage, error) {
	if page < 1 {
		page = 1
	}
	size := s.cfg.PublicPageSize
	events, total, err := s.repo.Event.List(ctx, (page-1)*size, size)
	if err != nil {
		s.logger.Error("list events failed", zap.Int("page", page), zap.Error(err))
		return nil, err
	}

	registered := map[int64]bool{}
	if p != nil && p.IsStudent() {
		ids, err := s.repo.Registration.EventIDsForStudent(ctx, p.UserID)
		if err != nil {
			s.logger.Error("list registered events failed", zap.Int64("student_id", p.UserID), zap.Error(err))
			return nil, err
		}
		for _, id := range ids {
			registered[id] = true
		}
	}

	now := s.today()
	out := &dto.EventPage{Events: make([]dto.EventResponse, 0, len(events)), Total: total, Page: page, PageSize: size}
	for i := range events {
		resp := toEventResponse(&events[i])
		resp.DeadlinePassed = model.DaysUntil(events[i].Date, now) < s.cfg.RegistrationLeadDays
		resp.IsRegistered = registered[events[i].ID]
		out.Events = append(out.Events, resp)
	}
	return out, nil
}

// ────────────────────── LookupRegistrations ──────────────────────

func (s *registrationService) LookupRegistrations(ctx context.Context, registerNumber, email string) ([]dto.RegistrationResponse, error) {
	student, err := s.repo.Student.GetByRegisterNumber(ctx, registerNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []dto.RegistrationResponse{}, nil
		}
		s.logger.Error("lookup student failed", zap.Error(err))
		return nil, err
	}
	if student.Email != email {
		return []dto.RegistrationResponse{}, nil
	}

	regs, err := s.repo.Registration.ListByStudent(ctx, student.ID)
	if err != nil {
		s.logger.Error("list registrations failed", zap.Int64("student_id", student.ID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.RegistrationResponse, 0, len(regs))
	for i := range regs {
		out = append(out, toRegistrationResponse(&regs[i]))
	}
	return out, nil
}

// ────────────────────── GetQRCode ──────────────────────

func (s *registrationService) GetQRCode(ctx context.Context, p model.Principal, registrationID int64) ([]byte, error) {
	reg, err := s.repo.Registration.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		s.logger.Error("get registration failed", zap.Int64("id", registrationID), zap.Error(err))
		return nil, err
	}
	if !p.IsStudent() || reg.StudentID != p.UserID {
		return nil, ErrRegistrationNotFound
	}
	return qrcode.PNG(reg.QRToken, qrcode.DefaultSize)
}

// ────────────────────── Cancel ──────────────────────

func (s *registrationService) Cancel(ctx context.Context, p model.Principal, registrationID int64) error {
	reg, err := s.repo.Registration.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		s.logger.Error("get registration failed", zap.Int64("id", registrationID), zap.Error(err))
		return err
	}
	if !p.IsStudent() || reg.StudentID != p.UserID || reg.Event == nil {
		return ErrRegistrationNotFound
	}

	if reg.IsPresent() {
		return ErrAlreadyAttended
	}
	if model.DaysUntil(reg.Event.Date, s.today()) < s.cfg.CancelLeadDays {
		return ErrCancelWindowClosed
	}

	if err := s.repo.Registration.Delete(ctx, registrationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRegistrationNotFound
		}
		s.logger.Error("delete registration failed", zap.Int64("id", registrationID), zap.Error(err))
		return err
	}
	return nil
}

// ── internal helpers ──

// today the current instant on the campus clock.
func (s *registrationService) today() time.Time {
	return s.now().In(s.loc)
}

func toEventResponse(e *model.Event) dto.EventResponse {
	resp := dto.EventResponse{
		ID:            e.ID,
		Name:          e.Name,
		EventDate:     model.FormatDate(e.Date),
		Location:      e.Location,
		Description:   e.Description,
		Status:        string(e.Status),
		CoordinatorID: e.CoordinatorID,
	}
	if e.Coordinator != nil {
		resp.CoordinatorName = e.Coordinator.Name
	}
	return resp
}

func toRegistrationResponse(r *model.Registration) dto.RegistrationResponse {
	resp := dto.RegistrationResponse{
		ID:                r.ID,
		EventID:           r.EventID,
		CertificateStatus: r.Certificate(),
	}
	if r.Attendance != nil {
		resp.Attendance = *r.Attendance
	}
	if r.Event != nil {
		resp.EventName = r.Event.Name
		resp.EventDate = model.FormatDate(r.Event.Date)
		resp.Location = r.Event.Location
	}
	return resp
}
