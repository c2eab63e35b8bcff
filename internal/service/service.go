package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"campus-events/backend/config"
	"campus-events/backend/internal/repository"
	"campus-events/backend/pkg/jwt"
	"campus-events/backend/pkg/metrics"
	"campus-events/backend/pkg/queue"
)

// ErrForbidden the caller's role does not allow the operation.
var ErrForbidden = errors.New("forbidden")

// Service aggregates every workflow service.
type Service struct {
	Auth         AuthService
	User         UserService
	Event        EventService
	Registration RegistrationService
	Attendance   AttendanceService
	Certificate  CertificateService
	OnDuty       OnDutyService
	Feedback     FeedbackService
	Notification NotificationService
	Course       CourseService
	Timetable    TimetableService
	Exam         ExamService
	Calendar     CalendarService
	Export       ExportService
	Dashboard    DashboardService
	Email        EmailDispatcher
}

// NewService wires the services. blacklist may be nil when Redis is not configured.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	jobs queue.Queue,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	loc, err := time.LoadLocation(cfg.Database.Timezone)
	if err != nil {
		logger.Warn("unknown campus time zone, using local", zap.String("timezone", cfg.Database.Timezone), zap.Error(err))
		loc = time.Local
	}

	mailer := NewEmailDispatcher(jobs, m, logger)
	notify := NewNotificationService(repo, cfg.Event.NotificationFetchLimit, m, logger)

	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, blacklist, mailer, logger),
		User:         NewUserService(repo, logger),
		Event:        NewEventService(repo, notify, mailer, logger),
		Registration: NewRegistrationService(repo, notify, mailer, cfg.Event, loc, m, logger),
		Attendance:   NewAttendanceService(repo, notify, cfg.Event.RenotifyOnRescan, m, logger),
		Certificate:  NewCertificateService(repo, notify, logger),
		OnDuty:       NewOnDutyService(repo, notify, logger),
		Feedback:     NewFeedbackService(repo, logger),
		Notification: notify,
		Course:       NewCourseService(repo, logger),
		Timetable:    NewTimetableService(repo, logger),
		Exam:         NewExamService(repo, loc, logger),
		Calendar:     NewCalendarService(repo, loc, logger),
		Export:       NewExportService(repo, logger),
		Dashboard:    NewDashboardService(repo, cfg.Event, loc, logger),
		Email:        mailer,
	}
}
