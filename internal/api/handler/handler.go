package handler

import "campus-events/backend/internal/service"

// Handler aggregates the HTTP handlers.
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Event        *EventHandler
	Registration *RegistrationHandler
	Attendance   *AttendanceHandler
	Certificate  *CertificateHandler
	OnDuty       *OnDutyHandler
	Feedback     *FeedbackHandler
	Notification *NotificationHandler
	Academic     *AcademicHandler
	Export       *ExportHandler
	Dashboard    *DashboardHandler
}

// NewHandler builds every handler from the service aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Event:        NewEventHandler(svc.Event, svc.Registration),
		Registration: NewRegistrationHandler(svc.Registration),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Certificate:  NewCertificateHandler(svc.Certificate),
		OnDuty:       NewOnDutyHandler(svc.OnDuty),
		Feedback:     NewFeedbackHandler(svc.Feedback),
		Notification: NewNotificationHandler(svc.Notification),
		Academic:     NewAcademicHandler(svc.Course, svc.Timetable, svc.Exam, svc.Calendar),
		Export:       NewExportHandler(svc.Export),
		Dashboard:    NewDashboardHandler(svc.Dashboard),
	}
}
