package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/config"
	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
)

// DashboardService per-role landing page aggregates.
type DashboardService interface {
	Student(ctx context.Context, p model.Principal) (*dto.StudentDashboardResponse, error)
	// Faculty covers the events the caller coordinates.
	Faculty(ctx context.Context, p model.Principal) (*dto.FacultyDashboardResponse, error)
	Admin(ctx context.Context, p model.Principal) (*dto.AdminDashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	cfg    config.EventConfig
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a DashboardService. loc is the campus time zone.
func NewDashboardService(repo *repository.Repository, cfg config.EventConfig, loc *time.Location, logger *zap.Logger) DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &dashboardService{repo: repo, cfg: cfg, loc: loc, logger: logger, now: time.Now}
}

// ────────────────────── Student ──────────────────────

func (s *dashboardService) Student(ctx context.Context, p model.Principal) (*dto.StudentDashboardResponse, error) {
	if !p.IsStudent() {
		return nil, ErrForbidden
	}
	st, err := s.repo.Student.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("get student failed", zap.Int64("student_id", p.UserID), zap.Error(err))
		return nil, err
	}

	regs, err := s.repo.Registration.ListByStudent(ctx, p.UserID)
	if err != nil {
		s.logger.Error("list student registrations failed", zap.Int64("student_id", p.UserID), zap.Error(err))
		return nil, err
	}
	feedbackIDs, err := s.repo.Feedback.EventIDsForStudent(ctx, p.UserID)
	if err != nil {
		s.logger.Error("list student feedback failed", zap.Int64("student_id", p.UserID), zap.Error(err))
		return nil, err
	}
	requests, err := s.repo.OnDuty.ListByStudent(ctx, p.UserID)
	if err != nil {
		s.logger.Error("list student on-duty requests failed", zap.Int64("student_id", p.UserID), zap.Error(err))
		return nil, err
	}

	feedback := make(map[int64]bool, len(feedbackIDs))
	for _, id := range feedbackIDs {
		feedback[id] = true
	}
	odStatus := make(map[int64]string, len(requests))
	for _, r := range requests {
		odStatus[r.EventID] = r.Status
	}

	resp := &dto.StudentDashboardResponse{
		Student:       toAccountResponse(st),
		Registrations: make([]dto.StudentRegistrationItem, 0, len(regs)),
	}
	now := s.now().In(s.loc)
	for i := range regs {
		r := &regs[i]
		base := toRegistrationResponse(r)
		item := dto.StudentRegistrationItem{
			RegistrationID:    r.ID,
			EventID:           r.EventID,
			EventName:         base.EventName,
			EventDate:         base.EventDate,
			Location:          base.Location,
			Attendance:        base.Attendance,
			CertificateStatus: base.CertificateStatus,
			FeedbackSubmitted: feedback[r.EventID],
			ODStatus:          odStatus[r.EventID],
		}
		if r.Event != nil {
			item.CanCancel = !r.IsPresent() && model.DaysUntil(r.Event.Date, now) >= s.cfg.CancelLeadDays
		}
		if r.IsPresent() {
			resp.TotalAttended++
		}
		resp.Registrations = append(resp.Registrations, item)
	}
	resp.TotalRegistered = len(regs)
	resp.ParticipationRate = percent1(int64(resp.TotalAttended), int64(resp.TotalRegistered))

	if resp.Unread, err = s.repo.Notification.CountUnread(ctx, p.UserID, p.Role); err != nil {
		s.logger.Warn("count unread notifications failed", zap.Int64("user_id", p.UserID), zap.Error(err))
	}
	return resp, nil
}

// ────────────────────── Faculty ──────────────────────

func (s *dashboardService) Faculty(ctx context.Context, p model.Principal) (*dto.FacultyDashboardResponse, error) {
	if !p.IsFaculty() {
		return nil, ErrForbidden
	}
	stats, err := s.repo.Event.Stats(ctx, p.UserID)
	if err != nil {
		s.logger.Error("load coordinator stats failed", zap.Int64("faculty_id", p.UserID), zap.Error(err))
		return nil, err
	}

	resp := &dto.FacultyDashboardResponse{Events: toAttendanceItems(stats)}
	for _, st := range stats {
		resp.TotalRegistrations += st.Registrations
		resp.TotalAttended += st.Attended
	}
	resp.AttendanceRate = percent1(resp.TotalAttended, resp.TotalRegistrations)

	if resp.Unread, err = s.repo.Notification.CountUnread(ctx, p.UserID, p.Role); err != nil {
		s.logger.Warn("count unread notifications failed", zap.Int64("user_id", p.UserID), zap.Error(err))
	}
	return resp, nil
}

// ────────────────────── Admin ──────────────────────

func (s *dashboardService) Admin(ctx context.Context, p model.Principal) (*dto.AdminDashboardResponse, error) {
	if !p.IsAdmin {
		return nil, ErrForbidden
	}

	resp := &dto.AdminDashboardResponse{}
	counters := []struct {
		name string
		dst  *int64
		fn   func(context.Context) (int64, error)
	}{
		{"students", &resp.Students, s.repo.Student.Count},
		{"faculty", &resp.Faculty, s.repo.Faculty.Count},
		{"events", &resp.Events, s.repo.Event.Count},
		{"registrations", &resp.Registrations, s.repo.Registration.Count},
		{"pending_onduty", &resp.PendingOnDuty, func(ctx context.Context) (int64, error) {
			return s.repo.OnDuty.CountByStatus(ctx, model.OnDutyPending)
		}},
	}
	for _, c := range counters {
		n, err := c.fn(ctx)
		if err != nil {
			s.logger.Error("admin dashboard count failed", zap.String("counter", c.name), zap.Error(err))
			return nil, err
		}
		*c.dst = n
	}

	stats, err := s.repo.Event.Stats(ctx, 0)
	if err != nil {
		s.logger.Error("load event stats failed", zap.Error(err))
		return nil, err
	}
	resp.Analytics = toAttendanceItems(stats)
	return resp, nil
}

// ── internal helpers ──

func toAttendanceItems(stats []model.EventStats) []dto.EventAttendanceItem {
	out := make([]dto.EventAttendanceItem, 0, len(stats))
	for _, st := range stats {
		item := dto.EventAttendanceItem{
			EventID:       st.EventID,
			EventName:     st.EventName,
			EventDate:     model.FormatDate(st.EventDate),
			Location:      st.Location,
			Status:        string(st.Status),
			Registrations: st.Registrations,
			Attended:      st.Attended,
		}
		if st.Registrations > 0 {
			item.Percentage = int(math.Round(float64(st.Attended) / float64(st.Registrations) * 100))
		}
		out = append(out, item)
	}
	return out
}

// percent1 part/total as a percentage rounded to one decimal; 0 when total is 0.
func percent1(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
