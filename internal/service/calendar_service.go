package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
)

const icsProductID = "-//Campus Event Portal//Timetable//EN"

// CalendarService iCalendar (RFC 5545) exports of the timetable and exam schedule.
//
// Students get their cohort, faculty get their own slots and every exam.
type CalendarService interface {
	ExportTimetable(ctx context.Context, p model.Principal) ([]byte, error)
	ExportExams(ctx context.Context, p model.Principal) ([]byte, error)
}

type calendarService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewCalendarService creates a CalendarService. loc is the campus time zone.
func NewCalendarService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, loc: loc, logger: logger, now: time.Now}
}

// ────────────────────── ExportTimetable ──────────────────────

// ExportTimetable one weekly recurring VEVENT per slot, anchored on the next
// occurrence of the slot's weekday.
func (s *calendarService) ExportTimetable(ctx context.Context, p model.Principal) ([]byte, error) {
	var (
		slots []model.TimetableSlot
		err   error
	)
	if p.IsStudent() {
		slots, err = studentSlots(ctx, s.repo, p)
	} else {
		slots, err = s.repo.Timetable.ListByFaculty(ctx, p.UserID)
	}
	if err != nil {
		if !errors.Is(err, ErrStudentNotFound) && !errors.Is(err, ErrForbidden) {
			s.logger.Error("load timetable for calendar failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		}
		return nil, err
	}

	now := s.now().In(s.loc)
	cal := newCalendar("Timetable")
	for i := range slots {
		slot := &slots[i]
		day := nextWeekday(now, model.WeekdayIndex(slot.Day))
		ev := cal.AddEvent(fmt.Sprintf("timetable-%d@campus-events", slot.ID))
		ev.SetDtStampTime(now)
		ev.SetStartAt(model.At(day, slot.StartTime, s.loc))
		ev.SetEndAt(model.At(day, slot.EndTime, s.loc))
		ev.AddRrule("FREQ=WEEKLY")
		if slot.Course != nil {
			ev.SetSummary(slot.Course.Name)
		}
		if slot.Faculty != nil {
			ev.SetDescription("Faculty: " + slot.Faculty.Name)
		}
	}
	return []byte(cal.Serialize()), nil
}

// ────────────────────── ExportExams ──────────────────────

func (s *calendarService) ExportExams(ctx context.Context, p model.Principal) ([]byte, error) {
	var (
		exams []model.Exam
		err   error
	)
	if p.IsStudent() {
		var st *model.Student
		if st, err = cohortOf(ctx, s.repo, p); err == nil {
			exams, err = s.repo.Exam.ListByCohort(ctx, st.Department, st.Semester)
		}
	} else {
		exams, err = s.repo.Exam.ListAll(ctx)
	}
	if err != nil {
		if !errors.Is(err, ErrStudentNotFound) && !errors.Is(err, ErrForbidden) {
			s.logger.Error("load exams for calendar failed", zap.Int64("user_id", p.UserID), zap.Error(err))
		}
		return nil, err
	}

	now := s.now().In(s.loc)
	cal := newCalendar("Exams")
	for i := range exams {
		e := &exams[i]
		ev := cal.AddEvent(fmt.Sprintf("exam-%d@campus-events", e.ID))
		ev.SetDtStampTime(now)
		ev.SetStartAt(model.At(e.Date, e.StartTime, s.loc))
		ev.SetEndAt(model.At(e.Date, e.EndTime, s.loc))
		ev.SetLocation(e.Hall)
		if e.Course != nil {
			ev.SetSummary("Exam: " + e.Course.Name)
		}
	}
	return []byte(cal.Serialize()), nil
}

// ── internal helpers ──

func newCalendar(name string) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(name)
	return cal
}

// nextWeekday the date of the first day on or after now that falls on the
// Monday-based weekday index (0 = Monday).
func nextWeekday(now time.Time, idx int) datatypes.Date {
	target := time.Weekday((idx + 1) % 7)
	diff := (int(target) - int(now.Weekday()) + 7) % 7
	return model.DateOf(now.AddDate(0, 0, diff))
}
