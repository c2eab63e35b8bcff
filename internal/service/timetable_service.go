package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	pkgerrors "campus-events/backend/pkg/errors"
)

// ── Timetable errors ──

var (
	ErrTimetableConflict     = errors.New("faculty is already booked for this slot")
	ErrTimetableInvalidRange = errors.New("start time must be before end time")
	ErrTimetableSlotNotFound = errors.New("timetable slot not found")
	ErrInvalidWeekday        = errors.New("day must be Monday to Saturday")
)

// TimetableService weekly teaching slots.
//
// A faculty member never holds two overlapping slots on the same day. The service
// checks before inserting; the database exclusion constraint closes the race.
type TimetableService interface {
	CreateSlot(ctx context.Context, req *dto.CreateTimetableSlotRequest) (*dto.TimetableSlotResponse, error)
	DeleteSlot(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]dto.TimetableSlotResponse, error)
	ListForFaculty(ctx context.Context, p model.Principal) ([]dto.TimetableSlotResponse, error)
	ListForStudent(ctx context.Context, p model.Principal) ([]dto.TimetableSlotResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService creates a TimetableService.
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── CreateSlot ──────────────────────

func (s *timetableService) CreateSlot(ctx context.Context, req *dto.CreateTimetableSlotRequest) (*dto.TimetableSlotResponse, error) {
	// 1. validate the range
	if model.WeekdayIndex(req.Day) < 0 {
		return nil, ErrInvalidWeekday
	}
	start, err := model.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrTimetableInvalidRange
	}
	end, err := model.ParseClock(req.EndTime)
	if err != nil {
		return nil, ErrTimetableInvalidRange
	}
	if start >= end {
		return nil, ErrTimetableInvalidRange
	}

	// 2. referenced rows
	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("get course failed", zap.Int64("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}
	faculty, err := s.repo.Faculty.GetByID(ctx, req.FacultyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		s.logger.Error("get faculty failed", zap.Int64("faculty_id", req.FacultyID), zap.Error(err))
		return nil, err
	}

	// 3. overlap: start < newEnd AND end > newStart
	if _, err := s.repo.Timetable.FindOverlap(ctx, req.FacultyID, req.Day, start, end); err == nil {
		return nil, ErrTimetableConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check timetable overlap failed", zap.Int64("faculty_id", req.FacultyID), zap.Error(err))
		return nil, err
	}

	// 4. insert
	slot := &model.TimetableSlot{
		CourseID:  course.ID,
		FacultyID: faculty.ID,
		Day:       req.Day,
		StartTime: start,
		EndTime:   end,
	}
	if err := s.repo.Timetable.Create(ctx, slot); err != nil {
		if pkgerrors.IsExclusionViolation(err) {
			return nil, ErrTimetableConflict
		}
		s.logger.Error("create timetable slot failed", zap.Int64("faculty_id", req.FacultyID), zap.Error(err))
		return nil, err
	}
	slot.Course, slot.Faculty = course, faculty

	resp := toTimetableSlotResponse(slot)
	return &resp, nil
}

// ────────────────────── DeleteSlot ──────────────────────

func (s *timetableService) DeleteSlot(ctx context.Context, id int64) error {
	if err := s.repo.Timetable.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimetableSlotNotFound
		}
		s.logger.Error("delete timetable slot failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── List ──────────────────────

func (s *timetableService) ListAll(ctx context.Context) ([]dto.TimetableSlotResponse, error) {
	slots, err := s.repo.Timetable.ListAll(ctx)
	if err != nil {
		s.logger.Error("list timetable failed", zap.Error(err))
		return nil, err
	}
	return toTimetableSlotResponses(slots), nil
}

func (s *timetableService) ListForFaculty(ctx context.Context, p model.Principal) ([]dto.TimetableSlotResponse, error) {
	if !p.IsFaculty() {
		return nil, ErrForbidden
	}
	slots, err := s.repo.Timetable.ListByFaculty(ctx, p.UserID)
	if err != nil {
		s.logger.Error("list faculty timetable failed", zap.Int64("faculty_id", p.UserID), zap.Error(err))
		return nil, err
	}
	return toTimetableSlotResponses(slots), nil
}

func (s *timetableService) ListForStudent(ctx context.Context, p model.Principal) ([]dto.TimetableSlotResponse, error) {
	slots, err := studentSlots(ctx, s.repo, p)
	if err != nil {
		if !errors.Is(err, ErrForbidden) && !errors.Is(err, ErrStudentNotFound) {
			s.logger.Error("list student timetable failed", zap.Int64("student_id", p.UserID), zap.Error(err))
		}
		return nil, err
	}
	return toTimetableSlotResponses(slots), nil
}

// ── internal helpers ──

// studentSlots slots of the courses in the student's department and semester.
func studentSlots(ctx context.Context, repo *repository.Repository, p model.Principal) ([]model.TimetableSlot, error) {
	st, err := cohortOf(ctx, repo, p)
	if err != nil {
		return nil, err
	}
	return repo.Timetable.ListByCohort(ctx, st.Department, st.Semester)
}

func cohortOf(ctx context.Context, repo *repository.Repository, p model.Principal) (*model.Student, error) {
	if !p.IsStudent() {
		return nil, ErrForbidden
	}
	st, err := repo.Student.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return st, nil
}

func toTimetableSlotResponse(s *model.TimetableSlot) dto.TimetableSlotResponse {
	resp := dto.TimetableSlotResponse{
		ID:        s.ID,
		CourseID:  s.CourseID,
		FacultyID: s.FacultyID,
		Day:       s.Day,
		StartTime: model.FormatClock(s.StartTime),
		EndTime:   model.FormatClock(s.EndTime),
	}
	if s.Course != nil {
		resp.CourseName = s.Course.Name
	}
	if s.Faculty != nil {
		resp.FacultyName = s.Faculty.Name
	}
	return resp
}

func toTimetableSlotResponses(slots []model.TimetableSlot) []dto.TimetableSlotResponse {
	out := make([]dto.TimetableSlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, toTimetableSlotResponse(&slots[i]))
	}
	return out
}
