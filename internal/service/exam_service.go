package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
)

// ── Exam errors ──

var (
	ErrExamNotFound     = errors.New("exam not found")
	ErrExamInvalidRange = errors.New("exam start must be before end")
)

// ExamService exam schedule.
type ExamService interface {
	Create(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error)
	ListAll(ctx context.Context) ([]dto.ExamResponse, error)
	Delete(ctx context.Context, id int64) error
	// ListForStudent exams of the student's cohort plus the first one that has not started yet.
	ListForStudent(ctx context.Context, p model.Principal) (*dto.StudentExamsResponse, error)
}

type examService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time
}

// NewExamService creates an ExamService. loc is the campus time zone.
func NewExamService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExamService {
	return &examService{repo: repo, loc: loc, logger: logger, now: time.Now}
}

func (s *examService) Create(ctx context.Context, req *dto.CreateExamRequest) (*dto.ExamResponse, error) {
	date, err := model.ParseDate(req.ExamDate)
	if err != nil {
		return nil, ErrExamInvalidRange
	}
	start, err := model.ParseClock(req.StartTime)
	if err != nil {
		return nil, ErrExamInvalidRange
	}
	end, err := model.ParseClock(req.EndTime)
	if err != nil || start >= end {
		return nil, ErrExamInvalidRange
	}

	course, err := s.repo.Course.GetByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("get course failed", zap.Int64("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}

	exam := &model.Exam{
		CourseID:  course.ID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Hall:      strings.TrimSpace(req.Hall),
	}
	if err := s.repo.Exam.Create(ctx, exam); err != nil {
		s.logger.Error("create exam failed", zap.Int64("course_id", req.CourseID), zap.Error(err))
		return nil, err
	}
	exam.Course = course

	resp := toExamResponse(exam)
	return &resp, nil
}

func (s *examService) ListAll(ctx context.Context) ([]dto.ExamResponse, error) {
	exams, err := s.repo.Exam.ListAll(ctx)
	if err != nil {
		s.logger.Error("list exams failed", zap.Error(err))
		return nil, err
	}
	return toExamResponses(exams), nil
}

func (s *examService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Exam.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		s.logger.Error("delete exam failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *examService) ListForStudent(ctx context.Context, p model.Principal) (*dto.StudentExamsResponse, error) {
	st, err := cohortOf(ctx, s.repo, p)
	if err != nil {
		return nil, err
	}
	exams, err := s.repo.Exam.ListByCohort(ctx, st.Department, st.Semester)
	if err != nil {
		s.logger.Error("list student exams failed", zap.Int64("student_id", p.UserID), zap.Error(err))
		return nil, err
	}

	resp := &dto.StudentExamsResponse{Exams: toExamResponses(exams)}
	now := s.now()
	for i := range exams {
		if model.At(exams[i].Date, exams[i].StartTime, s.loc).After(now) {
			next := resp.Exams[i]
			resp.NextExam = &next
			break
		}
	}
	return resp, nil
}

func toExamResponse(e *model.Exam) dto.ExamResponse {
	resp := dto.ExamResponse{
		ID:        e.ID,
		CourseID:  e.CourseID,
		ExamDate:  model.FormatDate(e.Date),
		StartTime: model.FormatClock(e.StartTime),
		EndTime:   model.FormatClock(e.EndTime),
		Hall:      e.Hall,
	}
	if e.Course != nil {
		resp.CourseName = e.Course.Name
	}
	return resp
}

func toExamResponses(exams []model.Exam) []dto.ExamResponse {
	out := make([]dto.ExamResponse, 0, len(exams))
	for i := range exams {
		out = append(out, toExamResponse(&exams[i]))
	}
	return out
}
