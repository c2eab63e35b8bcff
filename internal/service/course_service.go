package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
)

// ErrCourseNotFound course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// CourseService course catalogue.
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	// Delete removes the course with its timetable slots and exams in one transaction.
	Delete(ctx context.Context, id int64) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService creates a CourseService.
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	c := &model.Course{
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
		Semester:   req.Semester,
	}
	if err := s.repo.Course.Create(ctx, c); err != nil {
		s.logger.Error("create course failed", zap.String("name", c.Name), zap.Error(err))
		return nil, err
	}
	resp := toCourseResponse(c)
	return &resp, nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	list, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.CourseResponse, 0, len(list))
	for i := range list {
		out = append(out, toCourseResponse(&list[i]))
	}
	return out, nil
}

func (s *courseService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("get course failed", zap.Int64("id", id), zap.Error(err))
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

	if err := txRepo.Timetable.DeleteByCourse(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("delete course timetable failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if err := txRepo.Exam.DeleteByCourse(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("delete course exams failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if err := txRepo.Course.Delete(ctx, id); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		s.logger.Error("delete course failed", zap.Int64("id", id), zap.Error(err))
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

func toCourseResponse(c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{ID: c.ID, Name: c.Name, Department: c.Department, Semester: c.Semester}
}
