package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus-events/backend/config"
	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	pkgerrors "campus-events/backend/pkg/errors"
)

// ── User admin errors ──

var (
	ErrStudentNotFound   = errors.New("student not found")
	ErrFacultyNotFound   = errors.New("faculty not found")
	ErrFacultyEmailTaken = errors.New("faculty email already registered")
	ErrCannotDeleteSelf  = errors.New("cannot delete own admin account")
	ErrCannotDemoteSelf  = errors.New("cannot revoke own admin rights")
)

// UserService admin management of student and faculty accounts.
type UserService interface {
	ListUsers(ctx context.Context) (*dto.UserListResponse, error)
	RegisterFaculty(ctx context.Context, req *dto.RegisterFacultyRequest) (*dto.AccountResponse, error)
	UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.AccountResponse, error)
	UpdateFaculty(ctx context.Context, p model.Principal, id int64, req *dto.UpdateFacultyRequest) (*dto.AccountResponse, error)
	// DeleteStudent removes the student with feedback, on-duty requests and registrations.
	DeleteStudent(ctx context.Context, id int64) error
	DeleteFaculty(ctx context.Context, p model.Principal, id int64) error
	ParseImportFile(reader io.Reader) ([]ImportStudentRow, error)
	ImportStudents(ctx context.Context, rows []ImportStudentRow) (*dto.ImportStudentsResponse, error)
	// EnsureAdmin creates the bootstrap admin when no faculty has its email.
	EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig) error
}

// ImportStudentRow one parsed spreadsheet row.
type ImportStudentRow struct {
	Row            int
	Name           string
	RegisterNumber string
	Email          string
	Department     string
	Semester       string
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService creates a UserService.
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── ListUsers ──────────────────────

func (s *userService) ListUsers(ctx context.Context) (*dto.UserListResponse, error) {
	students, err := s.repo.Student.List(ctx)
	if err != nil {
		s.logger.Error("list students failed", zap.Error(err))
		return nil, err
	}
	faculty, err := s.repo.Faculty.List(ctx)
	if err != nil {
		s.logger.Error("list faculty failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.UserListResponse{
		Students: make([]dto.AccountResponse, 0, len(students)),
		Faculty:  make([]dto.AccountResponse, 0, len(faculty)),
	}
	for i := range students {
		resp.Students = append(resp.Students, toAccountResponse(&students[i]))
	}
	for i := range faculty {
		resp.Faculty = append(resp.Faculty, toAccountResponse(&faculty[i]))
	}
	return resp, nil
}

// ────────────────────── RegisterFaculty ──────────────────────

func (s *userService) RegisterFaculty(ctx context.Context, req *dto.RegisterFacultyRequest) (*dto.AccountResponse, error) {
	email := strings.TrimSpace(req.Email)
	if _, err := s.repo.Faculty.GetByEmail(ctx, email); err == nil {
		return nil, ErrFacultyEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check faculty email failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return nil, err
	}

	f := &model.Faculty{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Department:   strings.TrimSpace(req.Department),
		PasswordHash: string(hash),
	}
	if err := s.repo.Faculty.Create(ctx, f); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrFacultyEmailTaken
		}
		s.logger.Error("create faculty failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	resp := toAccountResponse(f)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*dto.AccountResponse, error) {
	st, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("get student failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	st.Name = strings.TrimSpace(req.Name)
	st.Email = strings.TrimSpace(req.Email)
	st.Department = strings.TrimSpace(req.Department)
	st.Semester = req.Semester

	if err := s.repo.Student.Update(ctx, st); err != nil {
		s.logger.Error("update student failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	resp := toAccountResponse(st)
	return &resp, nil
}

func (s *userService) UpdateFaculty(ctx context.Context, p model.Principal, id int64, req *dto.UpdateFacultyRequest) (*dto.AccountResponse, error) {
	f, err := s.repo.Faculty.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacultyNotFound
		}
		s.logger.Error("get faculty failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	email := strings.TrimSpace(req.Email)
	if email != f.Email {
		if _, err := s.repo.Faculty.GetByEmail(ctx, email); err == nil {
			return nil, ErrFacultyEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("check faculty email failed", zap.Error(err))
			return nil, err
		}
	}

	f.Name = strings.TrimSpace(req.Name)
	f.Email = email
	f.Department = strings.TrimSpace(req.Department)
	if req.IsAdmin != nil {
		if id == p.UserID && !*req.IsAdmin {
			return nil, ErrCannotDemoteSelf
		}
		f.IsAdmin = *req.IsAdmin
	}

	if err := s.repo.Faculty.Update(ctx, f); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil, ErrFacultyEmailTaken
		}
		s.logger.Error("update faculty failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	resp := toAccountResponse(f)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) DeleteStudent(ctx context.Context, id int64) error {
	if _, err := s.repo.Student.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("get student failed", zap.Int64("id", id), zap.Error(err))
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

	steps := []func(context.Context, int64) error{
		txRepo.Feedback.DeleteByStudent,
		txRepo.OnDuty.DeleteByStudent,
		txRepo.Registration.DeleteByStudent,
		txRepo.Student.Delete,
	}
	for _, step := range steps {
		if err := step(ctx, id); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			s.logger.Error("delete student failed, rolled back", zap.Int64("id", id), zap.Error(err))
			return err
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit transaction failed", zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *userService) DeleteFaculty(ctx context.Context, p model.Principal, id int64) error {
	if id == p.UserID {
		return ErrCannotDeleteSelf
	}
	if err := s.repo.Faculty.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFacultyNotFound
		}
		s.logger.Error("delete faculty failed", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("spreadsheet has no data rows (first row is the header)")
	ErrImportTooManyRows = fmt.Errorf("spreadsheet exceeds %d rows", maxImportRows)
	ErrImportBadHeader   = errors.New("header must contain name, register_number, email, department and semester")
	ErrImportUnreadable  = errors.New("file is not a readable .xlsx spreadsheet")
)

// ParseImportFile reads the first sheet of an .xlsx upload. Columns may appear in any order.
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportStudentRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportUnreadable, err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImportUnreadable, err)
	}
	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	col := parseHeaderIndex(excelRows[0])
	for _, k := range importColumns {
		if col[k] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	cell := func(row []string, key string) string {
		if idx := col[key]; idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportStudentRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		item := ImportStudentRow{
			Row:            i + 1,
			Name:           cell(r, "name"),
			RegisterNumber: cell(r, "register_number"),
			Email:          cell(r, "email"),
			Department:     cell(r, "department"),
			Semester:       cell(r, "semester"),
		}
		if item == (ImportStudentRow{Row: item.Row}) {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

var importColumns = []string{"name", "register_number", "email", "department", "semester"}

func parseHeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(importColumns))
	for _, k := range importColumns {
		idx[k] = -1
	}
	for i, h := range header {
		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
		if key == "reg_no" {
			key = "register_number"
		}
		if _, ok := idx[key]; ok {
			idx[key] = i
		}
	}
	return idx
}

// ────────────────────── ImportStudents ──────────────────────

// ImportStudents validates every row first, then inserts the valid ones in one transaction.
// The initial password is "Cep" plus the last six characters of the register number.
func (s *userService) ImportStudents(ctx context.Context, rows []ImportStudentRow) (*dto.ImportStudentsResponse, error) {
	resp := &dto.ImportStudentsResponse{Total: len(rows)}
	reject := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportError{Row: row, Reason: reason})
	}

	// 1. validate without writing
	var valid []*model.Student
	seen := make(map[string]bool)
	for _, row := range rows {
		if row.Name == "" || row.RegisterNumber == "" || row.Email == "" || row.Department == "" || row.Semester == "" {
			reject(row.Row, "required field is empty")
			continue
		}
		sem, err := strconv.Atoi(row.Semester)
		if err != nil || sem < 1 || sem > 8 {
			reject(row.Row, fmt.Sprintf("invalid semester: %s", row.Semester))
			continue
		}
		if seen[row.RegisterNumber] {
			reject(row.Row, fmt.Sprintf("duplicate register number in file: %s", row.RegisterNumber))
			continue
		}
		if _, err := s.repo.Student.GetByRegisterNumber(ctx, row.RegisterNumber); err == nil {
			reject(row.Row, fmt.Sprintf("register number already exists: %s", row.RegisterNumber))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("check register number failed", zap.Int("row", row.Row), zap.Error(err))
			return nil, err
		}

		initial := row.RegisterNumber
		if len(initial) > 6 {
			initial = initial[len(initial)-6:]
		}
		hash, err := bcrypt.GenerateFromPassword([]byte("Cep"+initial), bcrypt.DefaultCost)
		if err != nil {
			reject(row.Row, "password hashing failed")
			continue
		}

		seen[row.RegisterNumber] = true
		valid = append(valid, &model.Student{
			Name:           row.Name,
			RegisterNumber: row.RegisterNumber,
			Email:          row.Email,
			Department:     row.Department,
			Semester:       sem,
			PasswordHash:   string(hash),
		})
	}
	if len(valid) == 0 {
		return resp, nil
	}

	// 2. insert all valid rows atomically
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin transaction failed", zap.Error(err))
		return nil, err
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
	for _, st := range valid {
		if err := txRepo.Student.Create(ctx, st); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("import student failed, rolled back",
				zap.String("register_number", st.RegisterNumber), zap.Error(err))
			return nil, fmt.Errorf("import %s: %w", st.RegisterNumber, err)
		}
		resp.Success++
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit transaction failed", zap.Error(err))
			return nil, err
		}
	}
	return resp, nil
}

// ────────────────────── EnsureAdmin ──────────────────────

func (s *userService) EnsureAdmin(ctx context.Context, cfg config.BootstrapConfig) error {
	if cfg.AdminEmail == "" {
		return nil
	}
	if _, err := s.repo.Faculty.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.Faculty{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		Department:   "Administration",
		IsAdmin:      true,
		PasswordHash: string(hash),
	}
	if err := s.repo.Faculty.Create(ctx, admin); err != nil {
		if pkgerrors.IsDuplicateKey(err) {
			return nil
		}
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", cfg.AdminEmail))
	return nil
}
