//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
	"campus-events/backend/pkg/database"
	pkgerrors "campus-events/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=campus password=campus_password dbname=campus_events_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrations failed: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

func truncate(t *testing.T) {
	t.Helper()
	err := testDB.Exec(`TRUNCATE notifications, feedback, onduty_requests, registrations,
		exams, timetable, courses, events, faculty, students RESTART IDENTITY CASCADE`).Error
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func createStudent(t *testing.T, repo *repository.Repository, regNo string) *model.Student {
	t.Helper()
	st := &model.Student{
		Name:           "Student " + regNo,
		RegisterNumber: regNo,
		Email:          regNo + "@uni.edu",
		Department:     "CSE",
		Semester:       5,
		PasswordHash:   "$2a$10$placeholder",
	}
	if err := repo.Student.Create(context.Background(), st); err != nil {
		t.Fatalf("create student: %v", err)
	}
	return st
}

func createFaculty(t *testing.T, repo *repository.Repository, email string) *model.Faculty {
	t.Helper()
	f := &model.Faculty{Name: "Faculty " + email, Email: email, Department: "CSE", PasswordHash: "$2a$10$placeholder"}
	if err := repo.Faculty.Create(context.Background(), f); err != nil {
		t.Fatalf("create faculty: %v", err)
	}
	return f
}

func createEvent(t *testing.T, repo *repository.Repository, name string, coordinator *model.Faculty) *model.Event {
	t.Helper()
	e := &model.Event{
		Name:     name,
		Date:     model.DateOf(time.Now().AddDate(0, 0, 7)),
		Location: "Main Auditorium",
		Status:   model.EventOpen,
	}
	if coordinator != nil {
		e.CoordinatorID = &coordinator.ID
	}
	if err := repo.Event.Create(context.Background(), e); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

// ═══════════════════════════════════════════════════════════
// Transactions
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	truncate(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	st := createStudent(t, repo.WithTx(tx), "21CS001")
	tx.Rollback()

	if _, err := repo.Student.GetByID(ctx, st.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected the student to be rolled back, got %v", err)
	}
}

func TestTransaction_Commit(t *testing.T) {
	truncate(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx failed: %v", err)
	}
	st := createStudent(t, repo.WithTx(tx), "21CS001")
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	found, err := repo.Student.GetByID(ctx, st.ID)
	if err != nil {
		t.Fatalf("get after commit: %v", err)
	}
	if found.RegisterNumber != "21CS001" {
		t.Errorf("unexpected student %+v", found)
	}
}

// ═══════════════════════════════════════════════════════════
// Constraints
// ═══════════════════════════════════════════════════════════

func TestRegistration_DuplicateIsUniqueViolation(t *testing.T) {
	truncate(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	st := createStudent(t, repo, "21CS001")
	ev := createEvent(t, repo, "Tech Fest", nil)

	if err := repo.Registration.Create(ctx, &model.Registration{StudentID: st.ID, EventID: ev.ID, QRToken: "tok-1"}); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	err := repo.Registration.Create(ctx, &model.Registration{StudentID: st.ID, EventID: ev.ID, QRToken: "tok-2"})
	if !pkgerrors.IsDuplicateKey(err) {
		t.Errorf("expected a unique violation, got %v", err)
	}
}

func TestRegistration_MarkPresent(t *testing.T) {
	truncate(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	st := createStudent(t, repo, "21CS001")
	ev := createEvent(t, repo, "Tech Fest", nil)
	reg := &model.Registration{StudentID: st.ID, EventID: ev.ID, QRToken: "tok-1"}
	if err := repo.Registration.Create(ctx, reg); err != nil {
		t.Fatalf("create registration: %v", err)
	}

	if err := repo.Registration.MarkPresent(ctx, "tok-1"); err != nil {
		t.Fatalf("MarkPresent failed: %v", err)
	}
	got, err := repo.Registration.GetByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if !got.IsPresent() || got.Certificate() != model.CertificatePending {
		t.Errorf("unexpected registration %+v", got)
	}
	if got.Student == nil || got.Event == nil {
		t.Error("relations should be loaded")
	}

	if err := repo.Registration.MarkPresent(ctx, "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestTimetable_OverlapIsExclusionViolation(t *testing.T) {
	truncate(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	f := createFaculty(t, repo, "rao@uni.edu")
	c := &model.Course{Name: "Compilers", Department: "CSE", Semester: 5}
	if err := repo.Course.Create(ctx, c); err != nil {
		t.Fatalf("create course: %v", err)
	}

	slot := func(start, end string) *model.TimetableSlot {
		s, _ := model.ParseClock(start)
		e, _ := model.ParseClock(end)
		return &model.TimetableSlot{CourseID: c.ID, FacultyID: f.ID, Day: "Monday", StartTime: s, EndTime: e}
	}

	if err := repo.Timetable.Create(ctx, slot("09:00", "10:00")); err != nil {
		t.Fatalf("first slot: %v", err)
	}
	if err := repo.Timetable.Create(ctx, slot("10:00", "11:00")); err != nil {
		t.Errorf("back-to-back slot should be accepted: %v", err)
	}
	if err := repo.Timetable.Create(ctx, slot("09:30", "10:30")); !pkgerrors.IsExclusionViolation(err) {
		t.Errorf("expected an exclusion violation, got %v", err)
	}

	s, _ := model.ParseClock("09:15")
	e, _ := model.ParseClock("09:45")
	if _, err := repo.Timetable.FindOverlap(ctx, f.ID, "Monday", s, e); err != nil {
		t.Errorf("FindOverlap should see the 09:00 slot: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Aggregates
// ═══════════════════════════════════════════════════════════

func TestEvent_Stats(t *testing.T) {
	truncate(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	rao := createFaculty(t, repo, "rao@uni.edu")
	iyer := createFaculty(t, repo, "iyer@uni.edu")
	mine := createEvent(t, repo, "Tech Fest", rao)
	createEvent(t, repo, "Hackathon", iyer)

	for i := 1; i <= 3; i++ {
		st := createStudent(t, repo, fmt.Sprintf("21CS00%d", i))
		token := fmt.Sprintf("tok-%d", i)
		if err := repo.Registration.Create(ctx, &model.Registration{StudentID: st.ID, EventID: mine.ID, QRToken: token}); err != nil {
			t.Fatalf("create registration: %v", err)
		}
		if i < 3 {
			if err := repo.Registration.MarkPresent(ctx, token); err != nil {
				t.Fatalf("MarkPresent: %v", err)
			}
		}
	}

	stats, err := repo.Event.Stats(ctx, rao.ID)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if len(stats) != 1 || stats[0].Registrations != 3 || stats[0].Attended != 2 {
		t.Errorf("unexpected coordinator stats %+v", stats)
	}

	all, err := repo.Event.Stats(ctx, 0)
	if err != nil {
		t.Fatalf("Stats(0) failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected every event, got %d", len(all))
	}
}
