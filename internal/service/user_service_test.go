package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"campus-events/backend/config"
	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/model"
)

// ── helpers ──

// workbook builds an .xlsx upload from rows; the first row is the header.
func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("write workbook failed: %v", err)
	}
	return buf
}

func setupUserService(s *fakeStore) UserService {
	return NewUserService(s.repository(), zap.NewNop())
}

// ── ListUsers / RegisterFaculty ──

func TestListUsers(t *testing.T) {
	s := newFakeStore()
	seedStudent(s, "Asha", "21CS001")
	seedFaculty(s, "Dr. Rao", "rao@uni.edu", false)
	seedFaculty(s, "Admin", "admin@uni.edu", true)
	svc := setupUserService(s)

	resp, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(resp.Students) != 1 || len(resp.Faculty) != 2 {
		t.Errorf("unexpected listing %+v", resp)
	}
}

func TestRegisterFaculty(t *testing.T) {
	s := newFakeStore()
	seedFaculty(s, "Dr. Rao", "rao@uni.edu", false)
	svc := setupUserService(s)

	req := &dto.RegisterFacultyRequest{Name: "Dr. Iyer", Email: "iyer@uni.edu", Department: "ECE", Password: "faculty-secret"}
	resp, err := svc.RegisterFaculty(context.Background(), req)
	if err != nil {
		t.Fatalf("RegisterFaculty failed: %v", err)
	}
	if resp.Role != "faculty" || resp.IsAdmin {
		t.Errorf("new faculty should be a plain faculty account, got %+v", resp)
	}

	req.Email = "rao@uni.edu"
	if _, err := svc.RegisterFaculty(context.Background(), req); !errors.Is(err, ErrFacultyEmailTaken) {
		t.Errorf("expected ErrFacultyEmailTaken, got %v", err)
	}
}

// ── Update ──

func TestUpdateFaculty_SelfDemotion(t *testing.T) {
	s := newFakeStore()
	admin := seedFaculty(s, "Admin", "admin@uni.edu", true)
	other := seedFaculty(s, "Dr. Rao", "rao@uni.edu", false)
	svc := setupUserService(s)
	p := facultyPrincipal(admin)
	no, yes := false, true

	_, err := svc.UpdateFaculty(context.Background(), p, admin.ID, &dto.UpdateFacultyRequest{
		Name: "Admin", Email: "admin@uni.edu", Department: "Administration", IsAdmin: &no,
	})
	if !errors.Is(err, ErrCannotDemoteSelf) {
		t.Fatalf("expected ErrCannotDemoteSelf, got %v", err)
	}
	if !s.faculty[admin.ID].IsAdmin {
		t.Error("admin rights must be kept")
	}

	resp, err := svc.UpdateFaculty(context.Background(), p, other.ID, &dto.UpdateFacultyRequest{
		Name: "Dr. Rao", Email: "rao@uni.edu", Department: "CSE", IsAdmin: &yes,
	})
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	if !resp.IsAdmin || !s.faculty[other.ID].IsAdmin {
		t.Error("promotion should be stored")
	}

	_, err = svc.UpdateFaculty(context.Background(), p, other.ID, &dto.UpdateFacultyRequest{
		Name: "Dr. Rao", Email: "admin@uni.edu", Department: "CSE",
	})
	if !errors.Is(err, ErrFacultyEmailTaken) {
		t.Errorf("expected ErrFacultyEmailTaken, got %v", err)
	}
}

func TestUpdateStudent(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	svc := setupUserService(s)

	resp, err := svc.UpdateStudent(context.Background(), st.ID, &dto.UpdateStudentRequest{
		Name: " Asha K ", Email: "asha@uni.edu", Department: "IT", Semester: 6,
	})
	if err != nil {
		t.Fatalf("UpdateStudent failed: %v", err)
	}
	if resp.Name != "Asha K" || s.students[st.ID].Semester != 6 || s.students[st.ID].RegisterNumber != "21CS001" {
		t.Errorf("unexpected update result %+v", s.students[st.ID])
	}

	if _, err := svc.UpdateStudent(context.Background(), 4242, &dto.UpdateStudentRequest{}); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

// ── Delete ──

func TestDeleteStudent_Cascades(t *testing.T) {
	s := newFakeStore()
	st := seedStudent(s, "Asha", "21CS001")
	keep := seedStudent(s, "Ravi", "21CS002")
	ev := seedEvent(s, "Tech Fest", daysFromNow(-1), nil)
	reg := seedRegistration(s, st, ev, "tok-1")
	seedRegistration(s, keep, ev, "tok-2")
	s.onduty[1] = &model.OnDutyRequest{ID: 1, StudentID: st.ID, EventID: ev.ID, RegistrationID: &reg.ID, Status: model.OnDutyPending}
	s.feedback[1] = &model.Feedback{ID: 1, StudentID: st.ID, EventID: ev.ID, Rating: 5}
	svc := setupUserService(s)

	if err := svc.DeleteStudent(context.Background(), st.ID); err != nil {
		t.Fatalf("DeleteStudent failed: %v", err)
	}
	if _, ok := s.students[st.ID]; ok {
		t.Error("student row should be gone")
	}
	if len(s.registrations) != 1 || len(s.onduty) != 0 || len(s.feedback) != 0 {
		t.Errorf("dependent rows left: regs=%d od=%d fb=%d", len(s.registrations), len(s.onduty), len(s.feedback))
	}

	if err := svc.DeleteStudent(context.Background(), st.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestDeleteFaculty_Self(t *testing.T) {
	s := newFakeStore()
	admin := seedFaculty(s, "Admin", "admin@uni.edu", true)
	other := seedFaculty(s, "Dr. Rao", "rao@uni.edu", false)
	svc := setupUserService(s)

	if err := svc.DeleteFaculty(context.Background(), facultyPrincipal(admin), admin.ID); !errors.Is(err, ErrCannotDeleteSelf) {
		t.Errorf("expected ErrCannotDeleteSelf, got %v", err)
	}
	if err := svc.DeleteFaculty(context.Background(), facultyPrincipal(admin), other.ID); err != nil {
		t.Errorf("DeleteFaculty failed: %v", err)
	}
	if err := svc.DeleteFaculty(context.Background(), facultyPrincipal(admin), other.ID); !errors.Is(err, ErrFacultyNotFound) {
		t.Errorf("expected ErrFacultyNotFound, got %v", err)
	}
}

// ── Import ──

func TestParseImportFile(t *testing.T) {
	svc := setupUserService(newFakeStore())
	buf := workbook(t, [][]any{
		{"Reg No", "Name", "Email", "Department", "Semester"},
		{"21CS010", "Meera", "meera@uni.edu", "CSE", 5},
		{},
		{"21CS011", " Kiran ", "kiran@uni.edu", "CSE", "3"},
	})

	rows, err := svc.ParseImportFile(buf)
	if err != nil {
		t.Fatalf("ParseImportFile failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("blank rows should be skipped, got %d rows", len(rows))
	}
	if rows[0].RegisterNumber != "21CS010" || rows[0].Semester != "5" || rows[0].Row != 2 {
		t.Errorf("unexpected first row %+v", rows[0])
	}
	if rows[1].Name != "Kiran" || rows[1].Row != 4 {
		t.Errorf("unexpected second row %+v", rows[1])
	}
}

func TestParseImportFile_Errors(t *testing.T) {
	svc := setupUserService(newFakeStore())

	if _, err := svc.ParseImportFile(strings.NewReader("not a spreadsheet")); !errors.Is(err, ErrImportUnreadable) {
		t.Errorf("expected ErrImportUnreadable, got %v", err)
	}
	if _, err := svc.ParseImportFile(workbook(t, [][]any{{"name", "email"}})); !errors.Is(err, ErrImportNoData) {
		t.Errorf("expected ErrImportNoData, got %v", err)
	}
	badHeader := workbook(t, [][]any{{"name", "email"}, {"Meera", "meera@uni.edu"}})
	if _, err := svc.ParseImportFile(badHeader); !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("expected ErrImportBadHeader, got %v", err)
	}
}

func TestImportStudents(t *testing.T) {
	s := newFakeStore()
	seedStudent(s, "Asha", "21CS001")
	svc := setupUserService(s)

	rows := []ImportStudentRow{
		{Row: 2, Name: "Meera", RegisterNumber: "21CS010", Email: "meera@uni.edu", Department: "CSE", Semester: "5"},
		{Row: 3, Name: "Asha", RegisterNumber: "21CS001", Email: "asha@uni.edu", Department: "CSE", Semester: "5"},
		{Row: 4, Name: "Kiran", RegisterNumber: "21CS011", Email: "kiran@uni.edu", Department: "CSE", Semester: "9"},
		{Row: 5, Name: "Dev", RegisterNumber: "21CS010", Email: "dev@uni.edu", Department: "CSE", Semester: "5"},
		{Row: 6, Name: "", RegisterNumber: "21CS012", Email: "x@uni.edu", Department: "CSE", Semester: "5"},
	}
	resp, err := svc.ImportStudents(context.Background(), rows)
	if err != nil {
		t.Fatalf("ImportStudents failed: %v", err)
	}
	if resp.Total != 5 || resp.Success != 1 || resp.Failed != 4 {
		t.Errorf("unexpected summary %+v", resp)
	}
	failedRows := map[int]bool{}
	for _, e := range resp.Errors {
		failedRows[e.Row] = true
	}
	for _, r := range []int{3, 4, 5, 6} {
		if !failedRows[r] {
			t.Errorf("row %d should be reported", r)
		}
	}

	imported, err := s.repository().Student.GetByRegisterNumber(context.Background(), "21CS010")
	if err != nil {
		t.Fatalf("imported student missing: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(imported.PasswordHash), []byte("Cep1CS010")) != nil {
		t.Error("initial password should be Cep plus the last six characters of the register number")
	}
}

// ── EnsureAdmin ──

func TestEnsureAdmin(t *testing.T) {
	s := newFakeStore()
	svc := setupUserService(s)
	cfg := config.BootstrapConfig{AdminEmail: "root@uni.edu", AdminPassword: "bootstrap-pass", AdminName: "Root"}

	if err := svc.EnsureAdmin(context.Background(), cfg); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if err := svc.EnsureAdmin(context.Background(), cfg); err != nil {
		t.Fatalf("second EnsureAdmin failed: %v", err)
	}
	if len(s.faculty) != 1 {
		t.Fatalf("expected exactly one bootstrap admin, have %d", len(s.faculty))
	}
	for _, f := range s.faculty {
		if !f.IsAdmin || f.Email != "root@uni.edu" {
			t.Errorf("unexpected bootstrap account %+v", f)
		}
	}

	if err := svc.EnsureAdmin(context.Background(), config.BootstrapConfig{}); err != nil {
		t.Errorf("empty bootstrap config is a no-op, got %v", err)
	}
}
