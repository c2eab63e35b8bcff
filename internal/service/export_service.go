package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-events/backend/internal/model"
	"campus-events/backend/internal/repository"
)

// ── Export errors ──

var (
	ErrNotCoordinator     = errors.New("only the event coordinator can export attendance")
	ErrExportGenerateFail = errors.New("failed to generate the Excel file")
)

const attendanceSheet = "Attendance Sheet"

var attendanceHeaders = []string{
	"Name", "Register Number", "Department", "Semester", "Email", "Attendance Status", "Certificate Status",
}

// ExportService spreadsheet exports.
//
// The workbook is returned as a buffer; the handler sets the download headers.
type ExportService interface {
	// ExportAttendance one row per registration of the event, sorted by student name.
	ExportAttendance(ctx context.Context, p model.Principal, eventID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportAttendance
// ═══════════════════════════════════════════════════════════
//
// Sheet "Attendance Sheet", header row then attendees. An empty attendance
// prints as Absent and an empty certificate status as Not Issued.
// An unknown event and a foreign event both yield ErrNotCoordinator.

func (s *exportService) ExportAttendance(ctx context.Context, p model.Principal, eventID int64) (*bytes.Buffer, string, error) {
	// 1. coordinator check
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrNotCoordinator
		}
		s.logger.Error("get event failed", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, "", err
	}
	if !p.IsFaculty() || event.CoordinatorID == nil || *event.CoordinatorID != p.UserID {
		return nil, "", ErrNotCoordinator
	}

	// 2. attendees
	regs, err := s.repo.Registration.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("list event registrations failed", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, "", err
	}
	sort.SliceStable(regs, func(i, j int) bool {
		return studentName(&regs[i]) < studentName(&regs[j])
	})

	// 3. workbook
	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(attendanceSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	widths := make([]int, len(attendanceHeaders))
	writeRow := func(row int, values []any) {
		for i, v := range values {
			f.SetCellValue(attendanceSheet, cell(colName(i), row), v)
			if n := len(fmt.Sprint(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	header := make([]any, len(attendanceHeaders))
	for i, h := range attendanceHeaders {
		header[i] = h
	}
	writeRow(1, header)
	f.SetCellStyle(attendanceSheet, "A1", cell(colName(len(attendanceHeaders)-1), 1), headerStyle)

	for i := range regs {
		r := &regs[i]
		attendance := "Absent"
		if r.Attendance != nil && *r.Attendance != "" {
			attendance = *r.Attendance
		}
		certStatus := "Not Issued"
		if r.CertificateStatus != nil && *r.CertificateStatus != "" {
			certStatus = *r.CertificateStatus
		}
		row := []any{"", "", "", "", "", attendance, certStatus}
		if st := r.Student; st != nil {
			row[0], row[1], row[2], row[3], row[4] = st.Name, st.RegisterNumber, st.Department, st.Semester, st.Email
		}
		writeRow(i+2, row)
	}

	for i, w := range widths {
		col := colName(i)
		f.SetColWidth(attendanceSheet, col, col, float64(w+2))
	}

	// 4. write out
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write attendance workbook failed", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("Attendance_%s.xlsx", event.Name), nil
}

// ── internal helpers ──

func studentName(r *model.Registration) string {
	if r.Student == nil {
		return ""
	}
	return r.Student.Name
}

// colName 0-based column index to letters (0 → A).
func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
