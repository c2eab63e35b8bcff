package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// AcademicHandler courses, timetable, exams and their calendar feeds.
type AcademicHandler struct {
	courseSvc    service.CourseService
	timetableSvc service.TimetableService
	examSvc      service.ExamService
	calendarSvc  service.CalendarService
}

// NewAcademicHandler creates an AcademicHandler.
func NewAcademicHandler(
	courseSvc service.CourseService,
	timetableSvc service.TimetableService,
	examSvc service.ExamService,
	calendarSvc service.CalendarService,
) *AcademicHandler {
	return &AcademicHandler{
		courseSvc:    courseSvc,
		timetableSvc: timetableSvc,
		examSvc:      examSvc,
		calendarSvc:  calendarSvc,
	}
}

// ────────────────────── Courses ──────────────────────

// ListCourses GET /api/v1/admin/courses
func (h *AcademicHandler) ListCourses(c *gin.Context) {
	list, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// CreateCourse POST /api/v1/admin/courses
func (h *AcademicHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleAcademicError(c, err)
		return
	}

	response.Created(c, "Course added successfully!", course)
}

// DeleteCourse DELETE /api/v1/admin/courses/:id
func (h *AcademicHandler) DeleteCourse(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.courseSvc.Delete(c.Request.Context(), id); err != nil {
		handleAcademicError(c, err)
		return
	}
	response.OKMessage(c, "Course deleted.", nil)
}

// ────────────────────── Timetable ──────────────────────

// ListTimetable GET /api/v1/admin/timetable
func (h *AcademicHandler) ListTimetable(c *gin.Context) {
	list, err := h.timetableSvc.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// CreateSlot POST /api/v1/admin/timetable
func (h *AcademicHandler) CreateSlot(c *gin.Context) {
	var req dto.CreateTimetableSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	slot, err := h.timetableSvc.CreateSlot(c.Request.Context(), &req)
	if err != nil {
		handleAcademicError(c, err)
		return
	}

	response.Created(c, "Schedule assigned successfully.", slot)
}

// DeleteSlot DELETE /api/v1/admin/timetable/:id
func (h *AcademicHandler) DeleteSlot(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.timetableSvc.DeleteSlot(c.Request.Context(), id); err != nil {
		handleAcademicError(c, err)
		return
	}
	response.OKMessage(c, "Schedule deleted.", nil)
}

// MyTimetable the caller's week: cohort slots for students, own slots for faculty.
// GET /api/v1/timetable
func (h *AcademicHandler) MyTimetable(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}

	var (
		list []dto.TimetableSlotResponse
		err  error
	)
	if p.IsStudent() {
		list, err = h.timetableSvc.ListForStudent(c.Request.Context(), p)
	} else {
		list, err = h.timetableSvc.ListForFaculty(c.Request.Context(), p)
	}
	if err != nil {
		handleAcademicError(c, err)
		return
	}

	response.OK(c, list)
}

// TimetableICS GET /api/v1/timetable.ics
func (h *AcademicHandler) TimetableICS(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	data, err := h.calendarSvc.ExportTimetable(c.Request.Context(), p)
	if err != nil {
		handleAcademicError(c, err)
		return
	}
	writeCalendar(c, "timetable.ics", data)
}

// ────────────────────── Exams ──────────────────────

// ListExams GET /api/v1/admin/exams
func (h *AcademicHandler) ListExams(c *gin.Context) {
	list, err := h.examSvc.ListAll(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// CreateExam POST /api/v1/admin/exams
func (h *AcademicHandler) CreateExam(c *gin.Context) {
	var req dto.CreateExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	exam, err := h.examSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handleAcademicError(c, err)
		return
	}

	response.Created(c, "Exam scheduled successfully!", exam)
}

// DeleteExam DELETE /api/v1/admin/exams/:id
func (h *AcademicHandler) DeleteExam(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.examSvc.Delete(c.Request.Context(), id); err != nil {
		handleAcademicError(c, err)
		return
	}
	response.OKMessage(c, "Exam schedule deleted.", nil)
}

// MyExams GET /api/v1/exams
func (h *AcademicHandler) MyExams(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	result, err := h.examSvc.ListForStudent(c.Request.Context(), p)
	if err != nil {
		handleAcademicError(c, err)
		return
	}
	response.OK(c, result)
}

// ExamsICS GET /api/v1/exams.ics
func (h *AcademicHandler) ExamsICS(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	data, err := h.calendarSvc.ExportExams(c.Request.Context(), p)
	if err != nil {
		handleAcademicError(c, err)
		return
	}
	writeCalendar(c, "exams.ics", data)
}

// ── internal helpers ──

func writeCalendar(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func handleAcademicError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimetableConflict):
		response.Conflict(c, 19001, "Time conflict detected! Faculty is already booked for this slot.")
	case errors.Is(err, service.ErrTimetableInvalidRange), errors.Is(err, service.ErrExamInvalidRange):
		response.BadRequest(c, 19002, "Start time must be before end time.")
	case errors.Is(err, service.ErrInvalidWeekday):
		response.BadRequest(c, 19003, "Day must be Monday to Saturday.")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 19004, "Course not found.")
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, 19005, "Faculty member not found.")
	case errors.Is(err, service.ErrTimetableSlotNotFound):
		response.NotFound(c, 19006, "Schedule not found.")
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 19007, "Exam not found.")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 19008, "Student record not found.")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "Unauthorized access.")
	default:
		response.InternalError(c)
	}
}
