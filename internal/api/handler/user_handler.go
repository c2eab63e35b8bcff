package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// UserHandler admin user management.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers GET /api/v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userSvc.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, users)
}

// RegisterFaculty POST /api/v1/admin/faculty
func (h *UserHandler) RegisterFaculty(c *gin.Context) {
	var req dto.RegisterFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	account, err := h.userSvc.RegisterFaculty(c.Request.Context(), &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.Created(c, "Faculty member registered successfully", account)
}

// UpdateStudent PUT /api/v1/admin/students/:id
func (h *UserHandler) UpdateStudent(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	account, err := h.userSvc.UpdateStudent(c.Request.Context(), id, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKMessage(c, "Student updated successfully", account)
}

// UpdateFaculty PUT /api/v1/admin/faculty/:id
func (h *UserHandler) UpdateFaculty(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateFacultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	account, err := h.userSvc.UpdateFaculty(c.Request.Context(), p, id, &req)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKMessage(c, "Faculty member updated successfully", account)
}

// DeleteStudent DELETE /api/v1/admin/students/:id
func (h *UserHandler) DeleteStudent(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.DeleteStudent(c.Request.Context(), id); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKMessage(c, "Student deleted successfully", nil)
}

// DeleteFaculty DELETE /api/v1/admin/faculty/:id
func (h *UserHandler) DeleteFaculty(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.DeleteFaculty(c.Request.Context(), p, id); err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OKMessage(c, "Faculty member deleted successfully", nil)
}

// ImportStudents bulk import from an .xlsx upload, field "file".
// POST /api/v1/admin/students/import
func (h *UserHandler) ImportStudents(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, 12100, "Please upload an .xlsx file in the \"file\" field.")
		return
	}
	defer file.Close()

	rows, err := h.userSvc.ParseImportFile(file)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	result, err := h.userSvc.ImportStudents(c.Request.Context(), rows)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 12001, "Student record not found.")
	case errors.Is(err, service.ErrFacultyNotFound):
		response.NotFound(c, 12002, "Faculty member not found.")
	case errors.Is(err, service.ErrFacultyEmailTaken):
		response.Conflict(c, 12003, "Faculty email already registered")
	case errors.Is(err, service.ErrCannotDeleteSelf):
		response.BadRequest(c, 12004, "You cannot delete your own admin account.")
	case errors.Is(err, service.ErrCannotDemoteSelf):
		response.BadRequest(c, 12005, "You cannot remove your own admin rights.")
	case errors.Is(err, service.ErrImportNoData),
		errors.Is(err, service.ErrImportTooManyRows),
		errors.Is(err, service.ErrImportBadHeader):
		response.BadRequest(c, 12101, err.Error())
	case errors.Is(err, service.ErrImportUnreadable):
		response.BadRequest(c, 12102, "File is not a readable .xlsx spreadsheet.")
	default:
		response.InternalError(c)
	}
}
