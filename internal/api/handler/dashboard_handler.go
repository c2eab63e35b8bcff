package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// DashboardHandler landing pages per role.
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Student GET /api/v1/student/dashboard
func (h *DashboardHandler) Student(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	result, err := h.dashboardSvc.Student(c.Request.Context(), p)
	if err != nil {
		h.handleDashboardError(c, err)
		return
	}
	response.OK(c, result)
}

// Faculty GET /api/v1/faculty/dashboard
func (h *DashboardHandler) Faculty(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	result, err := h.dashboardSvc.Faculty(c.Request.Context(), p)
	if err != nil {
		h.handleDashboardError(c, err)
		return
	}
	response.OK(c, result)
}

// Admin GET /api/v1/admin/dashboard
func (h *DashboardHandler) Admin(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	result, err := h.dashboardSvc.Admin(c.Request.Context(), p)
	if err != nil {
		h.handleDashboardError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *DashboardHandler) handleDashboardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 20001, "Student profile not found.")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "Unauthorized access.")
	default:
		response.InternalError(c)
	}
}
