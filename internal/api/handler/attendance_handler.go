package handler

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// AttendanceHandler QR scanning at the venue.
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler.
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// Scan redeems a scanned token.
// POST /api/v1/attendance/scan
func (h *AttendanceHandler) Scan(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	var req dto.MarkAttendanceRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	result, err := h.attendanceSvc.MarkAttendance(c.Request.Context(), p, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenRequired):
			response.BadRequest(c, 15001, "No token provided")
		case errors.Is(err, service.ErrInvalidQRCode):
			response.NotFound(c, 15002, "Error: Invalid QR Code")
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(c, 10003, "Unauthorized access.")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OKMessage(c, fmt.Sprintf("Success: Attendance marked for %s (Event: %s)", result.StudentName, result.EventName), result)
}
