package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler spreadsheet downloads.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance GET /api/v1/faculty/events/:id/attendance.xlsx
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	eventID, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendance(c.Request.Context(), p, eventID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotCoordinator):
		response.Forbidden(c, 16101, "Only the event coordinator can export attendance.")
	default:
		response.InternalError(c)
	}
}
