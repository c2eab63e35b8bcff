package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// OnDutyHandler on-duty requests.
type OnDutyHandler struct {
	odSvc service.OnDutyService
}

// NewOnDutyHandler creates an OnDutyHandler.
func NewOnDutyHandler(odSvc service.OnDutyService) *OnDutyHandler {
	return &OnDutyHandler{odSvc: odSvc}
}

// Request POST /api/v1/registrations/:id/onduty
func (h *OnDutyHandler) Request(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.odSvc.Request(c.Request.Context(), p, id); err != nil {
		h.handleOnDutyError(c, err)
		return
	}

	response.Created(c, "On-Duty request submitted successfully!", nil)
}

// List GET /api/v1/admin/onduty
func (h *OnDutyHandler) List(c *gin.Context) {
	list, err := h.odSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// Respond POST /api/v1/admin/onduty/:id
func (h *OnDutyHandler) Respond(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RespondOnDutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	if err := h.odSvc.Respond(c.Request.Context(), p, id, req.Action); err != nil {
		h.handleOnDutyError(c, err)
		return
	}

	status := "Rejected"
	if strings.EqualFold(strings.TrimSpace(req.Action), "approve") {
		status = "Approved"
	}
	response.OKMessage(c, "Request "+status+".", nil)
}

func (h *OnDutyHandler) handleOnDutyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOnDutyNotEligible):
		response.Warn(c, 17001, "Cannot request On-Duty. Either attendance not marked or not registered.")
	case errors.Is(err, service.ErrOnDutyAlreadySubmitted):
		response.Warn(c, 17002, "On-Duty request already submitted for this event.")
	case errors.Is(err, service.ErrOnDutyNotFound):
		response.NotFound(c, 17003, "On-Duty request not found.")
	case errors.Is(err, service.ErrOnDutyAlreadyResolved):
		response.Warn(c, 17004, "On-Duty request has already been resolved.")
	case errors.Is(err, service.ErrInvalidOnDutyAction):
		response.BadRequest(c, 17005, "Invalid action.")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "Unauthorized access.")
	default:
		response.InternalError(c)
	}
}
