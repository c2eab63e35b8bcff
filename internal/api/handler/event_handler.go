package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// EventHandler event administration and the public listing.
type EventHandler struct {
	eventSvc service.EventService
	regSvc   service.RegistrationService
}

// NewEventHandler creates an EventHandler.
func NewEventHandler(eventSvc service.EventService, regSvc service.RegistrationService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, regSvc: regSvc}
}

// List public event listing, newest first. Students also see is_registered.
// GET /api/v1/events?page=
func (h *EventHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	result, err := h.regSvc.ListEvents(c.Request.Context(), OptionalPrincipal(c), page.GetPage())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, result.Events, result.Total, result.Page, result.PageSize)
}

// Get GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.eventSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// Create POST /api/v1/admin/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, "Event created and announcements sent!", event)
}

// Delete DELETE /api/v1/admin/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OKMessage(c, "Event and all related records deleted successfully.", nil)
}

// SetStatus PUT /api/v1/admin/events/:id/status
func (h *EventHandler) SetStatus(c *gin.Context) {
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	if err := h.eventSvc.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OKMessage(c, "Event registration is now "+req.Status+".", nil)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 13001, "Event not found.")
	case errors.Is(err, service.ErrCoordinatorNotFound):
		response.BadRequest(c, 13002, "Coordinator not found.")
	case errors.Is(err, service.ErrInvalidEventStatus):
		response.BadRequest(c, 13003, "Invalid status.")
	case errors.Is(err, service.ErrInvalidEventDate):
		response.BadRequest(c, 13004, "Invalid event date.")
	default:
		response.InternalError(c)
	}
}
