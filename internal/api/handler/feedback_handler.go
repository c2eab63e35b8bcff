package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// FeedbackHandler event feedback.
type FeedbackHandler struct {
	feedbackSvc service.FeedbackService
}

// NewFeedbackHandler creates a FeedbackHandler.
func NewFeedbackHandler(feedbackSvc service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackSvc: feedbackSvc}
}

// Submit POST /api/v1/events/:id/feedback
func (h *FeedbackHandler) Submit(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	eventID, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	if err := h.feedbackSvc.Submit(c.Request.Context(), p, eventID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackNotRegistered):
			response.Warn(c, 18001, "You are not registered for this event.")
		case errors.Is(err, service.ErrFeedbackAlreadySubmitted):
			response.Warn(c, 18002, "You have already submitted feedback.")
		case errors.Is(err, service.ErrFeedbackInvalidRating):
			response.BadRequest(c, 18003, "Rating must be between 1 and 5.")
		case errors.Is(err, service.ErrForbidden):
			response.Forbidden(c, 10003, "Unauthorized access.")
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, "Thank you for your feedback!", nil)
}

// List GET /api/v1/admin/feedback
func (h *FeedbackHandler) List(c *gin.Context) {
	list, err := h.feedbackSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}
