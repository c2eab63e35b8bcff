package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/dto"
	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// RegistrationHandler student registration, cancellation and the QR pass.
type RegistrationHandler struct {
	regSvc service.RegistrationService
}

// NewRegistrationHandler creates a RegistrationHandler.
func NewRegistrationHandler(regSvc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regSvc: regSvc}
}

// Register POST /api/v1/events/:id/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	eventID, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RegisterEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	if err := h.regSvc.Register(c.Request.Context(), p, eventID, &req); err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	response.Created(c, "Successfully registered! Confirmation email with QR code sent.", nil)
}

// Lookup public lookup by register number and email.
// GET /api/v1/registrations/lookup?register_number=&email=
func (h *RegistrationHandler) Lookup(c *gin.Context) {
	var req dto.LookupRegistrationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "Invalid request parameters.")
		return
	}

	list, err := h.regSvc.LookupRegistrations(c.Request.Context(), req.RegisterNumber, req.Email)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// QRCode the owner's QR pass as PNG.
// GET /api/v1/registrations/:id/qr
func (h *RegistrationHandler) QRCode(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	png, err := h.regSvc.GetQRCode(c.Request.Context(), p, id)
	if err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// Cancel DELETE /api/v1/registrations/:id
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.regSvc.Cancel(c.Request.Context(), p, id); err != nil {
		h.handleRegistrationError(c, err)
		return
	}

	response.OKMessage(c, "Registration cancelled successfully.", nil)
}

// handleRegistrationError business-rule rejections are 200 with a warning or
// info level; only unknown and foreign rows are 404.
func (h *RegistrationHandler) handleRegistrationError(c *gin.Context, err error) {
	var missing *service.MissingFieldError
	switch {
	case errors.As(err, &missing):
		response.BadRequest(c, 14001, missing.Error())
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 14002, "Event not found.")
	case errors.Is(err, service.ErrRegistrationClosed):
		response.Warn(c, 14003, "Registration is closed for this event.")
	case errors.Is(err, service.ErrRegistrationDeadlinePassed):
		response.Warn(c, 14004, "Registration deadline has passed (must register 2 days in advance).")
	case errors.Is(err, service.ErrAlreadyRegistered):
		response.Info(c, 14005, "You are already registered for this event.")
	case errors.Is(err, service.ErrRegistrationNotFound):
		response.NotFound(c, 14006, "Registration not found or access denied.")
	case errors.Is(err, service.ErrAlreadyAttended):
		response.Warn(c, 14007, "Cannot cancel registration. You have already participated/attended this event.")
	case errors.Is(err, service.ErrCancelWindowClosed):
		response.Warn(c, 14008, "Cannot cancel registration. Cancellation is only allowed 2 days before the event.")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "Unauthorized access.")
	default:
		response.InternalError(c)
	}
}
