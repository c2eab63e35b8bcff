package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"campus-events/backend/internal/service"
	"campus-events/backend/pkg/response"
)

// CertificateHandler approval queue and PDF download.
type CertificateHandler struct {
	certSvc service.CertificateService
}

// NewCertificateHandler creates a CertificateHandler.
func NewCertificateHandler(certSvc service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certSvc: certSvc}
}

// ListPending GET /api/v1/admin/certificates
func (h *CertificateHandler) ListPending(c *gin.Context) {
	list, err := h.certSvc.ListPending(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, list)
}

// Approve POST /api/v1/admin/certificates/:id/approve
func (h *CertificateHandler) Approve(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.certSvc.Approve(c.Request.Context(), p, id); err != nil {
		h.handleCertificateError(c, err)
		return
	}

	response.OKMessage(c, "Certificate approved successfully!", nil)
}

// Download GET /api/v1/certificates/:id
func (h *CertificateHandler) Download(c *gin.Context) {
	p, ok := MustGetPrincipal(c)
	if !ok {
		return
	}
	id, ok := MustGetIDParam(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.certSvc.Download(c.Request.Context(), p, id)
	if err != nil {
		h.handleCertificateError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *CertificateHandler) handleCertificateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCertificateNotFound):
		response.NotFound(c, 16001, "Registration not found.")
	case errors.Is(err, service.ErrCertificateNotPending):
		response.Warn(c, 16002, "Certificate is not pending approval.")
	case errors.Is(err, service.ErrCertificateNotAvailable):
		response.Info(c, 16003, "Certificate not available yet.")
	case errors.Is(err, service.ErrForbidden):
		response.Forbidden(c, 10003, "Unauthorized access.")
	default:
		response.InternalError(c)
	}
}
