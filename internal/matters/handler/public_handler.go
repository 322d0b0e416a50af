package handler

import (
	"net/http"

	"practicedesk_backend/internal/matters/service"
	"practicedesk_backend/internal/matters/transport"
	"practicedesk_backend/platform/httpkit"
	"practicedesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// PublicHandler serves unauthenticated intake endpoints used by the embedded
// widget and the contact form.
type PublicHandler struct {
	svc *service.Service
	val *validator.Validator
}

func NewPublicHandler(svc *service.Service, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, val: val}
}

// RegisterRoutes mounts the public contact-form route.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/contact-form", h.SubmitContactForm)
}

func (h *PublicHandler) SubmitContactForm(c *gin.Context) {
	var req transport.ContactFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.CreateLeadFromContactForm(c.Request.Context(), service.CreateLeadInput{
		OrganizationID: req.OrganizationID,
		SessionID:      req.SessionID,
		Name:           req.Name,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		MatterDetails:  req.MatterDetails,
		LeadSource:     req.LeadSource,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, result)
}
