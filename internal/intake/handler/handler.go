// Package handler provides the public intake confirmation endpoint.
package handler

import (
	"net/http"

	"practicedesk_backend/internal/intake/service"
	"practicedesk_backend/platform/httpkit"
	"practicedesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const msgInvalidRequest = "invalid request"

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the public intake routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/intake/:id/confirm", h.Confirm)
}

type confirmRequest struct {
	OrganizationID uuid.UUID `json:"organizationId" validate:"required"`
	ConversationID uuid.UUID `json:"conversationId" validate:"required"`
}

// Confirm converts an intake into a matter attached to a conversation. A
// practice that requires payment before intake responds 402 until the
// intake's payment completes.
func (h *Handler) Confirm(c *gin.Context) {
	intakeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	result, err := h.svc.ConfirmIntakeLead(c.Request.Context(), req.OrganizationID, intakeID, req.ConversationID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
