// Package handler provides gin HTTP handlers for the matters module.
package handler

import (
	"net/http"

	"practicedesk_backend/internal/matters/service"
	"practicedesk_backend/internal/matters/transport"
	"practicedesk_backend/platform/httpkit"
	"practicedesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the authenticated practice-member routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/accept", h.Accept)
	rg.POST("/:id/reject", h.Reject)
	rg.PATCH("/:id/status", h.UpdateStatus)
}

func (h *Handler) GetByID(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	matterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	matter, err := h.svc.GetByID(c.Request.Context(), identity.TenantID(), matterID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, matter)
}

func (h *Handler) Accept(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	matterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.AcceptLead(c.Request.Context(), identity.TenantID(), matterID, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Reject(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	matterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	// Body is optional: a bare reject is allowed.
	var req transport.RejectRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.svc.RejectLead(c.Request.Context(), identity.TenantID(), matterID, identity.UserID(), req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	matterID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.TransitionStatus(c.Request.Context(), identity.TenantID(), matterID, req.Status, identity.UserID(), req.Reason)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
