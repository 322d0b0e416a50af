// Package transport defines request/response DTOs for the matters module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// ContactFormRequest is a public contact-form or chat submission that becomes
// a lead matter. organizationId identifies the practice the widget belongs to.
type ContactFormRequest struct {
	OrganizationID uuid.UUID `json:"organizationId" validate:"required"`
	SessionID      string    `json:"sessionId"`
	Name           string    `json:"name"`
	Email          string    `json:"email" validate:"required,email"`
	PhoneNumber    string    `json:"phoneNumber" validate:"required"`
	MatterDetails  string    `json:"matterDetails" validate:"required"`
	LeadSource     string    `json:"leadSource" validate:"omitempty,oneof=contact_form contact_form_chat"`
}

// CreateLeadResponse is returned after a lead matter is created.
type CreateLeadResponse struct {
	MatterID     uuid.UUID `json:"matterId"`
	MatterNumber string    `json:"matterNumber"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RejectRequest carries the optional human-supplied rejection reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// TransitionRequest asks for a generic status change.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// AcceptedBy marks who accepted a lead and when.
type AcceptedBy struct {
	UserID     uuid.UUID `json:"userId"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// TransitionResponse is the result of accept/reject/transition operations.
type TransitionResponse struct {
	MatterID       uuid.UUID   `json:"matterId"`
	Status         string      `json:"status"`
	PreviousStatus string      `json:"previousStatus"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	AcceptedBy     *AcceptedBy `json:"acceptedBy,omitempty"`
}

// MatterResponse is the full matter representation for practice members.
type MatterResponse struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organizationId"`
	ConversationID *uuid.UUID     `json:"conversationId,omitempty"`
	Status         string         `json:"status"`
	Title          string         `json:"title"`
	ClientName     string         `json:"clientName"`
	ClientEmail    string         `json:"clientEmail"`
	ClientPhone    string         `json:"clientPhone"`
	Description    string         `json:"description"`
	Priority       string         `json:"priority"`
	LeadSource     string         `json:"leadSource"`
	MatterNumber   string         `json:"matterNumber"`
	CustomFields   map[string]any `json:"customFields,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	ClosedAt       *time.Time     `json:"closedAt,omitempty"`
}
