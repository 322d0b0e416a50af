// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"practicedesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Matters Domain Events
// =============================================================================

// MatterCreated is published when a new lead matter is created from a contact
// form submission or a confirmed intake.
type MatterCreated struct {
	BaseEvent
	MatterID       uuid.UUID  `json:"matterId"`
	OrganizationID uuid.UUID  `json:"organizationId"`
	MatterNumber   string     `json:"matterNumber"`
	ClientName     string     `json:"clientName"`
	ClientEmail    string     `json:"clientEmail"`
	ClientPhone    string     `json:"clientPhone"`
	Description    string     `json:"description"`
	LeadSource     string     `json:"leadSource"`
	SessionID      string     `json:"sessionId,omitempty"`
	ConversationID *uuid.UUID `json:"conversationId,omitempty"`
}

func (e MatterCreated) EventName() string { return "matters.matter.created" }

// MatterAccepted is published when a practice member accepts a lead.
type MatterAccepted struct {
	BaseEvent
	MatterID       uuid.UUID `json:"matterId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	MatterNumber   string    `json:"matterNumber"`
	ClientName     string    `json:"clientName"`
	ActorUserID    uuid.UUID `json:"actorUserId"`
}

func (e MatterAccepted) EventName() string { return "matters.matter.accepted" }

// MatterRejected is published when a practice member rejects a lead.
type MatterRejected struct {
	BaseEvent
	MatterID       uuid.UUID `json:"matterId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	MatterNumber   string    `json:"matterNumber"`
	ActorUserID    uuid.UUID `json:"actorUserId"`
	Reason         string    `json:"reason,omitempty"`
}

func (e MatterRejected) EventName() string { return "matters.matter.rejected" }

// MatterStatusChanged is published on every successful generic status transition.
type MatterStatusChanged struct {
	BaseEvent
	MatterID       uuid.UUID `json:"matterId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	MatterNumber   string    `json:"matterNumber"`
	PreviousStatus string    `json:"previousStatus"`
	Status         string    `json:"status"`
	ActorUserID    uuid.UUID `json:"actorUserId"`
	Reason         string    `json:"reason,omitempty"`
}

func (e MatterStatusChanged) EventName() string { return "matters.matter.status_changed" }

// =============================================================================
// Intake Domain Events
// =============================================================================

// IntakeConfirmed is published when an intake is converted into a matter
// attached to a conversation.
type IntakeConfirmed struct {
	BaseEvent
	IntakeID       uuid.UUID `json:"intakeId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	ConversationID uuid.UUID `json:"conversationId"`
	MatterID       uuid.UUID `json:"matterId"`
}

func (e IntakeConfirmed) EventName() string { return "intake.intake.confirmed" }
