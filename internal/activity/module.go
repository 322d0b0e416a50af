package activity

import (
	"context"
	"fmt"

	"practicedesk_backend/internal/events"
	"practicedesk_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module subscribes to matter domain events and appends audit records. It has
// no HTTP surface; the activity feed is rendered by another collaborator.
type Module struct {
	repo *Repository
	log  *logger.Logger
}

// NewModule wires the activity recorder onto the event bus. Handlers run on
// the bus's asynchronous path, so recording never blocks or rolls back the
// mutation that produced the event.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, log *logger.Logger) *Module {
	m := &Module{
		repo: NewRepository(pool),
		log:  log,
	}

	eventBus.Subscribe(events.MatterCreated{}.EventName(), events.HandlerFunc(m.onMatterCreated))
	eventBus.Subscribe(events.MatterAccepted{}.EventName(), events.HandlerFunc(m.onMatterAccepted))
	eventBus.Subscribe(events.MatterRejected{}.EventName(), events.HandlerFunc(m.onMatterRejected))
	eventBus.Subscribe(events.MatterStatusChanged{}.EventName(), events.HandlerFunc(m.onMatterStatusChanged))

	return m
}

func (m *Module) record(ctx context.Context, organizationID uuid.UUID, event Event) error {
	if err := m.repo.CreateEvent(ctx, organizationID, event); err != nil {
		m.log.SideEffectError("activity_recording", err)
	}
	// Recording failures are swallowed here so the bus does not re-log them.
	return nil
}

func (m *Module) onMatterCreated(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.MatterCreated)
	if !ok {
		return nil
	}

	metadata := map[string]any{
		"organizationId": evt.OrganizationID.String(),
		"source":         evt.LeadSource,
	}
	if evt.SessionID != "" {
		metadata["sessionId"] = evt.SessionID
	}

	return m.record(ctx, evt.OrganizationID, Event{
		Type:        "matter",
		EventType:   "matter_created",
		Title:       fmt.Sprintf("New lead %s", evt.MatterNumber),
		Description: fmt.Sprintf("New lead created for %s", evt.ClientName),
		EventDate:   evt.OccurredAt(),
		ActorType:   ActorTypeVisitor,
		MatterID:    &evt.MatterID,
		Metadata:    metadata,
	})
}

func (m *Module) onMatterAccepted(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.MatterAccepted)
	if !ok {
		return nil
	}

	return m.record(ctx, evt.OrganizationID, Event{
		Type:        "matter",
		EventType:   "accept",
		Title:       fmt.Sprintf("Lead %s accepted", evt.MatterNumber),
		Description: "Lead accepted and opened as a matter",
		EventDate:   evt.OccurredAt(),
		ActorType:   ActorTypeUser,
		ActorID:     &evt.ActorUserID,
		MatterID:    &evt.MatterID,
	})
}

func (m *Module) onMatterRejected(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.MatterRejected)
	if !ok {
		return nil
	}

	description := evt.Reason
	if description == "" {
		description = "Lead rejected"
	}

	return m.record(ctx, evt.OrganizationID, Event{
		Type:        "matter",
		EventType:   "reject",
		Title:       fmt.Sprintf("Lead %s rejected", evt.MatterNumber),
		Description: description,
		EventDate:   evt.OccurredAt(),
		ActorType:   ActorTypeUser,
		ActorID:     &evt.ActorUserID,
		MatterID:    &evt.MatterID,
	})
}

func (m *Module) onMatterStatusChanged(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.MatterStatusChanged)
	if !ok {
		return nil
	}

	metadata := map[string]any{
		"previousStatus": evt.PreviousStatus,
		"status":         evt.Status,
	}
	if evt.Reason != "" {
		metadata["reason"] = evt.Reason
	}

	return m.record(ctx, evt.OrganizationID, Event{
		Type:        "matter",
		EventType:   "status_change",
		Title:       fmt.Sprintf("Matter %s moved to %s", evt.MatterNumber, evt.Status),
		Description: fmt.Sprintf("Status changed from %s to %s", evt.PreviousStatus, evt.Status),
		EventDate:   evt.OccurredAt(),
		ActorType:   ActorTypeUser,
		ActorID:     &evt.ActorUserID,
		MatterID:    &evt.MatterID,
		Metadata:    metadata,
	})
}
