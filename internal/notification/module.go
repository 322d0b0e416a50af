package notification

import (
	"context"

	"practicedesk_backend/internal/events"
	"practicedesk_backend/internal/scheduler"
	"practicedesk_backend/platform/logger"
)

// Module subscribes to matter lifecycle events in the API process and hands
// them off to the job queue. Enqueue failures are logged and swallowed so a
// redis outage never fails the originating request.
type Module struct {
	enqueuer scheduler.NotificationEnqueuer
	log      *logger.Logger
}

func NewModule(eventBus events.Bus, enqueuer scheduler.NotificationEnqueuer, log *logger.Logger) *Module {
	m := &Module{
		enqueuer: enqueuer,
		log:      log,
	}

	eventBus.Subscribe(events.MatterCreated{}.EventName(), events.HandlerFunc(m.onMatterCreated))
	eventBus.Subscribe(events.MatterAccepted{}.EventName(), events.HandlerFunc(m.onMatterAccepted))

	return m
}

func (m *Module) onMatterCreated(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.MatterCreated)
	if !ok {
		return nil
	}

	return m.enqueue(ctx, scheduler.MatterNotificationPayload{
		EventType:      scheduler.NotificationNewLead,
		MatterID:       evt.MatterID.String(),
		OrganizationID: evt.OrganizationID.String(),
		MatterNumber:   evt.MatterNumber,
		ClientName:     evt.ClientName,
	})
}

func (m *Module) onMatterAccepted(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.MatterAccepted)
	if !ok {
		return nil
	}

	return m.enqueue(ctx, scheduler.MatterNotificationPayload{
		EventType:      scheduler.NotificationLeadAccepted,
		MatterID:       evt.MatterID.String(),
		OrganizationID: evt.OrganizationID.String(),
		MatterNumber:   evt.MatterNumber,
		ClientName:     evt.ClientName,
	})
}

func (m *Module) enqueue(ctx context.Context, payload scheduler.MatterNotificationPayload) error {
	if m.enqueuer == nil {
		return nil
	}
	if err := m.enqueuer.EnqueueMatterNotification(ctx, payload); err != nil {
		m.log.SideEffectError("notification_enqueue", err)
	}
	return nil
}
