package notification

import (
	"context"
	"fmt"

	"practicedesk_backend/internal/email"
	"practicedesk_backend/internal/scheduler"
	"practicedesk_backend/platform/logger"

	"github.com/google/uuid"
)

// MemberEmailLister resolves notification recipients for an organization.
type MemberEmailLister interface {
	ListMemberEmails(ctx context.Context, organizationID uuid.UUID) ([]string, error)
}

// Deliverer runs in the worker process and sends one email per recipient for
// a dequeued notification task.
type Deliverer struct {
	repo   MemberEmailLister
	sender email.Sender
	log    *logger.Logger
}

func NewDeliverer(repo MemberEmailLister, sender email.Sender, log *logger.Logger) *Deliverer {
	return &Deliverer{
		repo:   repo,
		sender: sender,
		log:    log,
	}
}

// HandleMatterNotification delivers a matter notification to every member of
// the organization. A recipient lookup failure is returned so asynq retries;
// individual send failures are logged and skipped so one bad mailbox does not
// re-send the whole batch.
func (d *Deliverer) HandleMatterNotification(ctx context.Context, payload scheduler.MatterNotificationPayload) error {
	organizationID, err := uuid.Parse(payload.OrganizationID)
	if err != nil {
		return fmt.Errorf("parse organization id: %w", err)
	}

	recipients, err := d.repo.ListMemberEmails(ctx, organizationID)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	for _, recipient := range recipients {
		var sendErr error
		switch payload.EventType {
		case scheduler.NotificationNewLead:
			sendErr = d.sender.SendNewLeadEmail(ctx, recipient, payload.ClientName, payload.MatterNumber)
		case scheduler.NotificationLeadAccepted:
			sendErr = d.sender.SendLeadAcceptedEmail(ctx, recipient, payload.ClientName, payload.MatterNumber)
		default:
			d.log.Warn("unknown notification event type", "eventType", payload.EventType)
			return nil
		}
		if sendErr != nil {
			d.log.SideEffectError("notification_email", sendErr)
		}
	}

	return nil
}
