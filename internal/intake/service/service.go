// Package service implements the intake confirmation gate: the payment-aware
// path from an anonymous intake to a matter attached to a conversation.
package service

import (
	"context"
	"errors"

	"practicedesk_backend/internal/conversations"
	"practicedesk_backend/internal/events"
	"practicedesk_backend/internal/intake/repository"
	mattersvc "practicedesk_backend/internal/matters/service"
	"practicedesk_backend/internal/matters/transport"
	"practicedesk_backend/platform/apperr"
	"practicedesk_backend/platform/logger"

	"github.com/google/uuid"
)

const leadSourceChat = "contact_form_chat"

// MatterCreator creates lead matters and resolves existing conversation
// attachments. Implemented by the matters service.
type MatterCreator interface {
	CreateLeadFromContactForm(ctx context.Context, input mattersvc.CreateLeadInput) (transport.CreateLeadResponse, error)
	FindByConversation(ctx context.Context, organizationID, conversationID uuid.UUID) (*transport.MatterResponse, error)
}

// ConversationStore resolves conversations and attaches matters to them.
type ConversationStore interface {
	GetByID(ctx context.Context, id uuid.UUID, organizationID uuid.UUID) (conversations.Conversation, error)
	AttachMatter(ctx context.Context, id uuid.UUID, organizationID uuid.UUID, matterID uuid.UUID) (bool, error)
}

type Service struct {
	repo          *repository.Repository
	conversations ConversationStore
	matters       MatterCreator
	bus           events.Bus
	log           *logger.Logger
}

func New(repo *repository.Repository, convs ConversationStore, matters MatterCreator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:          repo,
		conversations: convs,
		matters:       matters,
		bus:           bus,
		log:           log,
	}
}

// ConfirmResult is returned by ConfirmIntakeLead.
type ConfirmResult struct {
	MatterID uuid.UUID `json:"matterId"`
}

// ConfirmIntakeLead converts a previously created intake into a matter
// attached to the given conversation. The operation is idempotent per
// conversation: retries return the already-attached matter, and the unique
// (organization, conversation) constraint on matters closes the window
// between check and create under concurrent double-submission.
func (s *Service) ConfirmIntakeLead(ctx context.Context, organizationID, intakeID, conversationID uuid.UUID) (ConfirmResult, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID, organizationID)
	if err != nil {
		if errors.Is(err, conversations.ErrNotFound) {
			return ConfirmResult{}, apperr.NotFound("conversation not found")
		}
		return ConfirmResult{}, apperr.Wrap(apperr.KindInternal, "conversation lookup failed", err)
	}

	// Already attached: idempotent no-op.
	if conv.MatterID != nil {
		return ConfirmResult{MatterID: *conv.MatterID}, nil
	}

	// A matter may already exist for this conversation through another code
	// path. Attach it instead of creating a duplicate; no payment re-check,
	// the matter was already admitted.
	if existing, err := s.matters.FindByConversation(ctx, organizationID, conversationID); err != nil {
		return ConfirmResult{}, err
	} else if existing != nil {
		if _, err := s.conversations.AttachMatter(ctx, conversationID, organizationID, existing.ID); err != nil {
			return ConfirmResult{}, apperr.Wrap(apperr.KindInternal, "failed to attach matter to conversation", err)
		}
		return ConfirmResult{MatterID: existing.ID}, nil
	}

	intake, err := s.repo.GetByID(ctx, intakeID, organizationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ConfirmResult{}, apperr.NotFound("intake not found")
		}
		return ConfirmResult{}, apperr.Wrap(apperr.KindInternal, "intake lookup failed", err)
	}

	settings, err := s.repo.GetPaymentSettings(ctx, organizationID)
	if err != nil {
		return ConfirmResult{}, apperr.Wrap(apperr.KindInternal, "payment settings lookup failed", err)
	}

	if settings.RequirePaymentBeforeIntake && intake.PaymentStatus != repository.PaymentStatusCompleted {
		return ConfirmResult{}, apperr.PaymentRequired("payment required to continue")
	}

	// Insert-or-return-existing: a concurrent confirmation for the same
	// conversation lands on the unique constraint and both callers observe
	// the same matter.
	created, err := s.matters.CreateLeadFromContactForm(ctx, mattersvc.CreateLeadInput{
		OrganizationID: organizationID,
		ConversationID: &conversationID,
		Name:           intake.VisitorName,
		Email:          intake.VisitorEmail,
		PhoneNumber:    intake.VisitorPhone,
		MatterDetails:  intake.Details,
		LeadSource:     leadSourceChat,
	})
	if err != nil {
		return ConfirmResult{}, err
	}

	attached, err := s.conversations.AttachMatter(ctx, conversationID, organizationID, created.MatterID)
	if err != nil {
		return ConfirmResult{}, apperr.Wrap(apperr.KindInternal, "failed to attach matter to conversation", err)
	}
	if !attached {
		// A concurrent confirmation attached first. The unique constraint
		// guarantees it attached the same matter; nothing to undo.
		s.log.Debug("conversation already linked to matter",
			"conversationId", conversationID, "matterId", created.MatterID)
	}

	s.bus.Publish(ctx, events.IntakeConfirmed{
		BaseEvent:      events.NewBaseEvent(),
		IntakeID:       intake.ID,
		OrganizationID: organizationID,
		ConversationID: conversationID,
		MatterID:       created.MatterID,
	})

	return ConfirmResult{MatterID: created.MatterID}, nil
}
