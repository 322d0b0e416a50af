package service

import (
	"context"
	"time"

	"practicedesk_backend/internal/events"
	"practicedesk_backend/internal/matters/domain"
	"practicedesk_backend/internal/matters/transport"
	"practicedesk_backend/platform/apperr"

	"github.com/google/uuid"
)

// AcceptLead moves a lead matter to open. Only matters currently in lead
// status can be accepted; anything else fails without mutating.
func (s *Service) AcceptLead(ctx context.Context, organizationID, matterID, actorUserID uuid.UUID) (transport.TransitionResponse, error) {
	matter, err := s.repo.GetByID(ctx, matterID, organizationID)
	if err != nil {
		return transport.TransitionResponse{}, mapRepositoryError(err)
	}

	if matter.Status != domain.StatusLead {
		return transport.TransitionResponse{}, apperr.Validation("Only leads can be accepted")
	}

	updated, err := s.repo.UpdateStatus(ctx, matterID, organizationID, domain.StatusOpen)
	if err != nil {
		return transport.TransitionResponse{}, mapRepositoryError(err)
	}

	s.bus.Publish(ctx, events.MatterAccepted{
		BaseEvent:      events.NewBaseEvent(),
		MatterID:       updated.ID,
		OrganizationID: updated.OrganizationID,
		MatterNumber:   updated.MatterNumber,
		ClientName:     updated.ClientName,
		ActorUserID:    actorUserID,
	})

	return transport.TransitionResponse{
		MatterID:       updated.ID,
		Status:         string(updated.Status),
		PreviousStatus: string(matter.Status),
		UpdatedAt:      updated.UpdatedAt,
		AcceptedBy: &transport.AcceptedBy{
			UserID:     actorUserID,
			AcceptedAt: time.Now().UTC(),
		},
	}, nil
}

// RejectLead archives a lead matter. Only matters currently in lead status
// can be rejected.
func (s *Service) RejectLead(ctx context.Context, organizationID, matterID, actorUserID uuid.UUID, reason string) (transport.TransitionResponse, error) {
	matter, err := s.repo.GetByID(ctx, matterID, organizationID)
	if err != nil {
		return transport.TransitionResponse{}, mapRepositoryError(err)
	}

	if matter.Status != domain.StatusLead {
		return transport.TransitionResponse{}, apperr.Validation("Only leads can be rejected")
	}

	updated, err := s.repo.UpdateStatus(ctx, matterID, organizationID, domain.StatusArchived)
	if err != nil {
		return transport.TransitionResponse{}, mapRepositoryError(err)
	}

	s.bus.Publish(ctx, events.MatterRejected{
		BaseEvent:      events.NewBaseEvent(),
		MatterID:       updated.ID,
		OrganizationID: updated.OrganizationID,
		MatterNumber:   updated.MatterNumber,
		ActorUserID:    actorUserID,
		Reason:         reason,
	})

	return transport.TransitionResponse{
		MatterID:       updated.ID,
		Status:         string(updated.Status),
		PreviousStatus: string(matter.Status),
		UpdatedAt:      updated.UpdatedAt,
	}, nil
}

// TransitionStatus performs a general-purpose status change, validated against
// the transition table. A transition to the current status is rejected so
// callers must detect redundant calls instead of silently re-applying them.
func (s *Service) TransitionStatus(ctx context.Context, organizationID, matterID uuid.UUID, targetStatus string, actorUserID uuid.UUID, reason string) (transport.TransitionResponse, error) {
	target, err := domain.ParseStatus(targetStatus)
	if err != nil {
		return transport.TransitionResponse{}, apperr.Validation("unknown status: " + targetStatus)
	}

	matter, err := s.repo.GetByID(ctx, matterID, organizationID)
	if err != nil {
		return transport.TransitionResponse{}, mapRepositoryError(err)
	}

	if err := domain.ValidateTransition(matter.Status, target); err != nil {
		return transport.TransitionResponse{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, matterID, organizationID, target)
	if err != nil {
		return transport.TransitionResponse{}, mapRepositoryError(err)
	}

	s.bus.Publish(ctx, events.MatterStatusChanged{
		BaseEvent:      events.NewBaseEvent(),
		MatterID:       updated.ID,
		OrganizationID: updated.OrganizationID,
		MatterNumber:   updated.MatterNumber,
		PreviousStatus: string(matter.Status),
		Status:         string(updated.Status),
		ActorUserID:    actorUserID,
		Reason:         reason,
	})

	return transport.TransitionResponse{
		MatterID:       updated.ID,
		Status:         string(updated.Status),
		PreviousStatus: string(matter.Status),
		UpdatedAt:      updated.UpdatedAt,
	}, nil
}
