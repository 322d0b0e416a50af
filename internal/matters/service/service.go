// Package service implements the matters use cases: lead intake from contact
// form submissions and the matter status lifecycle engine.
package service

import (
	"context"
	"errors"
	"time"

	"practicedesk_backend/internal/events"
	"practicedesk_backend/internal/matters/domain"
	"practicedesk_backend/internal/matters/repository"
	"practicedesk_backend/internal/matters/transport"
	"practicedesk_backend/platform/apperr"
	"practicedesk_backend/platform/logger"
	"practicedesk_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultClientName = "New Lead"
	defaultLeadSource = "contact_form"
	defaultPriority   = "normal"
)

type Service struct {
	repo *repository.Repository
	bus  events.Bus
	log  *logger.Logger
}

func New(repo *repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, log: log}
}

// CreateLeadInput is the normalized input for lead creation. ConversationID is
// set only on the intake-confirmation path; contact-form submissions leave it nil.
type CreateLeadInput struct {
	OrganizationID uuid.UUID
	ConversationID *uuid.UUID
	SessionID      string
	Name           string
	Email          string
	PhoneNumber    string
	MatterDetails  string
	LeadSource     string
}

// CreateLeadFromContactForm allocates a matter number, persists a lead-status
// matter and publishes a matter_created event. Event publication only happens
// after the row is committed; a persistence failure leaves no partial state.
func (s *Service) CreateLeadFromContactForm(ctx context.Context, input CreateLeadInput) (transport.CreateLeadResponse, error) {
	clientName := input.Name
	if clientName == "" {
		clientName = defaultClientName
	}
	leadSource := input.LeadSource
	if leadSource == "" {
		leadSource = defaultLeadSource
	}

	year := time.Now().UTC().Year()
	matterNumber, err := s.repo.NextMatterNumber(ctx, input.OrganizationID, year)
	if err != nil {
		return transport.CreateLeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to allocate matter number", err)
	}

	customFields := map[string]any{
		"submittedAt": time.Now().UTC().Format(time.RFC3339),
	}
	if input.SessionID != "" {
		customFields["sessionId"] = input.SessionID
	}

	matter, created, err := s.repo.Create(ctx, repository.CreateMatterParams{
		OrganizationID: input.OrganizationID,
		ConversationID: input.ConversationID,
		Status:         domain.StatusLead,
		Title:          clientName,
		ClientName:     clientName,
		ClientEmail:    input.Email,
		ClientPhone:    phone.NormalizeE164(input.PhoneNumber),
		Description:    input.MatterDetails,
		Priority:       defaultPriority,
		LeadSource:     leadSource,
		MatterNumber:   matterNumber,
		CustomFields:   customFields,
	})
	if err != nil {
		return transport.CreateLeadResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create matter", err)
	}

	if created {
		s.bus.Publish(ctx, events.MatterCreated{
			BaseEvent:      events.NewBaseEvent(),
			MatterID:       matter.ID,
			OrganizationID: matter.OrganizationID,
			MatterNumber:   matter.MatterNumber,
			ClientName:     matter.ClientName,
			ClientEmail:    matter.ClientEmail,
			ClientPhone:    matter.ClientPhone,
			Description:    matter.Description,
			LeadSource:     matter.LeadSource,
			SessionID:      input.SessionID,
			ConversationID: matter.ConversationID,
		})
	}

	return transport.CreateLeadResponse{
		MatterID:     matter.ID,
		MatterNumber: matter.MatterNumber,
		CreatedAt:    matter.CreatedAt,
	}, nil
}

// GetByID returns a matter for a practice member, enforcing tenant scoping.
func (s *Service) GetByID(ctx context.Context, organizationID, matterID uuid.UUID) (transport.MatterResponse, error) {
	matter, err := s.repo.GetByID(ctx, matterID, organizationID)
	if err != nil {
		return transport.MatterResponse{}, mapRepositoryError(err)
	}
	return toMatterResponse(matter), nil
}

// FindByConversation returns the matter attached to a conversation, or nil
// when none exists yet.
func (s *Service) FindByConversation(ctx context.Context, organizationID, conversationID uuid.UUID) (*transport.MatterResponse, error) {
	matter, err := s.repo.GetByConversation(ctx, organizationID, conversationID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	response := toMatterResponse(matter)
	return &response, nil
}

func mapRepositoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound("matter not found")
	case errors.Is(err, repository.ErrForbidden):
		return apperr.Forbidden("matter belongs to a different organization")
	default:
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) {
			return err
		}
		return apperr.Wrap(apperr.KindInternal, "matter lookup failed", err)
	}
}

func toMatterResponse(m repository.Matter) transport.MatterResponse {
	return transport.MatterResponse{
		ID:             m.ID,
		OrganizationID: m.OrganizationID,
		ConversationID: m.ConversationID,
		Status:         string(m.Status),
		Title:          m.Title,
		ClientName:     m.ClientName,
		ClientEmail:    m.ClientEmail,
		ClientPhone:    m.ClientPhone,
		Description:    m.Description,
		Priority:       m.Priority,
		LeadSource:     m.LeadSource,
		MatterNumber:   m.MatterNumber,
		CustomFields:   m.CustomFields,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		ClosedAt:       m.ClosedAt,
	}
}
