package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"practicedesk_backend/internal/events"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeadFromContactForm(t *testing.T) {
	svc, mock, bus := newTestService(t)
	orgID := uuid.New()
	matterID := uuid.New()
	counterName := fmt.Sprintf("matter_number_%d", time.Now().UTC().Year())

	mock.ExpectQuery(`INSERT INTO counters`).
		WithArgs(orgID, counterName).
		WillReturnRows(pgxmock.NewRows([]string{"next_value"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO matters`).
		WithArgs(orgID, (*uuid.UUID)(nil), "lead", "Jane Doe", "Jane Doe", "jane@example.com", pgxmock.AnyArg(),
			"Landlord dispute", "normal", "contact_form", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(matterRow(matterID, orgID, "lead"))

	resp, err := svc.CreateLeadFromContactForm(context.Background(), CreateLeadInput{
		OrganizationID: orgID,
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		PhoneNumber:    "+1 555 123 4567",
		MatterDetails:  "Landlord dispute",
		SessionID:      "sess-123",
	})
	require.NoError(t, err)
	assert.Equal(t, matterID, resp.MatterID)
	assert.Equal(t, "MAT-2025-001", resp.MatterNumber)

	published := bus.events()
	require.Len(t, published, 1)
	created, ok := published[0].(events.MatterCreated)
	require.True(t, ok)
	assert.Equal(t, matterID, created.MatterID)
	assert.Equal(t, "sess-123", created.SessionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLeadDefaultsMissingName(t *testing.T) {
	svc, mock, _ := newTestService(t)
	orgID := uuid.New()
	counterName := fmt.Sprintf("matter_number_%d", time.Now().UTC().Year())

	mock.ExpectQuery(`INSERT INTO counters`).
		WithArgs(orgID, counterName).
		WillReturnRows(pgxmock.NewRows([]string{"next_value"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO matters`).
		WithArgs(orgID, (*uuid.UUID)(nil), "lead", "New Lead", "New Lead", "", pgxmock.AnyArg(),
			"", "normal", "contact_form", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(matterRow(uuid.New(), orgID, "lead"))

	_, err := svc.CreateLeadFromContactForm(context.Background(), CreateLeadInput{
		OrganizationID: orgID,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The duplicate path returns the existing matter without publishing a second
// matter_created event.
func TestCreateLeadDuplicateConversationDoesNotRepublish(t *testing.T) {
	svc, mock, bus := newTestService(t)
	orgID := uuid.New()
	conversationID := uuid.New()
	existingID := uuid.New()
	counterName := fmt.Sprintf("matter_number_%d", time.Now().UTC().Year())

	mock.ExpectQuery(`INSERT INTO counters`).
		WithArgs(orgID, counterName).
		WillReturnRows(pgxmock.NewRows([]string{"next_value"}).AddRow(9))
	mock.ExpectQuery(`INSERT INTO matters`).
		WithArgs(orgID, &conversationID, "lead", "Jane Doe", "Jane Doe", "jane@example.com", pgxmock.AnyArg(),
			"", "normal", "contact_form_chat", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(matterColumnNames))
	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE organization_id = \$1 AND conversation_id = \$2`).
		WithArgs(orgID, conversationID).
		WillReturnRows(matterRow(existingID, orgID, "lead"))

	resp, err := svc.CreateLeadFromContactForm(context.Background(), CreateLeadInput{
		OrganizationID: orgID,
		ConversationID: &conversationID,
		Name:           "Jane Doe",
		Email:          "jane@example.com",
		LeadSource:     "contact_form_chat",
	})
	require.NoError(t, err)
	assert.Equal(t, existingID, resp.MatterID)
	assert.Empty(t, bus.events())
}
