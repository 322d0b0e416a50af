package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"practicedesk_backend/internal/matters/domain"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var matterColumnNames = []string{
	"id", "organization_id", "conversation_id", "status", "title", "client_name", "client_email", "client_phone",
	"matter_type", "description", "priority", "lead_source", "matter_number", "custom_fields", "created_at", "updated_at", "closed_at",
}

func matterRow(id, orgID uuid.UUID, conversationID *uuid.UUID, status string, closedAt *time.Time) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(matterColumnNames).AddRow(
		id, orgID, conversationID, status, "Jane Doe", "Jane Doe", "jane@example.com", "+15551234567",
		nil, "Landlord dispute", "normal", "contact_form", "MAT-2025-001", []byte(`{"submittedAt":"2025-03-01T10:00:00Z"}`),
		now, now, closedAt,
	)
}

func newMockRepo(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return New(mock), mock
}

func TestCreateReturnsNewMatter(t *testing.T) {
	repo, mock := newMockRepo(t)
	orgID := uuid.New()
	matterID := uuid.New()

	mock.ExpectQuery(`INSERT INTO matters`).
		WithArgs(orgID, (*uuid.UUID)(nil), "lead", "Jane Doe", "Jane Doe", "jane@example.com", "+15551234567",
			"Landlord dispute", "normal", "contact_form", "MAT-2025-001", pgxmock.AnyArg()).
		WillReturnRows(matterRow(matterID, orgID, nil, "lead", nil))

	matter, created, err := repo.Create(context.Background(), CreateMatterParams{
		OrganizationID: orgID,
		Status:         domain.StatusLead,
		Title:          "Jane Doe",
		ClientName:     "Jane Doe",
		ClientEmail:    "jane@example.com",
		ClientPhone:    "+15551234567",
		Description:    "Landlord dispute",
		Priority:       "normal",
		LeadSource:     "contact_form",
		MatterNumber:   "MAT-2025-001",
		CustomFields:   map[string]any{"submittedAt": "2025-03-01T10:00:00Z"},
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, matterID, matter.ID)
	assert.Equal(t, domain.StatusLead, matter.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A conflicting insert returns zero rows; the repository then falls back to
// the existing matter for the conversation and reports created=false.
func TestCreateConflictReturnsExistingMatter(t *testing.T) {
	repo, mock := newMockRepo(t)
	orgID := uuid.New()
	conversationID := uuid.New()
	existingID := uuid.New()

	mock.ExpectQuery(`INSERT INTO matters`).
		WithArgs(orgID, &conversationID, "lead", "Jane Doe", "Jane Doe", "jane@example.com", "",
			"", "normal", "contact_form_chat", "MAT-2025-002", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(matterColumnNames))

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE organization_id = \$1 AND conversation_id = \$2`).
		WithArgs(orgID, conversationID).
		WillReturnRows(matterRow(existingID, orgID, &conversationID, "lead", nil))

	matter, created, err := repo.Create(context.Background(), CreateMatterParams{
		OrganizationID: orgID,
		ConversationID: &conversationID,
		Status:         domain.StatusLead,
		Title:          "Jane Doe",
		ClientName:     "Jane Doe",
		ClientEmail:    "jane@example.com",
		Priority:       "normal",
		LeadSource:     "contact_form_chat",
		MatterNumber:   "MAT-2025-002",
		CustomFields:   map[string]any{"submittedAt": "2025-03-01T10:00:00Z"},
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, existingID, matter.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	matterID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE id = \$1`).
		WithArgs(matterID).
		WillReturnRows(pgxmock.NewRows(matterColumnNames))

	_, err := repo.GetByID(context.Background(), matterID, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

// A matter that exists but belongs to another organization yields ErrForbidden,
// never ErrNotFound, so handlers can distinguish 403 from 404.
func TestGetByIDWrongOrganizationIsForbidden(t *testing.T) {
	repo, mock := newMockRepo(t)
	matterID := uuid.New()
	ownerOrg := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE id = \$1`).
		WithArgs(matterID).
		WillReturnRows(matterRow(matterID, ownerOrg, nil, "open", nil))

	_, err := repo.GetByID(context.Background(), matterID, uuid.New())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrNotFound)
}

// A corrupt status value in storage must fail the read instead of leaking an
// unvalidated status into the state machine.
func TestGetByIDRejectsInvalidStoredStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	matterID := uuid.New()
	orgID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM matters WHERE id = \$1`).
		WithArgs(matterID).
		WillReturnRows(matterRow(matterID, orgID, nil, "bogus", nil))

	_, err := repo.GetByID(context.Background(), matterID, orgID)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestUpdateStatusSetsClosedAtForClosedStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	matterID := uuid.New()
	orgID := uuid.New()
	closedAt := time.Now()

	mock.ExpectQuery(`UPDATE matters`).
		WithArgs(matterID, orgID, "archived", true).
		WillReturnRows(matterRow(matterID, orgID, nil, "archived", &closedAt))

	matter, err := repo.UpdateStatus(context.Background(), matterID, orgID, domain.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusArchived, matter.Status)
	require.NotNil(t, matter.ClosedAt)
}

func TestUpdateStatusClearsClosedAtForOpenStatus(t *testing.T) {
	repo, mock := newMockRepo(t)
	matterID := uuid.New()
	orgID := uuid.New()

	mock.ExpectQuery(`UPDATE matters`).
		WithArgs(matterID, orgID, "open", false).
		WillReturnRows(matterRow(matterID, orgID, nil, "open", nil))

	matter, err := repo.UpdateStatus(context.Background(), matterID, orgID, domain.StatusOpen)
	require.NoError(t, err)
	assert.Nil(t, matter.ClosedAt)
}

func TestUpdateStatusNoRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE matters`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "archived", true).
		WillReturnRows(pgxmock.NewRows(matterColumnNames))

	_, err := repo.UpdateStatus(context.Background(), uuid.New(), uuid.New(), domain.StatusArchived)
	assert.ErrorIs(t, err, ErrNotFound)
}
