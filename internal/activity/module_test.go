package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"practicedesk_backend/internal/events"
	"practicedesk_backend/platform/logger"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModule(t *testing.T) (*Module, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &Module{repo: NewRepository(mock), log: logger.New("development")}, mock
}

func TestOnMatterCreatedRecordsVisitorEvent(t *testing.T) {
	m, mock := newTestModule(t)
	orgID := uuid.New()
	matterID := uuid.New()
	occurred := time.Now()

	mock.ExpectExec(`INSERT INTO activity_events`).
		WithArgs(orgID, &matterID, "matter", "matter_created", "New lead MAT-2025-003",
			"New lead created for Jane Doe", occurred, ActorTypeVisitor, (*uuid.UUID)(nil), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := m.onMatterCreated(context.Background(), events.MatterCreated{
		BaseEvent:      events.BaseEvent{Timestamp: occurred},
		MatterID:       matterID,
		OrganizationID: orgID,
		MatterNumber:   "MAT-2025-003",
		ClientName:     "Jane Doe",
		LeadSource:     "contact_form",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOnMatterRejectedFallbackDescription(t *testing.T) {
	m, mock := newTestModule(t)
	orgID := uuid.New()
	matterID := uuid.New()
	actorID := uuid.New()
	occurred := time.Now()

	mock.ExpectExec(`INSERT INTO activity_events`).
		WithArgs(orgID, &matterID, "matter", "reject", "Lead MAT-2025-003 rejected",
			"Lead rejected", occurred, ActorTypeUser, &actorID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := m.onMatterRejected(context.Background(), events.MatterRejected{
		BaseEvent:      events.BaseEvent{Timestamp: occurred},
		MatterID:       matterID,
		OrganizationID: orgID,
		MatterNumber:   "MAT-2025-003",
		ActorUserID:    actorID,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed insert is logged and swallowed: the handler must not return an
// error that the bus would re-log, and must never affect the mutation.
func TestRecordSwallowsRepositoryErrors(t *testing.T) {
	m, mock := newTestModule(t)
	orgID := uuid.New()
	matterID := uuid.New()

	mock.ExpectExec(`INSERT INTO activity_events`).
		WillReturnError(errors.New("connection reset"))

	err := m.onMatterAccepted(context.Background(), events.MatterAccepted{
		BaseEvent:      events.NewBaseEvent(),
		MatterID:       matterID,
		OrganizationID: orgID,
		MatterNumber:   "MAT-2025-003",
		ActorUserID:    uuid.New(),
	})
	assert.NoError(t, err)
}

func TestHandlersIgnoreForeignEventTypes(t *testing.T) {
	m, mock := newTestModule(t)

	err := m.onMatterCreated(context.Background(), events.MatterAccepted{BaseEvent: events.NewBaseEvent()})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
