// Package activity provides the append-only audit log of domain events.
// Events are recorded after the primary mutation commits; recording failures
// are logged and never surfaced to the caller.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ActorType identifies who caused a domain event.
const (
	ActorTypeVisitor = "visitor"
	ActorTypeUser    = "user"
	ActorTypeSystem  = "system"
)

// Event is an immutable audit record. Rows are never updated or deleted.
type Event struct {
	Type        string
	EventType   string
	Title       string
	Description string
	EventDate   time.Time
	ActorType   string
	ActorID     *uuid.UUID
	MatterID    *uuid.UUID
	Metadata    map[string]any
}

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// CreateEvent appends one audit record for the organization.
func (r *Repository) CreateEvent(ctx context.Context, organizationID uuid.UUID, event Event) error {
	var metadata []byte
	if event.Metadata != nil {
		encoded, err := json.Marshal(event.Metadata)
		if err != nil {
			return err
		}
		metadata = encoded
	}

	eventDate := event.EventDate
	if eventDate.IsZero() {
		eventDate = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO activity_events (organization_id, matter_id, type, event_type, title, description, event_date, actor_type, actor_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, organizationID, event.MatterID, event.Type, event.EventType, event.Title,
		event.Description, eventDate, event.ActorType, event.ActorID, metadata)
	return err
}
