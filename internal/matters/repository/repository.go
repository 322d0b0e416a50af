package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"practicedesk_backend/internal/matters/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("matter not found")
	ErrForbidden = errors.New("matter belongs to a different organization")
)

// DB is the subset of pgxpool.Pool the repository uses. Satisfied by
// *pgxpool.Pool in production and pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

type Matter struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	ConversationID *uuid.UUID
	Status         domain.Status
	Title          string
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	MatterType     *string
	Description    string
	Priority       string
	LeadSource     string
	MatterNumber   string
	CustomFields   map[string]any
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
}

const matterColumns = `id, organization_id, conversation_id, status, title, client_name, client_email, client_phone,
		matter_type, description, priority, lead_source, matter_number, custom_fields, created_at, updated_at, closed_at`

func scanMatter(row pgx.Row) (Matter, error) {
	var m Matter
	var status string
	var customFields []byte
	err := row.Scan(
		&m.ID, &m.OrganizationID, &m.ConversationID, &status, &m.Title, &m.ClientName, &m.ClientEmail, &m.ClientPhone,
		&m.MatterType, &m.Description, &m.Priority, &m.LeadSource, &m.MatterNumber, &customFields,
		&m.CreatedAt, &m.UpdatedAt, &m.ClosedAt,
	)
	if err != nil {
		return Matter{}, err
	}

	m.Status, err = domain.ParseStatus(status)
	if err != nil {
		return Matter{}, err
	}

	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &m.CustomFields); err != nil {
			return Matter{}, err
		}
	}

	return m, nil
}

type CreateMatterParams struct {
	OrganizationID uuid.UUID
	ConversationID *uuid.UUID
	Status         domain.Status
	Title          string
	ClientName     string
	ClientEmail    string
	ClientPhone    string
	Description    string
	Priority       string
	LeadSource     string
	MatterNumber   string
	CustomFields   map[string]any
}

// Create inserts a new matter. When ConversationID is set, the insert is
// idempotent per (organization, conversation): on a duplicate the existing
// matter is returned and created is false.
func (r *Repository) Create(ctx context.Context, params CreateMatterParams) (Matter, bool, error) {
	var customFields []byte
	if params.CustomFields != nil {
		encoded, err := json.Marshal(params.CustomFields)
		if err != nil {
			return Matter{}, false, err
		}
		customFields = encoded
	}

	row := r.db.QueryRow(ctx, `
		INSERT INTO matters (
			organization_id, conversation_id, status, title, client_name, client_email, client_phone,
			description, priority, lead_source, matter_number, custom_fields
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (organization_id, conversation_id) DO NOTHING
		RETURNING `+matterColumns,
		params.OrganizationID, params.ConversationID, string(params.Status), params.Title,
		params.ClientName, params.ClientEmail, params.ClientPhone,
		params.Description, params.Priority, params.LeadSource, params.MatterNumber, customFields,
	)

	matter, err := scanMatter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict: a matter for this conversation already exists.
		if params.ConversationID == nil {
			return Matter{}, false, err
		}
		existing, getErr := r.GetByConversation(ctx, params.OrganizationID, *params.ConversationID)
		if getErr != nil {
			return Matter{}, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return Matter{}, false, err
	}

	return matter, true, nil
}

// GetByID fetches a matter by id. The organization is validated after the
// fetch so a cross-tenant request yields ErrForbidden, distinct from ErrNotFound.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, organizationID uuid.UUID) (Matter, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+matterColumns+`
		FROM matters WHERE id = $1
	`, id)

	matter, err := scanMatter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Matter{}, ErrNotFound
	}
	if err != nil {
		return Matter{}, err
	}

	if matter.OrganizationID != organizationID {
		return Matter{}, ErrForbidden
	}

	return matter, nil
}

// GetByConversation fetches the matter attached to a conversation, if any.
func (r *Repository) GetByConversation(ctx context.Context, organizationID uuid.UUID, conversationID uuid.UUID) (Matter, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+matterColumns+`
		FROM matters WHERE organization_id = $1 AND conversation_id = $2
	`, organizationID, conversationID)

	matter, err := scanMatter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Matter{}, ErrNotFound
	}
	return matter, err
}

// UpdateStatus persists a status change. closed_at is set when the next
// status is a closed one and cleared otherwise, keeping the closed-timestamp
// invariant in one place. The update is scoped by both id and organization so
// a cross-tenant write affects zero rows.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, organizationID uuid.UUID, next domain.Status) (Matter, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE matters
		SET status = $3,
			updated_at = now(),
			closed_at = CASE WHEN $4 THEN now() ELSE NULL END
		WHERE id = $1 AND organization_id = $2
		RETURNING `+matterColumns,
		id, organizationID, string(next), next.IsClosed(),
	)

	matter, err := scanMatter(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Matter{}, ErrNotFound
	}
	return matter, err
}
