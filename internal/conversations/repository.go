// Package conversations provides persistence for chat conversations and their
// optional link to a matter. The conversation rows themselves are owned by the
// chat collaborator; this module only reads them and mutates the matter link.
package conversations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("conversation not found")

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Conversation struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	MatterID       *uuid.UUID
	VisitorName    string
	VisitorEmail   string
	VisitorPhone   string
	CreatedAt      time.Time
}

type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

// GetByID fetches a conversation scoped to the organization.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, organizationID uuid.UUID) (Conversation, error) {
	var conv Conversation
	err := r.db.QueryRow(ctx, `
		SELECT id, organization_id, matter_id, visitor_name, visitor_email, visitor_phone, created_at
		FROM conversations
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID).Scan(
		&conv.ID, &conv.OrganizationID, &conv.MatterID,
		&conv.VisitorName, &conv.VisitorEmail, &conv.VisitorPhone, &conv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Conversation{}, ErrNotFound
	}
	return conv, err
}

// AttachMatter links a matter to the conversation. The update only applies
// when no matter is attached yet, so an existing link is never overwritten.
// Returns true when this call performed the attachment.
func (r *Repository) AttachMatter(ctx context.Context, id uuid.UUID, organizationID uuid.UUID, matterID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE conversations
		SET matter_id = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2 AND matter_id IS NULL
	`, id, organizationID, matterID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
