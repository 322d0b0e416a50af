// Package notification fans matter lifecycle events out to practice members
// by email, via the background job queue.
package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Repository struct {
	db DB
}

func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// ListMemberEmails returns the email addresses of active members of the
// organization that opted in to notifications.
func (r *Repository) ListMemberEmails(ctx context.Context, organizationID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT email FROM users
		WHERE organization_id = $1 AND is_active = true AND notifications_enabled = true
		ORDER BY email`,
		organizationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list member emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan member email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate member emails: %w", err)
	}
	return emails, nil
}
