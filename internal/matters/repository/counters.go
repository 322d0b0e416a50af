package repository

import (
	"context"

	"practicedesk_backend/internal/matters/domain"

	"github.com/google/uuid"
)

// NextMatterNumber atomically allocates the next sequence value for the
// organization and year and returns it formatted (e.g. MAT-2025-001).
// The upsert-and-return is a single statement, so two concurrent callers can
// never observe the same value.
func (r *Repository) NextMatterNumber(ctx context.Context, organizationID uuid.UUID, year int) (string, error) {
	var sequence int
	err := r.db.QueryRow(ctx, `
		INSERT INTO counters (organization_id, name, next_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (organization_id, name)
		DO UPDATE SET next_value = counters.next_value + 1
		RETURNING next_value
	`, organizationID, domain.CounterName(year)).Scan(&sequence)
	if err != nil {
		return "", err
	}

	return domain.FormatMatterNumber(year, sequence), nil
}
