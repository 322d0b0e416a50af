// Package repository provides persistence for intakes and the per-practice
// payment settings that gate intake confirmation.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("intake not found")

// PaymentStatus of an intake. Stripe checkout runs elsewhere; this module
// only reads the recorded outcome.
type PaymentStatus string

const (
	PaymentStatusNone      PaymentStatus = "none"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// DB is the subset of pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Intake is an anonymous capture record that may convert into a matter.
type Intake struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	VisitorName    string
	VisitorEmail   string
	VisitorPhone   string
	Details        string
	PaymentStatus  PaymentStatus
	CreatedAt      time.Time
}

// PaymentSettings is the practice-level payment gate configuration.
type PaymentSettings struct {
	RequirePaymentBeforeIntake bool
}

type Repository struct {
	db DB
}

func New(db DB) *Repository {
	return &Repository{db: db}
}

// GetByID fetches an intake scoped to the organization.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID, organizationID uuid.UUID) (Intake, error) {
	var intake Intake
	var paymentStatus string
	err := r.db.QueryRow(ctx, `
		SELECT id, organization_id, visitor_name, visitor_email, visitor_phone, details, payment_status, created_at
		FROM intakes
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID).Scan(
		&intake.ID, &intake.OrganizationID, &intake.VisitorName, &intake.VisitorEmail,
		&intake.VisitorPhone, &intake.Details, &paymentStatus, &intake.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Intake{}, ErrNotFound
	}
	if err != nil {
		return Intake{}, err
	}
	intake.PaymentStatus = PaymentStatus(paymentStatus)
	return intake, nil
}

// GetPaymentSettings returns the practice's payment gate configuration.
// A practice without a settings row does not require payment.
func (r *Repository) GetPaymentSettings(ctx context.Context, organizationID uuid.UUID) (PaymentSettings, error) {
	var settings PaymentSettings
	err := r.db.QueryRow(ctx, `
		SELECT require_payment_before_intake
		FROM organization_settings
		WHERE organization_id = $1
	`, organizationID).Scan(&settings.RequirePaymentBeforeIntake)
	if errors.Is(err, pgx.ErrNoRows) {
		return PaymentSettings{}, nil
	}
	return settings, err
}

// MarkPaymentCompleted records a completed payment for an intake. Called by
// the payment webhook layer after checkout succeeds.
func (r *Repository) MarkPaymentCompleted(ctx context.Context, id uuid.UUID, organizationID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE intakes
		SET payment_status = $3, updated_at = now()
		WHERE id = $1 AND organization_id = $2
	`, id, organizationID, string(PaymentStatusCompleted))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
