package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/ports"
)

const resourceColumns = `
	id, kind, owner_id, owner_email, event_id, amount_minor_units, currency,
	status, payment_reference, redirect_url, charged_amount_minor_units,
	payment_initiated_at, payment_completed_at, side_effects_applied,
	published, fee_charged, discount_code, created_at, updated_at`

type ResourceRepository struct {
	db *DB
}

func NewResourceRepository(db *DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

var _ ports.ResourceStore = (*ResourceRepository)(nil)

func (r *ResourceRepository) Create(ctx context.Context, resource *domain.PayableResource) error {
	query := `
		INSERT INTO payable_resources (
			id, kind, owner_id, owner_email, event_id, amount_minor_units,
			currency, status, side_effects_applied, discount_code,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	m := toDBResource(resource)
	_, err := r.db.Pool.Exec(ctx, query,
		m.ID, m.Kind, m.OwnerID, m.OwnerEmail, m.EventID,
		m.AmountMinorUnits, m.Currency, m.Status, m.SideEffectsApplied,
		m.DiscountCode, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id string) (*domain.PayableResource, error) {
	query := `SELECT` + resourceColumns + ` FROM payable_resources WHERE id = $1`
	return scanResource(r.db.Pool.QueryRow(ctx, query, id))
}

func (r *ResourceRepository) GetByReference(ctx context.Context, reference string) (*domain.PayableResource, error) {
	query := `SELECT` + resourceColumns + ` FROM payable_resources WHERE payment_reference = $1`
	return scanResource(r.db.Pool.QueryRow(ctx, query, reference))
}

// MarkPendingPayment records the intent conditional on the resource still
// being in Draft, so two racing initiates cannot both open an intent.
func (r *ResourceRepository) MarkPendingPayment(ctx context.Context, id, reference, redirectURL string, chargedAmount int64, initiatedAt time.Time) (bool, error) {
	query := `
		UPDATE payable_resources
		SET status = $2, payment_reference = $3, redirect_url = $4,
		    charged_amount_minor_units = $5,
		    payment_initiated_at = $6, updated_at = $6
		WHERE id = $1 AND status = $7
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		id, string(domain.StatusPendingPayment), reference, redirectURL,
		chargedAmount, initiatedAt, string(domain.StatusDraft),
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark resource pending payment: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CompleteIfUnapplied is the idempotency guard. The WHERE clause makes it
// a compare-and-set: exactly one concurrent caller sees RowsAffected == 1.
func (r *ResourceRepository) CompleteIfUnapplied(ctx context.Context, id string, completedAt time.Time) (bool, error) {
	query := `
		UPDATE payable_resources
		SET status = $2, side_effects_applied = TRUE,
		    payment_completed_at = $3, updated_at = $3
		WHERE id = $1 AND side_effects_applied = FALSE
	`

	tag, err := r.db.Pool.Exec(ctx, query, id, string(domain.StatusCompleted), completedAt)
	if err != nil {
		return false, fmt.Errorf("failed to complete resource: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// RevertToDraft frees the resource for a fresh initiate. Conditioning on
// the reference keeps a stale abandonment from clobbering a newer intent.
func (r *ResourceRepository) RevertToDraft(ctx context.Context, id, reference string) (bool, error) {
	query := `
		UPDATE payable_resources
		SET status = $3, payment_reference = NULL, redirect_url = NULL,
		    charged_amount_minor_units = NULL,
		    payment_initiated_at = NULL, updated_at = NOW()
		WHERE id = $1 AND status = $4 AND payment_reference = $2
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		id, reference, string(domain.StatusDraft), string(domain.StatusPendingPayment),
	)
	if err != nil {
		return false, fmt.Errorf("failed to revert resource: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ResourceRepository) RecordListingPublication(ctx context.Context, id string, feeCharged int64, discountCode *string) error {
	query := `
		UPDATE payable_resources
		SET published = TRUE, fee_charged = $2, discount_code = $3,
		    redirect_url = NULL, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id, feeCharged, discountCode)
	if err != nil {
		return fmt.Errorf("failed to record listing publication: %w", err)
	}
	return nil
}

func (r *ResourceRepository) ActivateRegistration(ctx context.Context, id string) error {
	query := `
		UPDATE payable_resources
		SET published = TRUE, redirect_url = NULL, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to activate registration: %w", err)
	}
	return nil
}

func (r *ResourceRepository) FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.PayableResource, error) {
	query := `SELECT` + resourceColumns + `
		FROM payable_resources
		WHERE status = $1 AND payment_initiated_at < $2
		ORDER BY payment_initiated_at ASC
		LIMIT $3
	`

	rows, err := r.db.Pool.Query(ctx, query, string(domain.StatusPendingPayment), cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("query stale pending resources: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PayableResource, error) {
		var m resourceModel
		err := row.Scan(
			&m.ID, &m.Kind, &m.OwnerID, &m.OwnerEmail, &m.EventID,
			&m.AmountMinorUnits, &m.Currency, &m.Status, &m.PaymentReference,
			&m.RedirectURL, &m.PaymentInitiatedAt, &m.PaymentCompletedAt,
			&m.SideEffectsApplied, &m.Published, &m.FeeCharged,
			&m.DiscountCode, &m.CreatedAt, &m.UpdatedAt,
		)
		return toDomainResource(m), err
	})
	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning rows: %w", err)
	}
	return results, nil
}

func scanResource(row pgx.Row) (*domain.PayableResource, error) {
	var m resourceModel
	err := row.Scan(
		&m.ID, &m.Kind, &m.OwnerID, &m.OwnerEmail, &m.EventID,
		&m.AmountMinorUnits, &m.Currency, &m.Status, &m.PaymentReference,
		&m.RedirectURL, &m.ChargedAmountMinorUnits, &m.PaymentInitiatedAt,
		&m.PaymentCompletedAt, &m.SideEffectsApplied, &m.Published,
		&m.FeeCharged, &m.DiscountCode, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan resource: %w", err)
	}
	return toDomainResource(m), nil
}
