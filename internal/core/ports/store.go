package ports

import (
	"context"
	"time"

	"github.com/ticketa/eventpay/internal/core/domain"
)

// ResourceStore defines the persistence contract for payable resources.
// The conditional methods are the concurrency primitives the reconciliation
// flow rests on: each returns whether the write applied, and exactly one
// concurrent caller observes true.
type ResourceStore interface {
	Create(ctx context.Context, resource *domain.PayableResource) error
	GetByID(ctx context.Context, id string) (*domain.PayableResource, error)
	GetByReference(ctx context.Context, reference string) (*domain.PayableResource, error)

	// MarkPendingPayment records a freshly initiated intent on the
	// resource, conditional on the resource still being in Draft.
	// chargedAmount is what the gateway was asked to collect; it is what
	// reconciliation later validates the verified transaction against.
	MarkPendingPayment(ctx context.Context, id, reference, redirectURL string, chargedAmount int64, initiatedAt time.Time) (bool, error)

	// CompleteIfUnapplied is the idempotency guard: set status=Completed,
	// sideEffectsApplied=true and paymentCompletedAt, only where
	// sideEffectsApplied is currently false.
	CompleteIfUnapplied(ctx context.Context, id string, completedAt time.Time) (bool, error)

	// RevertToDraft clears the intent and frees the resource for a new
	// initiate, conditional on it still being PendingPayment under the
	// same reference.
	RevertToDraft(ctx context.Context, id, reference string) (bool, error)

	// RecordListingPublication marks a listing published and records the
	// fee actually charged. Safe to repeat.
	RecordListingPublication(ctx context.Context, id string, feeCharged int64, discountCode *string) error

	// ActivateRegistration marks a registration's ticket active. Safe to
	// repeat.
	ActivateRegistration(ctx context.Context, id string) error

	// FindStalePending returns PendingPayment resources initiated before
	// the cutoff, for the timeout sweep.
	FindStalePending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.PayableResource, error)
}

// EventStore covers the attendee bookkeeping a paid registration triggers.
type EventStore interface {
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// AdmitAttendee increments the event's attendee counter and adds the
	// user to its attendee set in one commutative merge. Returns false
	// when the user was already admitted.
	AdmitAttendee(ctx context.Context, eventID, userID string) (bool, error)

	AttendeeCount(ctx context.Context, eventID string) (int64, error)
}
