// Package domain defines the domain models for the payment-gated
// activation flow.
package domain

import "time"

// ResourceKind discriminates the two payable resource variants.
type ResourceKind string

const (
	KindListing      ResourceKind = "LISTING"
	KindRegistration ResourceKind = "REGISTRATION"
)

// ResourceStatus represents the current state of a payable resource in its lifecycle
type ResourceStatus string

const (
	StatusDraft          ResourceStatus = "DRAFT"
	StatusPendingPayment ResourceStatus = "PENDING_PAYMENT"
	StatusCompleted      ResourceStatus = "COMPLETED"
)

// PayableResource is an entity that stays inert until its fee is confirmed
// by the payment gateway. A listing carries a one-time publishing fee, a
// registration a one-time ticket fee; both share the same lifecycle.
type PayableResource struct {
	ID         string
	Kind       ResourceKind
	OwnerID    string
	OwnerEmail string

	// EventID is set for registrations only and names the event whose
	// attendee bookkeeping the side effects mutate.
	EventID string

	AmountMinorUnits int64
	Currency         string

	Status           ResourceStatus
	PaymentReference *string
	RedirectURL      *string

	// ChargedAmountMinorUnits is what the open intent actually charged,
	// set at initiation. It diverges from AmountMinorUnits when a
	// discount or override was applied, and the verified transaction is
	// matched against it, not the listed amount.
	ChargedAmountMinorUnits *int64

	PaymentInitiatedAt *time.Time
	PaymentCompletedAt *time.Time

	// SideEffectsApplied flips false to true exactly once, guarded by the
	// store's conditional write.
	SideEffectsApplied bool

	// Listing bookkeeping, populated by the side-effect pass.
	Published    bool
	FeeCharged   *int64
	DiscountCode *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransitionTo validates whether the resource can move from its current
// status to the target status. It returns nil if the transition is allowed.
//
// Valid transitions are:
//   - Draft → PendingPayment
//   - PendingPayment → Completed, Draft (abandonment, failure or timeout)
//
// Completed is terminal and never reverts.
func (r *PayableResource) CanTransitionTo(target ResourceStatus) error {
	switch r.Status {
	case StatusCompleted:
		return NewInvalidTransitionError(r.Status, target)

	case StatusDraft:
		if target == StatusPendingPayment {
			return nil
		}

	case StatusPendingPayment:
		if target == StatusCompleted || target == StatusDraft {
			return nil
		}
	}
	return NewInvalidTransitionError(r.Status, target)
}

func (r *PayableResource) IsTerminal() bool {
	return r.Status == StatusCompleted
}

// PendingSince reports how long the resource has been awaiting payment.
// Zero when the resource is not pending.
func (r *PayableResource) PendingSince(now time.Time) time.Duration {
	if r.Status != StatusPendingPayment || r.PaymentInitiatedAt == nil {
		return 0
	}
	return now.Sub(*r.PaymentInitiatedAt)
}

// PaymentIntent captures an initiated but not yet reconciled payment.
// At most one non-terminal intent exists per resource at any time; it is
// stored denormalized on the resource row.
type PaymentIntent struct {
	Reference        string
	ResourceID       string
	AmountMinorUnits int64
	Currency         string
	RedirectURL      string
	CreatedAt        time.Time
}

// ExpectedCharge is the amount the verified transaction must carry: the
// intent's charged amount when one is open, the listed amount otherwise.
func (r *PayableResource) ExpectedCharge() int64 {
	if r.ChargedAmountMinorUnits != nil {
		return *r.ChargedAmountMinorUnits
	}
	return r.AmountMinorUnits
}

// ActiveIntent reconstructs the resource's open payment intent, or nil
// when no payment is awaited.
func (r *PayableResource) ActiveIntent() *PaymentIntent {
	if r.Status != StatusPendingPayment || r.PaymentReference == nil {
		return nil
	}

	intent := &PaymentIntent{
		Reference:        *r.PaymentReference,
		ResourceID:       r.ID,
		AmountMinorUnits: r.ExpectedCharge(),
		Currency:         r.Currency,
	}
	if r.RedirectURL != nil {
		intent.RedirectURL = *r.RedirectURL
	}
	if r.PaymentInitiatedAt != nil {
		intent.CreatedAt = *r.PaymentInitiatedAt
	}
	return intent
}

// Event is the aggregate a paid registration admits its owner into.
// Attendee admission is a commutative merge: an atomic counter increment
// plus a set union, safe under concurrent application.
type Event struct {
	ID            string
	Title         string
	AttendeeCount int64
	AttendeeIDs   []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
