package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/ports"
)

// SideEffectApplier performs the domain mutation a confirmed payment
// unlocks. Implementations must be independently idempotent: the guard
// only promises the winning caller invokes Apply once, not that a prior
// crashed attempt never started.
type SideEffectApplier interface {
	Kind() domain.ResourceKind
	Apply(ctx context.Context, resource *domain.PayableResource, tx *domain.RemoteTransaction) error
}

// ListingEffects publishes an event listing once its publishing fee
// settles.
type ListingEffects struct {
	store  ports.ResourceStore
	logger *slog.Logger
}

func NewListingEffects(store ports.ResourceStore, logger *slog.Logger) *ListingEffects {
	return &ListingEffects{store: store, logger: logger}
}

func (e *ListingEffects) Kind() domain.ResourceKind {
	return domain.KindListing
}

func (e *ListingEffects) Apply(ctx context.Context, resource *domain.PayableResource, tx *domain.RemoteTransaction) error {
	feeCharged := resource.AmountMinorUnits
	if tx != nil {
		feeCharged = tx.AmountMinorUnits
	}

	if err := e.store.RecordListingPublication(ctx, resource.ID, feeCharged, resource.DiscountCode); err != nil {
		return fmt.Errorf("publish listing %s: %w", resource.ID, err)
	}

	e.logger.Info("listing published",
		"resource_id", resource.ID,
		"fee_charged", feeCharged,
	)
	return nil
}

// RegistrationEffects activates a ticket and admits its owner into the
// event. Attendee admission is a commutative merge in the store, so a
// repeated Apply never double-counts.
type RegistrationEffects struct {
	store    ports.ResourceStore
	events   ports.EventStore
	notifier ports.Notifier
	logger   *slog.Logger
}

func NewRegistrationEffects(
	store ports.ResourceStore,
	events ports.EventStore,
	notifier ports.Notifier,
	logger *slog.Logger,
) *RegistrationEffects {
	return &RegistrationEffects{
		store:    store,
		events:   events,
		notifier: notifier,
		logger:   logger,
	}
}

func (e *RegistrationEffects) Kind() domain.ResourceKind {
	return domain.KindRegistration
}

func (e *RegistrationEffects) Apply(ctx context.Context, resource *domain.PayableResource, tx *domain.RemoteTransaction) error {
	if err := e.store.ActivateRegistration(ctx, resource.ID); err != nil {
		return fmt.Errorf("activate registration %s: %w", resource.ID, err)
	}

	admitted, err := e.events.AdmitAttendee(ctx, resource.EventID, resource.OwnerID)
	if err != nil {
		return fmt.Errorf("admit attendee to event %s: %w", resource.EventID, err)
	}
	if !admitted {
		e.logger.Info("attendee already admitted",
			"event_id", resource.EventID,
			"user_id", resource.OwnerID,
		)
	}

	// The payment is real regardless of notification delivery; the
	// dispatcher is non-blocking and logs its own failures.
	e.notifier.Dispatch(ctx, ports.Notification{
		RecipientID:    resource.OwnerID,
		RecipientEmail: resource.OwnerEmail,
		Subject:        "Your ticket is confirmed",
		Body:           fmt.Sprintf("Payment %s received. See you at the event!", resource.ID),
	})

	e.logger.Info("registration activated",
		"resource_id", resource.ID,
		"event_id", resource.EventID,
	)
	return nil
}
