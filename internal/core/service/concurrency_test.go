package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ticketa/eventpay/internal/core/domain"
)

// Webhook and callback racing the same successful reference within
// milliseconds is the expected case, not an edge case. Exactly one caller
// may win the conditional write.
func TestCoordinator_ConcurrentReconcile_SideEffectsOnce(t *testing.T) {
	store := NewMockResourceStore()
	events := NewMockEventStore()
	notifier := &MockNotifier{}
	gw := &MockGatewayClient{
		Delay: 50 * time.Millisecond, // widen the race window
		VerifyFn: func(ctx context.Context, reference string) (*domain.RemoteTransaction, error) {
			return &domain.RemoteTransaction{
				Reference:        reference,
				Status:           domain.TxSuccess,
				AmountMinorUnits: 5000,
				Currency:         "NGN",
			}, nil
		},
	}
	c := NewCoordinator(store, gw, testConfig(), nil, testLogger(),
		NewRegistrationEffects(store, events, notifier, testLogger()))

	ref := "REG-race-1"
	store.Put(pendingWithRef(draftRegistration("reg-1", "evt-1"), ref, time.Now()))

	webhookTx := &domain.RemoteTransaction{
		Reference:        ref,
		Status:           domain.TxSuccess,
		AmountMinorUnits: 5000,
		Currency:         "NGN",
	}

	const attempts = 6
	var wg sync.WaitGroup
	outcomes := make(chan Outcome, attempts)

	for i := 0; i < attempts; i++ {
		channel := ChannelCallback
		var tx *domain.RemoteTransaction
		if i%2 == 0 {
			channel = ChannelWebhook
			tx = webhookTx
		}
		wg.Add(1)
		go func(ch Channel, tx *domain.RemoteTransaction) {
			defer wg.Done()
			rec, err := c.Reconcile(context.Background(), ref, ch, tx)
			if err != nil {
				t.Errorf("reconcile error: %v", err)
				return
			}
			outcomes <- rec.Outcome
		}(channel, tx)
	}

	wg.Wait()
	close(outcomes)

	completed, noops := 0, 0
	for o := range outcomes {
		switch o {
		case OutcomeCompleted:
			completed++
		case OutcomeAlreadyCompleted:
			noops++
		default:
			t.Errorf("unexpected outcome: %s", o)
		}
	}

	if completed != 1 {
		t.Errorf("expected exactly 1 winner of the conditional write, got %d", completed)
	}
	if completed+noops != attempts {
		t.Errorf("expected %d total outcomes, got %d", attempts, completed+noops)
	}

	if got := events.Count("evt-1"); got != 1 {
		t.Errorf("attendee counter incremented %d times, want exactly 1", got)
	}
	if notifier.Sent() != 1 {
		t.Errorf("expected one notification, got %d", notifier.Sent())
	}

	r, _ := store.GetByID(context.Background(), "reg-1")
	if r.Status != domain.StatusCompleted || !r.SideEffectsApplied {
		t.Error("expected resource completed with side effects applied")
	}
}

// Repeated initiates must never reuse or collide references.
func TestCoordinator_Initiate_ReferencesNeverCollide(t *testing.T) {
	store := NewMockResourceStore()
	gw := &MockGatewayClient{
		VerifyFn: func(ctx context.Context, reference string) (*domain.RemoteTransaction, error) {
			return &domain.RemoteTransaction{Reference: reference, Status: domain.TxAbandoned}, nil
		},
	}
	c := NewCoordinator(store, gw, testConfig(), nil, testLogger())

	store.Put(draftListing("lst-1"))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		result, err := c.Initiate(context.Background(), "lst-1", nil)
		if err != nil {
			t.Fatalf("initiate %d failed: %v", i, err)
		}
		if seen[result.Reference] {
			t.Fatalf("reference collision on attempt %d: %s", i, result.Reference)
		}
		seen[result.Reference] = true

		// Abandon so the next initiate is legal.
		if _, err := c.Reconcile(context.Background(), result.Reference, ChannelPoll, nil); err != nil {
			t.Fatalf("revert %d failed: %v", i, err)
		}
	}
}
