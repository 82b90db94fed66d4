package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ticketa/eventpay/internal/core/domain"
)

func TestPayableResource_StateTransitions(t *testing.T) {
	t.Run("draft can move to pending payment", func(t *testing.T) {
		r := &domain.PayableResource{Status: domain.StatusDraft}
		assert.NoError(t, r.CanTransitionTo(domain.StatusPendingPayment))
	})

	t.Run("draft cannot complete directly", func(t *testing.T) {
		r := &domain.PayableResource{Status: domain.StatusDraft}
		assert.Error(t, r.CanTransitionTo(domain.StatusCompleted))
	})

	t.Run("pending payment can complete", func(t *testing.T) {
		r := &domain.PayableResource{Status: domain.StatusPendingPayment}
		assert.NoError(t, r.CanTransitionTo(domain.StatusCompleted))
	})

	t.Run("pending payment can revert to draft", func(t *testing.T) {
		r := &domain.PayableResource{Status: domain.StatusPendingPayment}
		assert.NoError(t, r.CanTransitionTo(domain.StatusDraft))
	})

	t.Run("completed is terminal", func(t *testing.T) {
		r := &domain.PayableResource{Status: domain.StatusCompleted}
		assert.Error(t, r.CanTransitionTo(domain.StatusDraft))
		assert.Error(t, r.CanTransitionTo(domain.StatusPendingPayment))
		assert.True(t, r.IsTerminal())
	})
}

func TestPayableResource_PendingSince(t *testing.T) {
	now := time.Now()

	t.Run("reports age of a pending intent", func(t *testing.T) {
		initiated := now.Add(-30 * time.Minute)
		r := &domain.PayableResource{
			Status:             domain.StatusPendingPayment,
			PaymentInitiatedAt: &initiated,
		}
		assert.InDelta(t, 30*time.Minute, r.PendingSince(now), float64(time.Second))
	})

	t.Run("zero when not pending", func(t *testing.T) {
		r := &domain.PayableResource{Status: domain.StatusDraft}
		assert.Zero(t, r.PendingSince(now))
	})
}

func TestParseTransactionStatus(t *testing.T) {
	assert.Equal(t, domain.TxSuccess, domain.ParseTransactionStatus("success"))
	assert.Equal(t, domain.TxAbandoned, domain.ParseTransactionStatus("abandoned"))
	// New gateway statuses must never complete or revert anything.
	assert.Equal(t, domain.TxUnknown, domain.ParseTransactionStatus("ongoing"))
	assert.Equal(t, domain.TxUnknown, domain.ParseTransactionStatus(""))
}

func TestTransactionStatus_IsTerminalFailure(t *testing.T) {
	for _, s := range []domain.TransactionStatus{
		domain.TxAbandoned, domain.TxFailed, domain.TxReversed, domain.TxCancelled,
	} {
		assert.True(t, s.IsTerminalFailure(), string(s))
	}
	for _, s := range []domain.TransactionStatus{
		domain.TxSuccess, domain.TxPending, domain.TxUnknown,
	} {
		assert.False(t, s.IsTerminalFailure(), string(s))
	}
}

func TestRemoteTransaction_MatchesAmount(t *testing.T) {
	tx := &domain.RemoteTransaction{AmountMinorUnits: 1000, Currency: "NGN"}

	assert.True(t, tx.MatchesAmount(1000, "NGN"))
	assert.False(t, tx.MatchesAmount(999, "NGN"))
	assert.False(t, tx.MatchesAmount(1000, "USD"))
}
