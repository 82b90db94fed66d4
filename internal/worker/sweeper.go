// Package worker runs the background sweep for stale payment intents.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ticketa/eventpay/internal/core/ports"
	"github.com/ticketa/eventpay/internal/core/service"
)

// PendingSweeper periodically reconciles PendingPayment resources older
// than the pending timeout. The three channels discover most
// abandonments on their own; the sweep catches resources nobody ever
// polls or redirects back for, so they still free up for re-initiate.
type PendingSweeper struct {
	store          ports.ResourceStore
	coordinator    *service.Coordinator
	interval       time.Duration
	batchSize      int
	pendingTimeout time.Duration
	logger         *slog.Logger
}

func NewPendingSweeper(
	store ports.ResourceStore,
	coordinator *service.Coordinator,
	interval time.Duration,
	batchSize int,
	pendingTimeout time.Duration,
	logger *slog.Logger,
) *PendingSweeper {
	return &PendingSweeper{
		store:          store,
		coordinator:    coordinator,
		interval:       interval,
		batchSize:      batchSize,
		pendingTimeout: pendingTimeout,
		logger:         logger,
	}
}

func (w *PendingSweeper) Start(ctx context.Context) {
	w.logger.Info("pending sweeper started", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if err := w.sweep(ctx); err != nil {
		w.logger.Error("pending sweep failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("pending sweeper stopping")
			return
		case <-ticker.C:
			if err := w.sweep(ctx); err != nil {
				w.logger.Error("pending sweep failed", "error", err)
			}
		}
	}
}

func (w *PendingSweeper) sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-w.pendingTimeout)

	stale, err := w.store.FindStalePending(ctx, cutoff, w.batchSize)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	var processed, reverted, completed int
	for _, resource := range stale {
		if resource.PaymentReference == nil {
			continue
		}

		rec, err := w.coordinator.Reconcile(ctx, *resource.PaymentReference, service.ChannelSweeper, nil)
		if err != nil {
			w.logger.Error("failed to reconcile stale intent",
				"resource_id", resource.ID,
				"reference", *resource.PaymentReference,
				"error", err)
			continue
		}
		processed++

		switch rec.Outcome {
		case service.OutcomeReverted:
			reverted++
		case service.OutcomeCompleted:
			// The payment landed while nobody was watching.
			completed++
		}
	}

	w.logger.Info("processed stale intent sweep",
		"found", len(stale),
		"processed", processed,
		"reverted", reverted,
		"completed", completed)

	return nil
}
