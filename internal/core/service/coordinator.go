// Package service implements the payment intent coordination that gates
// resource activation behind a verified gateway transaction.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/ports"
	"github.com/ticketa/eventpay/internal/observability"
)

// CoordinatorConfig carries the coordinator's tunables.
type CoordinatorConfig struct {
	// CallbackURL is the public URL of the browser-redirect endpoint,
	// handed to the gateway at initialization.
	CallbackURL string

	// PendingTimeout is how long a PendingPayment intent stays valid.
	// Past it, a non-success verify reverts the resource to Draft.
	PendingTimeout time.Duration

	// VerifyTimeout bounds a single verify call. A timed-out verify is
	// reported as still pending, never as failure.
	VerifyTimeout time.Duration
}

// Coordinator is the payment intent state machine. Initiate opens an
// intent; Reconcile aligns local resource status with the gateway's
// transaction record. All three channels funnel into Reconcile and race
// to the same conditional write.
type Coordinator struct {
	store    ports.ResourceStore
	gateway  ports.GatewayClient
	appliers map[domain.ResourceKind]SideEffectApplier
	metrics  *observability.Metrics
	logger   *slog.Logger

	callbackURL    string
	pendingTimeout time.Duration
	verifyTimeout  time.Duration

	now func() time.Time
}

func NewCoordinator(
	store ports.ResourceStore,
	gateway ports.GatewayClient,
	cfg CoordinatorConfig,
	metrics *observability.Metrics,
	logger *slog.Logger,
	appliers ...SideEffectApplier,
) *Coordinator {
	byKind := make(map[domain.ResourceKind]SideEffectApplier, len(appliers))
	for _, a := range appliers {
		byKind[a.Kind()] = a
	}

	return &Coordinator{
		store:          store,
		gateway:        gateway,
		appliers:       byKind,
		metrics:        metrics,
		logger:         logger,
		callbackURL:    cfg.CallbackURL,
		pendingTimeout: cfg.PendingTimeout,
		verifyTimeout:  cfg.VerifyTimeout,
		now:            time.Now,
	}
}

// Initiate opens a payment intent for the resource and returns the
// gateway checkout redirect. It rejects completed resources and resources
// whose current intent has not yet expired; an expired intent is first
// reconciled (and usually reverted) before a fresh reference is issued.
func (c *Coordinator) Initiate(ctx context.Context, resourceID string, amountOverride *int64) (*InitiateResult, error) {
	resource, err := c.store.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return nil, domain.NewResourceNotFoundError(resourceID)
	}

	if resource.Status == domain.StatusCompleted {
		return nil, domain.NewAlreadyCompletedError(resourceID)
	}

	if resource.Status == domain.StatusPendingPayment {
		if resource.PendingSince(c.now()) < c.pendingTimeout {
			return nil, domain.NewPaymentInProgressError(resourceID)
		}
		// Stale intent: let the reconciliation path settle it. The
		// payment may in fact have succeeded while nobody was looking.
		rec, err := c.Reconcile(ctx, *resource.PaymentReference, ChannelSweeper, nil)
		if err != nil {
			return nil, err
		}
		switch rec.Outcome {
		case OutcomeCompleted, OutcomeAlreadyCompleted:
			return nil, domain.NewAlreadyCompletedError(resourceID)
		case OutcomeReverted, OutcomeNotFound:
			// Freed up; fall through to a fresh initiate.
		default:
			return nil, domain.NewPaymentInProgressError(resourceID)
		}
	}

	amount := resource.AmountMinorUnits
	if amountOverride != nil {
		amount = *amountOverride
	}
	if amount <= 0 {
		return nil, domain.NewInvalidAmountError(amount)
	}

	reference := domain.NewReference(resource.Kind, resource.ID)

	initResp, err := c.gateway.InitializeTransaction(ctx, ports.InitializeRequest{
		Email:            resource.OwnerEmail,
		AmountMinorUnits: amount,
		Currency:         resource.Currency,
		Reference:        reference,
		CallbackURL:      c.callbackURL,
		Metadata: map[string]string{
			"resource_id":   resource.ID,
			"resource_kind": string(resource.Kind),
		},
	})
	if err != nil {
		return nil, domain.NewGatewayUnavailableError(err)
	}

	applied, err := c.store.MarkPendingPayment(ctx, resource.ID, reference, initResp.AuthorizationURL, amount, c.now())
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race with a concurrent initiate for the same resource.
		return nil, domain.NewPaymentInProgressError(resourceID)
	}

	c.metrics.PaymentInitiated(string(resource.Kind))
	c.logger.Info("payment intent initiated",
		"resource_id", resource.ID,
		"kind", resource.Kind,
		"reference", reference,
		"amount", amount,
		"currency", resource.Currency,
	)

	return &InitiateResult{
		Reference:   reference,
		RedirectURL: initResp.AuthorizationURL,
	}, nil
}

// Reconcile aligns the resource behind reference with the gateway's view
// of the transaction. delivered is non-nil only on the webhook channel,
// whose payload was already signature-validated; every other channel
// verifies directly, since a redirect alone is not proof of payment.
//
// Reconcile never returns an error for an unknown reference; the caller
// gets OutcomeNotFound and decides how its channel reports that.
func (c *Coordinator) Reconcile(ctx context.Context, reference string, channel Channel, delivered *domain.RemoteTransaction) (*Reconciliation, error) {
	rec, err := c.reconcile(ctx, reference, channel, delivered)
	if err == nil {
		c.metrics.Reconciled(string(channel), string(rec.Outcome))
	}
	return rec, err
}

func (c *Coordinator) reconcile(ctx context.Context, reference string, channel Channel, delivered *domain.RemoteTransaction) (*Reconciliation, error) {
	resource, err := c.store.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return &Reconciliation{Outcome: OutcomeNotFound, Reason: ReasonEventNotFound}, nil
	}

	// Idempotent short-circuit: this is the guard that makes duplicate
	// webhook deliveries and racing channels harmless.
	if resource.Status == domain.StatusCompleted && resource.SideEffectsApplied {
		return &Reconciliation{Outcome: OutcomeAlreadyCompleted, Resource: resource}, nil
	}

	if resource.PaymentReference == nil || *resource.PaymentReference != reference {
		c.logger.Warn("reference mismatch, possible replay",
			"resource_id", resource.ID,
			"reference", reference,
			"channel", channel,
		)
		return &Reconciliation{Outcome: OutcomeFailed, Reason: ReasonReferenceMismatch, Resource: resource}, nil
	}

	tx := delivered
	if channel != ChannelWebhook || tx == nil {
		tx, err = c.verify(ctx, reference)
		if err != nil {
			c.metrics.VerifyFailure()
			c.logger.Warn("gateway verify failed, treating as pending",
				"reference", reference,
				"channel", channel,
				"error", err,
			)
			return &Reconciliation{Outcome: OutcomePending, Reason: ReasonVerificationFailed, Resource: resource}, nil
		}
	}

	switch {
	case tx.Status == domain.TxSuccess:
		// Amount is only validated on success; a non-success
		// transaction's amount field is not authoritative.
		if !tx.MatchesAmount(resource.ExpectedCharge(), resource.Currency) {
			c.logger.Error("amount mismatch on successful transaction, flagging for manual review",
				"resource_id", resource.ID,
				"reference", reference,
				"expected_amount", resource.ExpectedCharge(),
				"expected_currency", resource.Currency,
				"verified_amount", tx.AmountMinorUnits,
				"verified_currency", tx.Currency,
			)
			return &Reconciliation{Outcome: OutcomeFailed, Reason: ReasonAmountMismatch, Resource: resource, Tx: tx}, nil
		}
		return c.complete(ctx, resource, tx, channel)

	case tx.Status.IsTerminalFailure():
		reason := ReasonPaymentFailed
		if tx.Status == domain.TxAbandoned {
			reason = ReasonPaymentAbandoned
		}
		return c.revert(ctx, resource, tx, reason)

	default: // pending, unknown
		if resource.PendingSince(c.now()) >= c.pendingTimeout {
			return c.revert(ctx, resource, tx, ReasonPaymentAbandoned)
		}
		return &Reconciliation{Outcome: OutcomePending, Reason: ReasonPaymentPending, Resource: resource, Tx: tx}, nil
	}
}

func (c *Coordinator) verify(ctx context.Context, reference string) (*domain.RemoteTransaction, error) {
	verifyCtx, cancel := context.WithTimeout(ctx, c.verifyTimeout)
	defer cancel()
	return c.gateway.VerifyTransaction(verifyCtx, reference)
}

// complete races the conditional write. Exactly one concurrent caller
// wins it and applies the side effects; everyone else observes the
// already-applied state.
func (c *Coordinator) complete(ctx context.Context, resource *domain.PayableResource, tx *domain.RemoteTransaction, channel Channel) (*Reconciliation, error) {
	applied, err := c.store.CompleteIfUnapplied(ctx, resource.ID, c.now())
	if err != nil {
		return nil, err
	}
	if !applied {
		return &Reconciliation{Outcome: OutcomeAlreadyCompleted, Resource: resource, Tx: tx}, nil
	}

	resource.Status = domain.StatusCompleted
	resource.SideEffectsApplied = true

	if applier, ok := c.appliers[resource.Kind]; ok {
		// The status flip is already durable; a side-effect failure here
		// is logged for out-of-band repair, never rolled back. The charge
		// is real either way.
		if err := applier.Apply(ctx, resource, tx); err != nil {
			c.logger.Error("side effects failed after completion, needs manual reconciliation",
				"resource_id", resource.ID,
				"kind", resource.Kind,
				"reference", tx.Reference,
				"error", err,
			)
		} else {
			c.metrics.SideEffectsApplied(string(resource.Kind))
		}
	}

	c.logger.Info("payment completed",
		"resource_id", resource.ID,
		"kind", resource.Kind,
		"reference", tx.Reference,
		"channel", channel,
	)

	return &Reconciliation{Outcome: OutcomeCompleted, Resource: resource, Tx: tx}, nil
}

func (c *Coordinator) revert(ctx context.Context, resource *domain.PayableResource, tx *domain.RemoteTransaction, reason Reason) (*Reconciliation, error) {
	if resource.Status != domain.StatusPendingPayment {
		// Stale notification for a resource that moved on; ignore.
		return &Reconciliation{Outcome: OutcomeAlreadyCompleted, Resource: resource, Tx: tx}, nil
	}

	applied, err := c.store.RevertToDraft(ctx, resource.ID, *resource.PaymentReference)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Someone else settled the resource between our read and this
		// write; re-read to report what actually happened.
		fresh, err := c.store.GetByID(ctx, resource.ID)
		if err == nil && fresh != nil && fresh.Status == domain.StatusCompleted {
			return &Reconciliation{Outcome: OutcomeAlreadyCompleted, Resource: fresh, Tx: tx}, nil
		}
		return &Reconciliation{Outcome: OutcomeReverted, Reason: reason, Resource: resource, Tx: tx}, nil
	}

	resource.Status = domain.StatusDraft
	resource.PaymentReference = nil
	resource.RedirectURL = nil

	c.logger.Info("payment intent reverted",
		"resource_id", resource.ID,
		"kind", resource.Kind,
		"tx_status", tx.Status,
		"reason", reason,
	)

	return &Reconciliation{Outcome: OutcomeReverted, Reason: reason, Resource: resource, Tx: tx}, nil
}

// Poll is the client-initiated status check, scoped to the resource
// owner. It re-verifies with the gateway only while the resource is still
// awaiting payment.
func (c *Coordinator) Poll(ctx context.Context, reference, userID string) (*Reconciliation, error) {
	resource, err := c.store.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if resource == nil {
		return &Reconciliation{Outcome: OutcomeNotFound, Reason: ReasonEventNotFound}, nil
	}
	if resource.OwnerID != userID {
		return nil, domain.NewForbiddenError(resource.ID)
	}

	return c.Reconcile(ctx, reference, ChannelPoll, nil)
}
