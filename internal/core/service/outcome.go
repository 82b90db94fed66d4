package service

import "github.com/ticketa/eventpay/internal/core/domain"

// Channel identifies which of the independent reconciliation paths made
// the call. No channel is authoritative by identity; only by winning the
// conditional write.
type Channel string

const (
	ChannelWebhook  Channel = "webhook"
	ChannelCallback Channel = "callback"
	ChannelPoll     Channel = "poll"
	ChannelSweeper  Channel = "sweeper"
)

// Outcome is the terminal decision of a single reconciliation attempt.
type Outcome string

const (
	// OutcomeCompleted means this caller won the conditional write and
	// applied the side effects.
	OutcomeCompleted Outcome = "completed"

	// OutcomeAlreadyCompleted means the resource was completed before or
	// during this attempt; a harmless no-op.
	OutcomeAlreadyCompleted Outcome = "already_completed"

	// OutcomePending means the gateway has not settled yet, or could not
	// be reached; nothing changed and a later attempt may succeed.
	OutcomePending Outcome = "pending"

	// OutcomeReverted means the intent was abandoned or failed and the
	// resource was put back into Draft.
	OutcomeReverted Outcome = "reverted"

	// OutcomeFailed means the attempt was rejected outright, for example
	// on an amount or reference mismatch.
	OutcomeFailed Outcome = "failed"

	// OutcomeNotFound means no resource carries the reference.
	OutcomeNotFound Outcome = "not_found"
)

// Reason codes surface on the callback redirect and the poll response,
// distinguishing every negative outcome.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonPaymentPending     Reason = "payment_pending"
	ReasonPaymentAbandoned   Reason = "payment_abandoned"
	ReasonPaymentFailed      Reason = "payment_failed"
	ReasonAmountMismatch     Reason = "amount_mismatch"
	ReasonReferenceMismatch  Reason = "reference_mismatch"
	ReasonVerificationFailed Reason = "verification_failed"
	ReasonEventNotFound      Reason = "event_not_found"
)

// Reconciliation is the result handed back to a channel handler.
type Reconciliation struct {
	Outcome  Outcome
	Reason   Reason
	Resource *domain.PayableResource
	Tx       *domain.RemoteTransaction
}

// InitiateResult carries what a client needs to send the payer to the
// gateway checkout.
type InitiateResult struct {
	Reference   string
	RedirectURL string
}
