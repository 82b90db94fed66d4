package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/service"
	"github.com/ticketa/eventpay/internal/infrastructure/gateway"
)

// Webhook receives provider pushes. The signature is a keyed hash over
// the raw body, so it is checked before the payload is parsed, and the
// parsed transaction is then trusted without a verify round-trip.
//
// Any outcome behind a valid signature answers 200: the provider retries
// on anything else, and a duplicate or unknown reference is not a
// delivery failure.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	signature := r.Header.Get(gateway.SignatureHeader)
	if !gateway.ValidateSignature(h.cfg.WebhookSecret, body, signature) {
		h.metrics.SignatureFailure()
		h.logger.Warn("webhook signature rejected",
			"remote_addr", r.RemoteAddr,
			"has_signature", signature != "",
		)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	// Past this point the provider always gets a 200: anything else
	// triggers redelivery, and redelivery cannot fix an internal failure.
	var payload gateway.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Error("webhook payload unparseable, needs manual reconciliation", "error", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	tx := &domain.RemoteTransaction{
		Reference:        payload.Data.Reference,
		Status:           domain.ParseTransactionStatus(payload.Data.Status),
		AmountMinorUnits: payload.Data.Amount,
		Currency:         payload.Data.Currency,
		Metadata:         payload.Data.Metadata,
	}

	rec, err := h.coordinator.Reconcile(r.Context(), payload.Data.Reference, service.ChannelWebhook, tx)
	if err != nil {
		h.logger.Error("webhook reconciliation failed, needs manual reconciliation",
			"reference", payload.Data.Reference,
			"error", err,
		)
		w.WriteHeader(http.StatusOK)
		return
	}

	if rec.Outcome == service.OutcomeNotFound {
		// Unknown reference: acknowledge so the provider stops retrying,
		// but leave a trace.
		h.logger.Warn("webhook for unknown reference", "reference", payload.Data.Reference)
	}

	w.WriteHeader(http.StatusOK)
}
