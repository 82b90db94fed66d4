package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/service"
)

// Callback is the browser-redirect channel. Reaching it proves nothing:
// anyone can load the URL, so the coordinator verifies with the gateway
// before anything changes. The payer is then bounced to the frontend
// result page.
func (h *Handlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reference := q.Get("reference")
	if reference == "" {
		reference = q.Get("ref")
	}
	if reference == "" {
		reference = q.Get("trxref")
	}
	if reference == "" {
		h.redirect(w, r, h.cfg.FailureRedirectURL, "", service.ReasonEventNotFound)
		return
	}

	rec, err := h.coordinator.Reconcile(r.Context(), reference, service.ChannelCallback, nil)
	if err != nil {
		h.logger.Error("callback reconciliation failed", "reference", reference, "error", err)
		h.redirect(w, r, h.cfg.FailureRedirectURL, reference, service.ReasonVerificationFailed)
		return
	}

	switch rec.Outcome {
	case service.OutcomeCompleted, service.OutcomeAlreadyCompleted:
		h.redirect(w, r, h.cfg.SuccessRedirectURL, reference, service.ReasonNone)
	case service.OutcomePending:
		// Still settling; the result page polls until it resolves.
		h.redirect(w, r, h.cfg.SuccessRedirectURL, reference, service.ReasonPaymentPending)
	default:
		h.redirect(w, r, h.cfg.FailureRedirectURL, reference, rec.Reason)
	}
}

func (h *Handlers) redirect(w http.ResponseWriter, r *http.Request, base, reference string, reason service.Reason) {
	target, err := url.Parse(base)
	if err != nil {
		http.Error(w, "redirect misconfigured", http.StatusInternalServerError)
		return
	}

	q := target.Query()
	if reference != "" {
		q.Set("reference", reference)
		if kind, ok := domain.KindFromReference(reference); ok {
			q.Set("type", strings.ToLower(string(kind)))
		}
	}
	if reason != service.ReasonNone {
		q.Set("reason", string(reason))
	}
	target.RawQuery = q.Encode()

	http.Redirect(w, r, target.String(), http.StatusFound)
}
