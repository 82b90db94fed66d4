package handlers

import (
	"net/http"

	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/service"
	"github.com/ticketa/eventpay/internal/interfaces/rest"
)

type pollResponse struct {
	Reference   string `json:"reference"`
	Outcome     string `json:"outcome"`
	Reason      string `json:"reason,omitempty"`
	Status      string `json:"status,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Poll is the client's own status check. It is scoped to the resource
// owner via the authenticated user header and re-verifies with the
// gateway while the intent is unsettled, so a payer who closed the
// checkout tab still converges.
func (h *Handlers) Poll(w http.ResponseWriter, r *http.Request) {
	reference := r.PathValue("reference")
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		rest.WriteError(w, domain.NewInvalidRequestError("X-User-ID header is required"))
		return
	}

	rec, err := h.coordinator.Poll(r.Context(), reference, userID)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	if rec.Outcome == service.OutcomeNotFound {
		rest.WriteError(w, domain.NewResourceNotFoundError(reference))
		return
	}

	resp := pollResponse{
		Reference: reference,
		Outcome:   string(rec.Outcome),
		Reason:    string(rec.Reason),
	}
	if rec.Resource != nil {
		resp.Status = string(rec.Resource.Status)
		// Hand the checkout URL back while payment is still possible, so
		// the client can resume an interrupted checkout.
		if rec.Outcome == service.OutcomePending {
			if intent := rec.Resource.ActiveIntent(); intent != nil {
				resp.RedirectURL = intent.RedirectURL
			}
		}
	}

	rest.WriteJSON(w, http.StatusOK, resp)
}
