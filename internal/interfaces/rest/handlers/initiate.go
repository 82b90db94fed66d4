package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/interfaces/rest"
)

type initiateRequest struct {
	// Amount optionally overrides the recorded fee, e.g. after a discount
	// is applied. Zero or absent keeps the resource's own amount.
	Amount *int64 `json:"amount,omitempty"`
}

type initiateResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
}

// InitiatePayment opens a payment intent and returns the checkout URL the
// client must send the payer to. The body is optional.
func (h *Handlers) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		rest.WriteError(w, domain.NewInvalidRequestError("malformed request body"))
		return
	}

	result, err := h.coordinator.Initiate(r.Context(), id, req.Amount)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, initiateResponse{
		Reference:   result.Reference,
		RedirectURL: result.RedirectURL,
	})
}
