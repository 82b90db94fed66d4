package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/interfaces/rest"
)

type createListingRequest struct {
	OwnerID          string  `json:"owner_id"`
	OwnerEmail       string  `json:"owner_email"`
	AmountMinorUnits int64   `json:"amount"`
	Currency         string  `json:"currency"`
	DiscountCode     *string `json:"discount_code,omitempty"`
}

type createRegistrationRequest struct {
	OwnerID          string `json:"owner_id"`
	OwnerEmail       string `json:"owner_email"`
	EventID          string `json:"event_id"`
	AmountMinorUnits int64  `json:"amount"`
	Currency         string `json:"currency"`
}

type resourceResponse struct {
	ID               string  `json:"id"`
	Kind             string  `json:"kind"`
	OwnerID          string  `json:"owner_id"`
	EventID          string  `json:"event_id,omitempty"`
	AmountMinorUnits int64   `json:"amount"`
	Currency         string  `json:"currency"`
	Status           string  `json:"status"`
	PaymentReference *string `json:"payment_reference,omitempty"`
	Published        bool    `json:"published"`
	FeeCharged       *int64  `json:"fee_charged,omitempty"`
}

func toResourceResponse(r *domain.PayableResource) resourceResponse {
	return resourceResponse{
		ID:               r.ID,
		Kind:             string(r.Kind),
		OwnerID:          r.OwnerID,
		EventID:          r.EventID,
		AmountMinorUnits: r.AmountMinorUnits,
		Currency:         r.Currency,
		Status:           string(r.Status),
		PaymentReference: r.PaymentReference,
		Published:        r.Published,
		FeeCharged:       r.FeeCharged,
	}
}

func (h *Handlers) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req createListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, domain.NewInvalidRequestError("malformed request body"))
		return
	}
	if req.AmountMinorUnits <= 0 {
		rest.WriteError(w, domain.NewInvalidAmountError(req.AmountMinorUnits))
		return
	}
	if req.OwnerID == "" || req.OwnerEmail == "" || req.Currency == "" {
		rest.WriteError(w, domain.NewInvalidRequestError("owner_id, owner_email and currency are required"))
		return
	}

	resource := &domain.PayableResource{
		ID:               uuid.NewString(),
		Kind:             domain.KindListing,
		OwnerID:          req.OwnerID,
		OwnerEmail:       req.OwnerEmail,
		AmountMinorUnits: req.AmountMinorUnits,
		Currency:         strings.ToUpper(req.Currency),
		Status:           domain.StatusDraft,
		DiscountCode:     req.DiscountCode,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.store.Create(r.Context(), resource); err != nil {
		h.logger.Error("failed to create listing", "error", err)
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, toResourceResponse(resource))
}

func (h *Handlers) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req createRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, domain.NewInvalidRequestError("malformed request body"))
		return
	}
	if req.AmountMinorUnits <= 0 {
		rest.WriteError(w, domain.NewInvalidAmountError(req.AmountMinorUnits))
		return
	}
	if req.OwnerID == "" || req.OwnerEmail == "" || req.Currency == "" || req.EventID == "" {
		rest.WriteError(w, domain.NewInvalidRequestError("owner_id, owner_email, event_id and currency are required"))
		return
	}

	event, err := h.events.GetByID(r.Context(), req.EventID)
	if err != nil {
		h.logger.Error("event lookup failed", "event_id", req.EventID, "error", err)
		rest.WriteError(w, err)
		return
	}
	if event == nil {
		rest.WriteError(w, domain.NewResourceNotFoundError(req.EventID))
		return
	}

	resource := &domain.PayableResource{
		ID:               uuid.NewString(),
		Kind:             domain.KindRegistration,
		OwnerID:          req.OwnerID,
		OwnerEmail:       req.OwnerEmail,
		EventID:          req.EventID,
		AmountMinorUnits: req.AmountMinorUnits,
		Currency:         strings.ToUpper(req.Currency),
		Status:           domain.StatusDraft,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.store.Create(r.Context(), resource); err != nil {
		h.logger.Error("failed to create registration", "error", err)
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, toResourceResponse(resource))
}

func (h *Handlers) GetResource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	resource, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err)
		return
	}
	if resource == nil {
		rest.WriteError(w, domain.NewResourceNotFoundError(id))
		return
	}

	rest.WriteJSON(w, http.StatusOK, toResourceResponse(resource))
}
