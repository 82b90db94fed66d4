// Package handlers exposes the HTTP surface: resource creation, payment
// initiation, and the three reconciliation channels (webhook, browser
// callback, client poll).
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ticketa/eventpay/internal/cache"
	"github.com/ticketa/eventpay/internal/core/ports"
	"github.com/ticketa/eventpay/internal/core/service"
	"github.com/ticketa/eventpay/internal/observability"
)

// Config carries the handler-level settings that are not dependencies.
type Config struct {
	// WebhookSecret keys the signature check on provider pushes.
	WebhookSecret string

	// SuccessRedirectURL and FailureRedirectURL are the frontend pages the
	// browser callback bounces the payer to.
	SuccessRedirectURL string
	FailureRedirectURL string
}

type Handlers struct {
	coordinator *service.Coordinator
	store       ports.ResourceStore
	events      ports.EventStore
	counts      *cache.CountCache
	cfg         Config
	metrics     *observability.Metrics
	logger      *slog.Logger
}

func NewHandlers(
	coordinator *service.Coordinator,
	store ports.ResourceStore,
	events ports.EventStore,
	counts *cache.CountCache,
	cfg Config,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		coordinator: coordinator,
		store:       store,
		events:      events,
		counts:      counts,
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
	}
}

func (h *Handlers) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/listings", h.CreateListing)
	mux.HandleFunc("POST /api/v1/registrations", h.CreateRegistration)
	mux.HandleFunc("GET /api/v1/resources/{id}", h.GetResource)

	mux.HandleFunc("POST /api/v1/listings/{id}/pay", h.InitiatePayment)
	mux.HandleFunc("POST /api/v1/registrations/{id}/pay", h.InitiatePayment)

	mux.HandleFunc("POST /api/v1/payments/webhook", h.Webhook)
	mux.HandleFunc("GET /api/v1/payments/callback", h.Callback)
	mux.HandleFunc("GET /api/v1/payments/{reference}", h.Poll)

	mux.HandleFunc("GET /api/v1/events/{id}/attendance", h.EventAttendance)
}
