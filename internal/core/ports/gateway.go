package ports

import (
	"context"

	"github.com/ticketa/eventpay/internal/core/domain"
)

// InitializeRequest carries everything the gateway needs to open a
// transaction and hand back a checkout redirect.
type InitializeRequest struct {
	Email            string
	AmountMinorUnits int64
	Currency         string
	Reference        string
	CallbackURL      string
	Metadata         map[string]string
}

// InitializeResponse is the gateway's answer to a successful initialize.
type InitializeResponse struct {
	AuthorizationURL string
	Reference        string
}

// GatewayClient defines the behavior of the external payment gateway.
type GatewayClient interface {
	InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*domain.RemoteTransaction, error)
}
