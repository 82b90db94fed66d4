package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ticketa/eventpay/internal/config"
	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/ports"
)

func newTestClient(baseURL string) *HTTPGatewayClient {
	return NewClient(config.GatewayConfig{
		BaseURL:     baseURL,
		SecretKey:   "sk_test_secret",
		ConnTimeout: 5 * time.Second,
	})
}

func TestInitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_secret", r.Header.Get("Authorization"))

		var body initializeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(1000), body.Amount)
		assert.Equal(t, "LST-ref-1", body.Reference)

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.example.com/abc",
				"access_code":       "abc",
				"reference":         body.Reference,
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	resp, err := client.InitializeTransaction(context.Background(), ports.InitializeRequest{
		Email:            "owner@example.com",
		AmountMinorUnits: 1000,
		Currency:         "NGN",
		Reference:        "LST-ref-1",
		CallbackURL:      "https://api.example.com/payments/callback",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/abc", resp.AuthorizationURL)
	assert.Equal(t, "LST-ref-1", resp.Reference)
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/LST-ref-1", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"reference": "LST-ref-1",
				"status":    "success",
				"amount":    1000,
				"currency":  "NGN",
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	tx, err := client.VerifyTransaction(context.Background(), "LST-ref-1")

	require.NoError(t, err)
	assert.Equal(t, domain.TxSuccess, tx.Status)
	assert.Equal(t, int64(1000), tx.AmountMinorUnits)
	assert.Equal(t, "NGN", tx.Currency)
}

func TestVerifyTransaction_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"reference": "LST-ref-1",
				"status":    "processing",
				"amount":    1000,
				"currency":  "NGN",
			},
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	tx, err := client.VerifyTransaction(context.Background(), "LST-ref-1")

	require.NoError(t, err)
	assert.Equal(t, domain.TxUnknown, tx.Status)
}

func TestVerifyTransaction_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "upstream unavailable",
		})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	_, err := client.VerifyTransaction(context.Background(), "LST-ref-1")

	require.Error(t, err)
	gwErr, ok := IsGatewayError(err)
	require.True(t, ok)
	assert.True(t, gwErr.IsRetryable())
}

func TestVerifyTransaction_ContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.VerifyTransaction(ctx, "LST-ref-1")
	assert.Error(t, err)
}
