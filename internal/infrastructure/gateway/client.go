// Package gateway wraps the external payment gateway's HTTP API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ticketa/eventpay/internal/config"
	"github.com/ticketa/eventpay/internal/core/domain"
	"github.com/ticketa/eventpay/internal/core/ports"
)

type HTTPGatewayClient struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *HTTPGatewayClient {
	return &HTTPGatewayClient{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

var _ ports.GatewayClient = (*HTTPGatewayClient)(nil)

func (c *HTTPGatewayClient) InitializeTransaction(ctx context.Context, req ports.InitializeRequest) (*ports.InitializeResponse, error) {
	body := initializeRequest{
		Email:       req.Email,
		Amount:      req.AmountMinorUnits,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	endpoint := fmt.Sprintf("%s/transaction/initialize", c.baseURL)
	resp, err := sendRequest[initializeRequest, initializeResponse](c, ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}

	return &ports.InitializeResponse{
		AuthorizationURL: resp.Data.AuthorizationURL,
		Reference:        resp.Data.Reference,
	}, nil
}

func (c *HTTPGatewayClient) VerifyTransaction(ctx context.Context, reference string) (*domain.RemoteTransaction, error) {
	endpoint := fmt.Sprintf("%s/transaction/verify/%s", c.baseURL, url.PathEscape(reference))
	resp, err := sendRequest[any, verifyResponse](c, ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	return &domain.RemoteTransaction{
		Reference:        resp.Data.Reference,
		Status:           domain.ParseTransactionStatus(resp.Data.Status),
		AmountMinorUnits: resp.Data.Amount,
		Currency:         resp.Data.Currency,
		Metadata:         resp.Data.Metadata,
	}, nil
}

func sendRequest[Req any, Resp any](c *HTTPGatewayClient, ctx context.Context, method, endpoint string, reqBody *Req) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp gatewayErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, &GatewayError{
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var gatewayResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&gatewayResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &gatewayResp, nil
}
