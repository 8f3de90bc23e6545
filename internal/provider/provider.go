// Package provider is the client for the external payment provider. Only
// the checkout-session surface is used: create a session for a purchase and
// poll a session the webhook never reported.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/alexsokolov87/creditspin/internal/config"
	"github.com/alexsokolov87/creditspin/pkg/clients"
)

type CheckoutSession struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	Status    string `json:"status"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

// Session statuses reported by the provider.
const (
	SessionPending   = "pending"
	SessionSucceeded = "succeeded"
	SessionFailed    = "failed"
)

type Client struct {
	baseURL string
	apiKey  string
	client  clients.HTTPClientI
}

func New(cfg *config.Config, client clients.HTTPClientI) *Client {
	return &Client{
		baseURL: cfg.ProviderAddress,
		apiKey:  cfg.ProviderAPIKey,
		client:  client,
	}
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
	}
	return h
}

type createCheckoutRequest struct {
	Amount    int64             `json:"amount"`
	Currency  string            `json:"currency"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata"`
}

// CreateCheckout opens a checkout session for a credits purchase. The
// account id travels in the session metadata so an out-of-band webhook can
// still resolve its destination.
func (c *Client) CreateCheckout(ctx context.Context, accountID string, amountCents int64, currency string) (*CheckoutSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(createCheckoutRequest{
		Amount:    amountCents,
		Currency:  currency,
		Reference: accountID,
		Metadata:  map[string]string{"account_id": accountID},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode checkout request: %w", err)
	}

	statusCode, respBody, err := c.client.Post(c.baseURL+"/api/v1/checkouts", c.headers(), body)
	if err != nil {
		return nil, fmt.Errorf("provider unavailable: %w", err)
	}
	if statusCode != http.StatusOK && statusCode != http.StatusCreated {
		zap.L().Error("provider rejected checkout creation",
			zap.Int("status", statusCode),
			zap.ByteString("body", respBody))
		return nil, fmt.Errorf("provider returned status %d", statusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}

// GetCheckout polls the current state of a session.
func (c *Client) GetCheckout(ctx context.Context, externalID string) (*CheckoutSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	statusCode, respBody, _, err := c.client.Get(c.baseURL+"/api/v1/checkouts/"+externalID, c.headers())
	if err != nil {
		return nil, fmt.Errorf("provider unavailable: %w", err)
	}
	if statusCode == http.StatusNotFound {
		return nil, nil
	}
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", statusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}
