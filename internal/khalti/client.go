// Package khalti wraps the Khalti ePayment API (initiate + lookup).
// The gateway itself is a black box to the rest of the system; payment
// verification only cares about the Completed status.
package khalti

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StatusCompleted is the lookup status a verified payment must report.
const StatusCompleted = "Completed"

// InitiateRequest starts a payment. Amount is in paisa.
type InitiateRequest struct {
	ReturnURL         string `json:"return_url"`
	WebsiteURL        string `json:"website_url"`
	Amount            int64  `json:"amount"`
	PurchaseOrderID   string `json:"purchase_order_id"`
	PurchaseOrderName string `json:"purchase_order_name"`
}

type InitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
	ExpiresAt  string `json:"expires_at"`
}

type LookupResponse struct {
	Pidx          string `json:"pidx"`
	TotalAmount   int64  `json:"total_amount"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Refunded      bool   `json:"refunded"`
}

// Client is the gateway surface payment verification depends on.
type Client interface {
	Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResponse, error)
	Lookup(ctx context.Context, pidx string) (*LookupResponse, error)
}

// HTTPClient is the real gateway client.
type HTTPClient struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewHTTPClient(baseURL, secretKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:   baseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) Initiate(ctx context.Context, req *InitiateRequest) (*InitiateResponse, error) {
	if req == nil || req.Amount <= 0 {
		return nil, fmt.Errorf("invalid payment details")
	}
	var out InitiateResponse
	if err := c.post(ctx, "/api/v2/epayment/initiate/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Lookup(ctx context.Context, pidx string) (*LookupResponse, error) {
	if pidx == "" {
		return nil, fmt.Errorf("pidx is required")
	}
	var out LookupResponse
	if err := c.post(ctx, "/api/v2/epayment/lookup/", map[string]string{"pidx": pidx}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal khalti request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build khalti request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("khalti request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("khalti returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode khalti response: %w", err)
	}
	return nil
}
