package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://api.paystack.co"

	// SignatureHeader carries the HMAC-SHA512 of the raw webhook body.
	SignatureHeader = "x-paystack-signature"

	EventChargeSuccess = "charge.success"
)

// Client is a thin wrapper over the gateway's transaction API. Requests use
// a fixed timeout and are never retried.
type Client struct {
	baseURL   string
	secretKey string
	http      *http.Client
}

func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		secretKey: secretKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// APIResponse is the gateway's envelope, with Data kept raw so callers can
// pass it through verbatim.
type APIResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type InitializeRequest struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"` // minor currency units
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type VerifyData struct {
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"`
	PaidAt    string          `json:"paid_at,omitempty"`
	Channel   string          `json:"channel,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// ProviderError is returned for non-2xx gateway responses; the provider's
// body is preserved for pass-through.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Body)
}

func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*APIResponse, error) {
	return c.do(ctx, http.MethodPost, "/transaction/initialize", req)
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyData, error) {
	resp, err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	var data VerifyData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("decode verify data: %w", err)
	}
	return &data, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*APIResponse, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out APIResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode gateway response: %w", err)
	}
	return &out, nil
}

// ValidSignature verifies the webhook HMAC-SHA512 signature over the raw
// request body.
func ValidSignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the webhook signature; used by tests and local tooling.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// WebhookEvent is the decoded webhook payload.
type WebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string          `json:"reference"`
		Status    string          `json:"status"`
		Amount    int64           `json:"amount"`
		Metadata  WebhookMetadata `json:"metadata"`
	} `json:"data"`
}

type WebhookMetadata struct {
	BookingID int64 `json:"booking_id"`
	UserID    int64 `json:"user_id,omitempty"`
}
