package payment

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Gateway is the capability the handlers and the orchestrator depend on.
// Initialize submits a checkout; Retrieve fetches a session's final outcome.
type Gateway interface {
	Initialize(ctx context.Context, req CheckoutRequest) (*InitializeResult, error)
	Retrieve(ctx context.Context, token string) (*RetrieveResult, error)
}

// Client calls the Iyzico checkout-form API.
type Client struct {
	apiKey    string
	secretKey string
	baseURL   string
	http      *http.Client
}

// NewClient returns a Client for the given credentials and base URL.
func NewClient(apiKey, secretKey, baseURL string) *Client {
	return &Client{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// Initialize submits buyer/basket/card details and returns the hosted 3-D
// Secure payload. Provider-reported failures and transport failures both come
// back as *Error so the retry helper can classify by code.
func (c *Client) Initialize(ctx context.Context, req CheckoutRequest) (*InitializeResult, error) {
	var out InitializeResult
	if err := c.post(ctx, "/payment/iyzipos/checkoutform/initialize/auth/ecom", req, &out); err != nil {
		return nil, err
	}
	if out.Status != StatusSuccess {
		return nil, &Error{Code: out.ErrorCode, Message: out.ErrorMessage}
	}
	return &out, nil
}

// Retrieve fetches the final outcome of a checkout session by its token.
func (c *Client) Retrieve(ctx context.Context, token string) (*RetrieveResult, error) {
	body := map[string]string{
		"locale": LocaleTR,
		"token":  token,
	}
	var out RetrieveResult
	if err := c.post(ctx, "/payment/iyzipos/checkoutform/auth/ecom/detail", body, &out); err != nil {
		return nil, err
	}
	// retrieve reports failures in-band; the caller decides what a FAILURE
	// paymentStatus means for the order
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	rnd := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.authHeader(rnd, body))
	req.Header.Set("x-iyzi-rnd", rnd)

	resp, err := c.http.Do(req)
	if err != nil {
		// transport failures are retryable
		return &Error{Code: "connection_error", Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Code: "connection_error", Message: err.Error()}
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return &Error{Code: "system_error", Message: fmt.Sprintf("provider returned %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// authHeader builds the IYZWS v1 signature: base64(sha1(apiKey + rnd +
// secretKey + body)) keyed under the api key.
func (c *Client) authHeader(rnd string, body []byte) string {
	h := sha1.New()
	h.Write([]byte(c.apiKey))
	h.Write([]byte(rnd))
	h.Write([]byte(c.secretKey))
	h.Write(body)
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("IYZWS %s:%s", c.apiKey, sig)
}
