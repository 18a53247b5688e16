package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/seramoda/storefront/internal/orders"
)

// Sender is the notification capability: templated messages built from order
// data. Failures are hard errors; callers decide whether a missing
// notification is fatal.
type Sender interface {
	SendOrderConfirmation(ctx context.Context, o *orders.Order) (string, error)
	SendShippingNotice(ctx context.Context, o *orders.Order, trackingNumber, trackingURL, carrier string) (string, error)
	SendAdminAlert(ctx context.Context, subject, body string) (string, error)
}

// Client sends transactional mail through the Resend API.
type Client struct {
	apiKey     string
	fromAddr   string
	adminAddr  string
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client. baseURL defaults to the public API when empty.
func NewClient(apiKey, fromAddr, adminAddr, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.resend.com"
	}
	return &Client{
		apiKey:     apiKey,
		fromAddr:   fromAddr,
		adminAddr:  adminAddr,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// SendOrderConfirmation mails the customer their order summary.
func (c *Client) SendOrderConfirmation(ctx context.Context, o *orders.Order) (string, error) {
	subject, html := orderConfirmationTemplate(o)
	return c.send(ctx, o.Contact.Email, subject, html)
}

// SendShippingNotice mails the customer their tracking details.
func (c *Client) SendShippingNotice(ctx context.Context, o *orders.Order, trackingNumber, trackingURL, carrier string) (string, error) {
	subject, html := shippingNoticeTemplate(o, trackingNumber, trackingURL, carrier)
	return c.send(ctx, o.Contact.Email, subject, html)
}

// SendAdminAlert mails operators; used for reconciliation follow-ups.
func (c *Client) SendAdminAlert(ctx context.Context, subject, body string) (string, error) {
	return c.send(ctx, c.adminAddr, subject, "<pre>"+body+"</pre>")
}

func (c *Client) send(ctx context.Context, to, subject, html string) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    c.fromAddr,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return "", fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("resend returned %d: %s", resp.StatusCode, string(raw))
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.ID, nil
}
