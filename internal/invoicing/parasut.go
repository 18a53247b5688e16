package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Invoicer is the capability the completion flow depends on: resolve a
// customer contact, then issue a sales invoice against it.
type Invoicer interface {
	EnsureContact(ctx context.Context, c ContactRequest) (string, error)
	CreateSalesInvoice(ctx context.Context, contactID string, inv InvoiceRequest) (*Invoice, error)
}

// ContactRequest identifies the customer to invoice.
type ContactRequest struct {
	Name  string
	Email string
	Phone string
}

// InvoiceRequest carries the order fields the invoice references.
type InvoiceRequest struct {
	OrderID     string
	Description string
	Total       float64
	Currency    string
}

// Invoice is the created document's reference.
type Invoice struct {
	ID         string
	SharingURL string
}

// Client calls the Parasut v4 API for one company.
type Client struct {
	accessToken string
	companyID   string
	baseURL     string
	http        *http.Client
}

// NewClient returns a Client bound to a company. baseURL defaults to the
// public API when empty.
func NewClient(accessToken, companyID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.parasut.com/v4"
	}
	return &Client{
		accessToken: accessToken,
		companyID:   companyID,
		baseURL:     baseURL,
		http:        &http.Client{Timeout: 30 * time.Second},
	}
}

type contactData struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type createdResource struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			SharingPreviewURL string `json:"sharing_preview_url"`
		} `json:"attributes"`
	} `json:"data"`
}

// EnsureContact finds the contact by email or creates it. Returns the
// contact id used by CreateSalesInvoice.
func (c *Client) EnsureContact(ctx context.Context, req ContactRequest) (string, error) {
	q := url.Values{}
	q.Set("filter[email]", req.Email)
	var found contactData
	if err := c.do(ctx, http.MethodGet, "/contacts?"+q.Encode(), nil, &found); err != nil {
		return "", fmt.Errorf("search contact: %w", err)
	}
	if len(found.Data) > 0 {
		return found.Data[0].ID, nil
	}

	body := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "contacts",
			"attributes": map[string]interface{}{
				"name":         req.Name,
				"email":        req.Email,
				"phone":        req.Phone,
				"contact_type": "person",
				"account_type": "customer",
			},
		},
	}
	var created createdResource
	if err := c.do(ctx, http.MethodPost, "/contacts", body, &created); err != nil {
		return "", fmt.Errorf("create contact: %w", err)
	}
	return created.Data.ID, nil
}

// CreateSalesInvoice issues an invoice referencing the contact and the order
// total, and returns its id plus the shareable document URL.
func (c *Client) CreateSalesInvoice(ctx context.Context, contactID string, inv InvoiceRequest) (*Invoice, error) {
	body := map[string]interface{}{
		"data": map[string]interface{}{
			"type": "sales_invoices",
			"attributes": map[string]interface{}{
				"item_type":     "invoice",
				"description":   inv.Description,
				"issue_date":    time.Now().Format("2006-01-02"),
				"currency":      inv.Currency,
				"gross_total":   inv.Total,
				"order_no":      inv.OrderID,
				"shipment_incl": true,
			},
			"relationships": map[string]interface{}{
				"contact": map[string]interface{}{
					"data": map[string]string{"id": contactID, "type": "contacts"},
				},
			},
		},
	}
	var created createdResource
	if err := c.do(ctx, http.MethodPost, "/sales_invoices", body, &created); err != nil {
		return nil, fmt.Errorf("create sales invoice: %w", err)
	}
	return &Invoice{
		ID:         created.Data.ID,
		SharingURL: created.Data.Attributes.SharingPreviewURL,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+c.companyID+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call parasut: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("parasut returned %d: %s", resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
