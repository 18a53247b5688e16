package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient("api-key", "secret-key", srv.URL)
	c.http = srv.Client()
	return c, srv
}

func TestInitialize_Success(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/checkoutform/initialize/auth/ecom") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "IYZWS api-key:") {
			t.Errorf("missing IYZWS signature header: %q", r.Header.Get("Authorization"))
		}
		var req CheckoutRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.BasketID != "order-123" {
			t.Errorf("basket id not forwarded: %q", req.BasketID)
		}
		_ = json.NewEncoder(w).Encode(InitializeResult{
			Status:             StatusSuccess,
			PaymentID:          "pay-1",
			ThreeDSHTMLContent: "<form>3ds</form>",
		})
	})
	defer srv.Close()

	res, err := c.Initialize(context.Background(), CheckoutRequest{BasketID: "order-123", ConversationID: "order-123"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PaymentID != "pay-1" || res.ThreeDSHTMLContent == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestInitialize_ProviderFailureIsTypedError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(InitializeResult{
			Status:       StatusFailure,
			ErrorCode:    "10051",
			ErrorMessage: "Card limit insufficient",
		})
	})
	defer srv.Close()

	_, err := c.Initialize(context.Background(), CheckoutRequest{})
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pe.ErrorCode() != "10051" {
		t.Fatalf("expected code 10051, got %s", pe.ErrorCode())
	}
}

func TestPost_ServerErrorIsRetryableCode(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	_, err := c.Initialize(context.Background(), CheckoutRequest{})
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	found := false
	for _, code := range RetryableCodes {
		if pe.ErrorCode() == code {
			found = true
		}
	}
	if !found {
		t.Fatalf("5xx should map to a retryable code, got %s", pe.ErrorCode())
	}
}

func TestRetrieve_ReportsOutcomeInBand(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["token"] != "tok-1" {
			t.Errorf("token not forwarded: %q", body["token"])
		}
		_ = json.NewEncoder(w).Encode(RetrieveResult{
			Status:        StatusSuccess,
			PaymentStatus: PaymentStatusFailure,
			BasketID:      "order-123",
			ErrorMessage:  "3ds verification failed",
		})
	})
	defer srv.Close()

	res, err := c.Retrieve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PaymentStatus != PaymentStatusFailure || res.BasketID != "order-123" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestTransportFailureIsConnectionError(t *testing.T) {
	c := NewClient("k", "s", "http://127.0.0.1:1") // nothing listens here
	_, err := c.Initialize(context.Background(), CheckoutRequest{})
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if pe.ErrorCode() != "connection_error" {
		t.Fatalf("expected connection_error, got %s", pe.ErrorCode())
	}
}
