package shipping

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Shipper creates a shipment and a label for an order. Any conforming
// implementation satisfies the completion flow; the placeholder carrier
// stands in until a real carrier integration lands.
type Shipper interface {
	CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error)
}

// ShipmentRequest carries the delivery details a carrier needs.
type ShipmentRequest struct {
	OrderID    string
	Name       string
	Street     string
	City       string
	PostalCode string
	Country    string
}

// Shipment is the carrier's reference for a created shipment.
type Shipment struct {
	TrackingNumber string
	TrackingURL    string
	LabelURL       string
	Carrier        string
}

// PlaceholderCarrier issues placeholder tracking numbers without calling any
// external service. TODO: replace with the real carrier API once the shipping
// contract is signed.
type PlaceholderCarrier struct {
	TrackingBaseURL string
	LabelBaseURL    string
}

// NewPlaceholderCarrier returns the stub carrier with sensible URL templates.
func NewPlaceholderCarrier() *PlaceholderCarrier {
	return &PlaceholderCarrier{
		TrackingBaseURL: "https://kargo.seramoda.example/track",
		LabelBaseURL:    "https://kargo.seramoda.example/labels",
	}
}

// CreateShipment fabricates a tracking number and label URL for the order.
func (p *PlaceholderCarrier) CreateShipment(ctx context.Context, req ShipmentRequest) (*Shipment, error) {
	if req.OrderID == "" {
		return nil, fmt.Errorf("order id required")
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	tracking := "SM" + suffix
	return &Shipment{
		TrackingNumber: tracking,
		TrackingURL:    fmt.Sprintf("%s/%s", p.TrackingBaseURL, tracking),
		LabelURL:       fmt.Sprintf("%s/%s.pdf", p.LabelBaseURL, tracking),
		Carrier:        "placeholder",
	}, nil
}
