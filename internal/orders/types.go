package orders

import "time"

// Order lifecycle statuses
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusPreparing = "preparing"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment statuses. The transition is forward-only: unpaid -> paid.
const (
	PaymentUnpaid = "unpaid"
	PaymentPaid   = "paid"
	PaymentFailed = "failed"
)

// Address is the shipping address embedded on an order.
type Address struct {
	Name       string `dynamodbav:"name" json:"name"`
	Street     string `dynamodbav:"street" json:"street"`
	City       string `dynamodbav:"city" json:"city"`
	PostalCode string `dynamodbav:"postal_code" json:"postalCode"`
	Country    string `dynamodbav:"country" json:"country"`
}

// Contact is the customer contact info embedded on an order.
type Contact struct {
	Email string `dynamodbav:"email" json:"email"`
	Phone string `dynamodbav:"phone" json:"phone"`
}

// Item is one line item. Created atomically with its order at checkout and
// immutable afterwards.
type Item struct {
	ProductID string  `dynamodbav:"product_id" json:"productId"`
	Name      string  `dynamodbav:"name" json:"name"`
	UnitPrice float64 `dynamodbav:"unit_price" json:"unitPrice"`
	Size      string  `dynamodbav:"size,omitempty" json:"size,omitempty"`
	Quantity  int     `dynamodbav:"quantity" json:"quantity"`
	ImageURL  string  `dynamodbav:"image_url,omitempty" json:"imageUrl,omitempty"`
}

// Order represents the item stored in the orders DynamoDB table.
type Order struct {
	OrderID         string    `dynamodbav:"order_id"` // PK
	CustomerID      string    `dynamodbav:"customer_id,omitempty"`
	Status          string    `dynamodbav:"status"`
	PaymentStatus   string    `dynamodbav:"payment_status"`
	Total           float64   `dynamodbav:"total"`
	Currency        string    `dynamodbav:"currency"`
	PaymentID       string    `dynamodbav:"payment_id,omitempty"` // provider payment reference
	InvoiceID       string    `dynamodbav:"invoice_id,omitempty"`
	InvoiceURL      string    `dynamodbav:"invoice_url,omitempty"`
	TrackingNumber  string    `dynamodbav:"tracking_number,omitempty"`
	TrackingURL     string    `dynamodbav:"tracking_url,omitempty"`
	LabelURL        string    `dynamodbav:"label_url,omitempty"`
	Items           []Item    `dynamodbav:"items,omitempty"`
	ShippingAddress Address   `dynamodbav:"shipping_address"`
	Contact         Contact   `dynamodbav:"contact"`
	CreatedAt       time.Time `dynamodbav:"created_at"`
	UpdatedAt       time.Time `dynamodbav:"updated_at"`
}

// Fulfillment carries the results accumulated by the completion flow,
// persisted onto the order in a single update.
type Fulfillment struct {
	PaymentID      string
	InvoiceID      string
	InvoiceURL     string
	TrackingNumber string
	TrackingURL    string
	LabelURL       string
}
