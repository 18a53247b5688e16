package validation

// AddressRequest is a structured address in request bodies.
type AddressRequest struct {
	Name       string `json:"name" validate:"required"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country" validate:"required"`
}

// CheckoutItemRequest is one line item of a checkout submission.
type CheckoutItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	UnitPrice float64 `json:"unitPrice" validate:"required,gt=0"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

// CheckoutRequest is the payload for POST /checkout.
type CheckoutRequest struct {
	CustomerID      string                `json:"customerId" validate:"required"`
	Items           []CheckoutItemRequest `json:"items" validate:"required,min=1,dive"`
	Total           float64               `json:"total" validate:"required,gt=0"`
	Currency        string                `json:"currency" validate:"required,len=3"`
	Email           string                `json:"email" validate:"required,email"`
	Phone           string                `json:"phone" validate:"required"`
	ShippingAddress AddressRequest        `json:"shippingAddress" validate:"required"`
}

// CardRequest is the payment instrument submitted for initiation.
type CardRequest struct {
	HolderName  string `json:"cardHolderName" validate:"required"`
	Number      string `json:"cardNumber" validate:"required,min=13,max=19,numeric"`
	ExpireMonth string `json:"expireMonth" validate:"required,len=2,numeric"`
	ExpireYear  string `json:"expireYear" validate:"required,len=4,numeric"`
	CVC         string `json:"cvc" validate:"required,min=3,max=4,numeric"`
}

// BuyerRequest identifies the purchaser for the payment provider.
type BuyerRequest struct {
	Name           string `json:"name" validate:"required"`
	Surname        string `json:"surname" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	IdentityNumber string `json:"identityNumber" validate:"required"`
	Address        string `json:"address" validate:"required"`
	City           string `json:"city" validate:"required"`
	Country        string `json:"country" validate:"required"`
}

// BasketItemRequest is one provider basket line for payment initiation.
type BasketItemRequest struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Price    float64 `json:"price" validate:"required,gt=0"`
}

// InitiatePaymentRequest is the payload for POST /payment/initiate.
type InitiatePaymentRequest struct {
	OrderID         string              `json:"orderId" validate:"required"`
	Price           float64             `json:"price" validate:"required,gt=0"`
	PaidPrice       float64             `json:"paidPrice" validate:"required,gt=0"`
	Currency        string              `json:"currency" validate:"required,len=3"`
	Installment     int                 `json:"installment" validate:"min=1"`
	Buyer           BuyerRequest        `json:"buyer" validate:"required"`
	ShippingAddress AddressRequest      `json:"shippingAddress" validate:"required"`
	BillingAddress  AddressRequest      `json:"billingAddress" validate:"required"`
	BasketItems     []BasketItemRequest `json:"basketItems" validate:"required,min=1,dive"`
	Card            CardRequest         `json:"card" validate:"required"`
}

// CallbackRequest is the payload the provider posts back after 3-D Secure.
type CallbackRequest struct {
	Token string `json:"token" validate:"required"`
}

// CompleteOrderRequest triggers the fulfillment chain for a paid order.
// Token is the provider checkout token; payment is always re-verified
// against it before any fulfillment step runs.
type CompleteOrderRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Token   string `json:"token" validate:"required"`
}

// ShippingNoticeRequest is the admin payload for customer shipping emails.
type ShippingNoticeRequest struct {
	OrderID        string `json:"orderId" validate:"required"`
	TrackingNumber string `json:"trackingNumber" validate:"required"`
	TrackingURL    string `json:"trackingUrl" validate:"required,url"`
	Carrier        string `json:"carrier" validate:"required"`
}
