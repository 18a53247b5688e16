package payment

// Provider constants for the checkout-form flow.
const (
	LocaleTR    = "tr"
	CurrencyTRY = "TRY"

	StatusSuccess = "success"
	StatusFailure = "failure"

	// PaymentStatus values reported by retrieve
	PaymentStatusSuccess = "SUCCESS"
	PaymentStatusFailure = "FAILURE"
)

// RetryableCodes are provider/transport error codes safe to retry. Declines
// and validation errors are deliberately absent: retrying them would mask
// permanent failures as transient ones.
var RetryableCodes = []string{
	"connection_error",
	"timeout",
	"system_error",
}

// Error is a provider-reported or transport failure carrying a
// machine-readable code for retry classification.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return "payment provider error " + e.Code + ": " + e.Message
}

// ErrorCode satisfies the retry helper's code inspection.
func (e *Error) ErrorCode() string { return e.Code }

// Buyer identifies the purchaser as the provider requires.
type Buyer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Surname        string `json:"surname"`
	Email          string `json:"email"`
	GsmNumber      string `json:"gsmNumber"`
	IdentityNumber string `json:"identityNumber"`
	City           string `json:"city"`
	Country        string `json:"country"`
	Address        string `json:"registrationAddress"`
	IP             string `json:"ip,omitempty"`
}

// ProviderAddress is the provider's address shape for shipping/billing.
type ProviderAddress struct {
	ContactName string `json:"contactName"`
	City        string `json:"city"`
	Country     string `json:"country"`
	Address     string `json:"address"`
	ZipCode     string `json:"zipCode,omitempty"`
}

// BasketItem is one provider basket line.
type BasketItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category1"`
	ItemType string `json:"itemType"` // PHYSICAL | VIRTUAL
	Price    string `json:"price"`    // provider expects decimal strings
}

// Card carries the payment instrument. Never log this struct directly;
// use Sanitized.
type Card struct {
	HolderName  string `json:"cardHolderName"`
	Number      string `json:"cardNumber"`
	ExpireMonth string `json:"expireMonth"`
	ExpireYear  string `json:"expireYear"`
	CVC         string `json:"cvc"`
}

// CheckoutRequest is the provider-shaped initialize payload.
type CheckoutRequest struct {
	Locale          string          `json:"locale"`
	ConversationID  string          `json:"conversationId"` // order id
	Price           string          `json:"price"`
	PaidPrice       string          `json:"paidPrice"`
	Currency        string          `json:"currency"`
	Installment     int             `json:"installment"`
	BasketID        string          `json:"basketId"` // order id
	PaymentChannel  string          `json:"paymentChannel"`
	PaymentGroup    string          `json:"paymentGroup"`
	CallbackURL     string          `json:"callbackUrl"`
	Card            Card            `json:"paymentCard"`
	Buyer           Buyer           `json:"buyer"`
	ShippingAddress ProviderAddress `json:"shippingAddress"`
	BillingAddress  ProviderAddress `json:"billingAddress"`
	BasketItems     []BasketItem    `json:"basketItems"`
}

// InitializeResult is the outcome of a checkout-form initialize call.
type InitializeResult struct {
	Status             string `json:"status"`
	PaymentID          string `json:"paymentId"`
	ThreeDSHTMLContent string `json:"threeDSHtmlContent"`
	Token              string `json:"token,omitempty"`
	ErrorCode          string `json:"errorCode,omitempty"`
	ErrorMessage       string `json:"errorMessage,omitempty"`
}

// RetrieveResult is the final outcome of a checkout session.
type RetrieveResult struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"paymentStatus"`
	PaymentID     string `json:"paymentId"`
	BasketID      string `json:"basketId"`
	ErrorCode     string `json:"errorCode,omitempty"`
	ErrorMessage  string `json:"errorMessage,omitempty"`
}
