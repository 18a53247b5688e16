package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/seramoda/storefront/internal/email"
	"github.com/seramoda/storefront/internal/invoicing"
	"github.com/seramoda/storefront/internal/orders"
	"github.com/seramoda/storefront/internal/payment"
	"github.com/seramoda/storefront/internal/shipping"
)

// Step names reported to callers.
const (
	StepPayment  = "Iyzico Payment"
	StepInvoice  = "Parasut Invoice"
	StepShipment = "Shipping Label"
	StepEmail    = "Confirmation Email"
	StepPersist  = "Order Update"
)

// ErrOrderNotFound is returned when the order id resolves to nothing.
var ErrOrderNotFound = errors.New("order not found")

// OrderStore is the slice of the orders store the orchestrator needs.
type OrderStore interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	SaveFulfillment(ctx context.Context, orderID string, f orders.Fulfillment) error
}

// StepResult reports one fulfillment step's outcome.
type StepResult struct {
	Step    string `json:"step"`
	Success bool   `json:"success"`
	Detail  string `json:"detail,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Orchestrator runs the post-payment fulfillment chain for one order:
// verify payment, invoice, ship, notify, persist. Every step after payment
// verification depends on the previous step's output. There is no
// compensation on partial failure: a failed run leaves the order for
// operator repair, and re-running is safe because SaveFulfillment is
// conditional on the paid state.
type Orchestrator struct {
	gateway  payment.Gateway
	invoicer invoicing.Invoicer
	shipper  shipping.Shipper
	sender   email.Sender
	store    OrderStore
}

// New wires the orchestrator's dependencies explicitly so tests can
// substitute fakes per capability.
func New(gateway payment.Gateway, invoicer invoicing.Invoicer, shipper shipping.Shipper, sender email.Sender, store OrderStore) *Orchestrator {
	return &Orchestrator{
		gateway:  gateway,
		invoicer: invoicer,
		shipper:  shipper,
		sender:   sender,
		store:    store,
	}
}

// Complete drives the fulfillment chain for orderID. token is the provider
// checkout token; payment is always verified against the provider first and
// the whole flow aborts if the payment did not succeed. The returned steps
// cover everything attempted, including the failing one.
func (o *Orchestrator) Complete(ctx context.Context, orderID, token string) ([]StepResult, error) {
	order, err := o.store.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	var steps []StepResult
	fail := func(step string, err error) ([]StepResult, error) {
		steps = append(steps, StepResult{Step: step, Error: err.Error()})
		return steps, fmt.Errorf("step %q failed: %w", step, err)
	}

	// 1. Confirm payment with the provider. The token must resolve to this
	// order; a mismatched basket id means a stale or foreign token.
	res, err := o.gateway.Retrieve(ctx, token)
	if err != nil {
		return fail(StepPayment, err)
	}
	if res.Status != payment.StatusSuccess || res.PaymentStatus != payment.PaymentStatusSuccess {
		return fail(StepPayment, fmt.Errorf("payment not successful: %s", res.ErrorMessage))
	}
	if res.BasketID != orderID {
		return fail(StepPayment, fmt.Errorf("token resolves to order %s, not %s", res.BasketID, orderID))
	}
	steps = append(steps, StepResult{Step: StepPayment, Success: true, Detail: res.PaymentID})

	// 2. Invoice: contact first, then the sales invoice referencing it.
	contactID, err := o.invoicer.EnsureContact(ctx, invoicing.ContactRequest{
		Name:  order.ShippingAddress.Name,
		Email: order.Contact.Email,
		Phone: order.Contact.Phone,
	})
	if err != nil {
		return fail(StepInvoice, err)
	}
	invoice, err := o.invoicer.CreateSalesInvoice(ctx, contactID, invoicing.InvoiceRequest{
		OrderID:     order.OrderID,
		Description: fmt.Sprintf("Siparis %s", order.OrderID),
		Total:       order.Total,
		Currency:    order.Currency,
	})
	if err != nil {
		return fail(StepInvoice, err)
	}
	steps = append(steps, StepResult{Step: StepInvoice, Success: true, Detail: invoice.ID})

	// 3. Shipment + label.
	shipment, err := o.shipper.CreateShipment(ctx, shipping.ShipmentRequest{
		OrderID:    order.OrderID,
		Name:       order.ShippingAddress.Name,
		Street:     order.ShippingAddress.Street,
		City:       order.ShippingAddress.City,
		PostalCode: order.ShippingAddress.PostalCode,
		Country:    order.ShippingAddress.Country,
	})
	if err != nil {
		return fail(StepShipment, err)
	}
	steps = append(steps, StepResult{Step: StepShipment, Success: true, Detail: shipment.TrackingNumber})

	// 4. Confirmation email. A missing notification never blocks order
	// processing: log and carry on.
	if msgID, err := o.sender.SendOrderConfirmation(ctx, order); err != nil {
		log.Printf("[fulfillment] confirmation email failed for order=%s: %v", order.OrderID, err)
		steps = append(steps, StepResult{Step: StepEmail, Error: err.Error()})
	} else {
		steps = append(steps, StepResult{Step: StepEmail, Success: true, Detail: msgID})
	}

	// 5. Persist everything in one update, advancing the order to preparing.
	err = o.store.SaveFulfillment(ctx, order.OrderID, orders.Fulfillment{
		PaymentID:      res.PaymentID,
		InvoiceID:      invoice.ID,
		InvoiceURL:     invoice.SharingURL,
		TrackingNumber: shipment.TrackingNumber,
		TrackingURL:    shipment.TrackingURL,
		LabelURL:       shipment.LabelURL,
	})
	if err != nil {
		return fail(StepPersist, err)
	}
	steps = append(steps, StepResult{Step: StepPersist, Success: true})

	return steps, nil
}
