package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"

	"github.com/seramoda/storefront/internal/fulfillment"
	"github.com/seramoda/storefront/internal/orders"
)

// OrderReader is the slice of the orders store the worker needs beyond what
// the orchestrator already covers.
type OrderReader interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
}

// Processor consumes fulfillment messages and drives the post-payment chain
// for each paid order.
type Processor struct {
	orderStore OrderReader
	orch       *fulfillment.Orchestrator
}

// NewProcessor creates a worker processor with its dependencies injected.
func NewProcessor(orderStore OrderReader, orch *fulfillment.Orchestrator) *Processor {
	return &Processor{
		orderStore: orderStore,
		orch:       orch,
	}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var msg WorkerMessage
	if err := json.Unmarshal([]byte(rec.Body), &msg); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}

	log.Printf("[worker] received order=%s corr=%s", msg.OrderID, msg.CorrelationID)

	order, err := p.orderStore.Get(ctx, msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		// Should never happen — DLQ if it does
		return fmt.Errorf("order not found: %s", msg.OrderID)
	}

	// Duplicate delivery or a competing worker already finished this order:
	// SaveFulfillment is conditional on payment_status=paid, so once the
	// order has moved past paid the chain already ran.
	switch order.Status {
	case orders.StatusPreparing, orders.StatusShipped, orders.StatusDelivered:
		log.Printf("[worker] order=%s already fulfilled (status=%s)", msg.OrderID, order.Status)
		return nil
	case orders.StatusCancelled:
		return fmt.Errorf("order=%s is cancelled, refusing to fulfill", msg.OrderID)
	}

	steps, err := p.orch.Complete(ctx, msg.OrderID, msg.Token)
	if err != nil {
		for _, s := range steps {
			log.Printf("[worker] order=%s step=%q success=%t error=%q", msg.OrderID, s.Step, s.Success, s.Error)
		}
		return fmt.Errorf("fulfillment failed for order=%s: %w", msg.OrderID, err)
	}

	log.Printf("[worker] completed order=%s in %d steps", msg.OrderID, len(steps))
	return nil
}
