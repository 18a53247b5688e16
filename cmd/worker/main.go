package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/seramoda/storefront/internal/awsx"
	"github.com/seramoda/storefront/internal/config"
	"github.com/seramoda/storefront/internal/email"
	"github.com/seramoda/storefront/internal/fulfillment"
	"github.com/seramoda/storefront/internal/invoicing"
	"github.com/seramoda/storefront/internal/orders"
	"github.com/seramoda/storefront/internal/payment"
	"github.com/seramoda/storefront/internal/shipping"
)

func main() {
	if err := config.CheckRequired(config.WorkerKeys); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	clients, err := awsx.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	store := orders.NewStore(clients.DynamoDB, os.Getenv("ORDERS_TABLE"))
	orch := fulfillment.New(
		payment.NewClient(os.Getenv("IYZICO_API_KEY"), os.Getenv("IYZICO_SECRET_KEY"), os.Getenv("IYZICO_BASE_URL")),
		invoicing.NewClient(os.Getenv("PARASUT_ACCESS_TOKEN"), os.Getenv("PARASUT_COMPANY_ID"), os.Getenv("PARASUT_BASE_URL")),
		shipping.NewPlaceholderCarrier(),
		email.NewClient(os.Getenv("RESEND_API_KEY"), os.Getenv("EMAIL_FROM"), os.Getenv("EMAIL_ADMIN"), ""),
		store,
	)
	p := NewProcessor(store, orch)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"local-order-1","token":"local-token-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := p.Handle(context.Background(), event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
