package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/seramoda/storefront/internal/awsx"
	"github.com/seramoda/storefront/internal/config"
	"github.com/seramoda/storefront/internal/email"
	"github.com/seramoda/storefront/internal/handlers"
	"github.com/seramoda/storefront/internal/idempotency"
	"github.com/seramoda/storefront/internal/invoicing"
	"github.com/seramoda/storefront/internal/orders"
	"github.com/seramoda/storefront/internal/payment"
	"github.com/seramoda/storefront/internal/ratelimit"
	"github.com/seramoda/storefront/internal/shipping"
)

func setupRouter(cfg handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(r, cfg)

	return r
}

func main() {
	if err := config.CheckRequired(config.APIKeys); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	clients, err := awsx.NewClients(context.Background())
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	limiter := ratelimit.NewLimiter(10, time.Minute)
	limiter.StartSweeper(5 * time.Minute)
	defer limiter.Stop()

	var publisher *awsx.Publisher
	if queueURL := os.Getenv("FULFILLMENT_QUEUE_URL"); queueURL != "" {
		publisher = awsx.NewPublisher(clients.SQS, queueURL)
	}

	cfg := handlers.HandlerConfig{
		Gateway:          payment.NewClient(os.Getenv("IYZICO_API_KEY"), os.Getenv("IYZICO_SECRET_KEY"), os.Getenv("IYZICO_BASE_URL")),
		Invoicer:         invoicing.NewClient(os.Getenv("PARASUT_ACCESS_TOKEN"), os.Getenv("PARASUT_COMPANY_ID"), os.Getenv("PARASUT_BASE_URL")),
		Shipper:          shipping.NewPlaceholderCarrier(),
		Sender:           email.NewClient(os.Getenv("RESEND_API_KEY"), os.Getenv("EMAIL_FROM"), os.Getenv("EMAIL_ADMIN"), ""),
		OrdersStore:      orders.NewStore(clients.DynamoDB, os.Getenv("ORDERS_TABLE")),
		IdempStore:       idempotency.NewStore(clients.DynamoDB, os.Getenv("IDEMPOTENCY_TABLE"), 48*time.Hour),
		Limiter:          limiter,
		Metrics:          awsx.NewMetrics(clients.CloudWatch, "Storefront"),
		Publisher:        publisher,
		IdempotencyTable: os.Getenv("IDEMPOTENCY_TABLE"),
		TTLWindow:        48 * time.Hour,
		JWTSecret:        []byte(os.Getenv("JWT_SECRET")),
		CallbackURL:      os.Getenv("PAYMENT_CALLBACK_URL"),
	}

	r := setupRouter(cfg)

	// if environment variable RUN_LOCAL is set to "true", run local HTTP server for development.
	if os.Getenv("RUN_LOCAL") == "true" {
		addr := ":8080"
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	// lambda adapter
	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
