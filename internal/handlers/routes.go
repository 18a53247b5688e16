package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seramoda/storefront/internal/auth"
	"github.com/seramoda/storefront/internal/awsx"
	"github.com/seramoda/storefront/internal/email"
	"github.com/seramoda/storefront/internal/fulfillment"
	"github.com/seramoda/storefront/internal/idempotency"
	"github.com/seramoda/storefront/internal/invoicing"
	"github.com/seramoda/storefront/internal/orders"
	"github.com/seramoda/storefront/internal/payment"
	"github.com/seramoda/storefront/internal/ratelimit"
	"github.com/seramoda/storefront/internal/shipping"
	"github.com/seramoda/storefront/internal/validation"
)

// HandlerConfig groups dependencies for the storefront API. Everything is
// injected explicitly so tests can substitute fakes per capability.
type HandlerConfig struct {
	Gateway  payment.Gateway
	Invoicer invoicing.Invoicer
	Shipper  shipping.Shipper
	Sender   email.Sender

	OrdersStore *orders.Store
	IdempStore  *idempotency.Store
	Limiter     *ratelimit.Limiter
	Metrics     *awsx.Metrics
	Publisher   *awsx.Publisher // optional: enqueues paid orders for async fulfillment

	IdempotencyTable string
	TTLWindow        time.Duration
	JWTSecret        []byte
	CallbackURL      string
}

// RegisterRoutes registers all storefront routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	orch := fulfillment.New(cfg.Gateway, cfg.Invoicer, cfg.Shipper, cfg.Sender, cfg.OrdersStore)

	r.Use(corsMiddleware())

	r.POST("/checkout", checkoutHandler(cfg, v))
	r.POST("/payment/initiate", initiatePaymentHandler(cfg, v))
	r.POST("/payment/callback", paymentCallbackHandler(cfg, v))

	authed := r.Group("/orders", auth.Middleware(cfg.JWTSecret))
	authed.POST("/complete", completeOrderHandler(cfg, v, orch))
	authed.POST("/shipping-notice", auth.RequireAdmin(), shippingNoticeHandler(cfg, v))
}

// corsMiddleware answers preflight requests and attaches the CORS headers
// the hosted-checkout flow needs.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
