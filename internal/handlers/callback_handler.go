package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/seramoda/storefront/internal/awsx"
	"github.com/seramoda/storefront/internal/orders"
	"github.com/seramoda/storefront/internal/payment"
	"github.com/seramoda/storefront/internal/validation"
)

// paymentCallbackHandler receives the provider token after the 3-D Secure
// redirect, retrieves the final outcome and persists the paid transition on
// the matching order.
func paymentCallbackHandler(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CallbackRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		res, err := cfg.Gateway.Retrieve(ctx, req.Token)
		if err != nil {
			log.Printf("[callback] retrieve failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment_verification_failed"})
			return
		}

		if res.Status != payment.StatusSuccess || res.PaymentStatus != payment.PaymentStatusSuccess {
			// provider-reported failure: the order stays untouched
			cfg.Metrics.Count(ctx, awsx.MetricPaymentFailed)
			c.JSON(http.StatusOK, gin.H{
				"success":      false,
				"errorMessage": res.ErrorMessage,
			})
			return
		}

		orderID := res.BasketID
		if err := cfg.OrdersStore.MarkPaid(ctx, orderID, res.PaymentID); err != nil {
			if errors.Is(err, orders.ErrAlreadyPaid) {
				// duplicate callback: the first one won, report success
				log.Printf("[callback] duplicate callback for order=%s", orderID)
			} else {
				// the money has moved but our record did not: flag loudly for
				// manual reconciliation, still answer with the true payment
				// outcome
				log.Printf("[callback] RECONCILE payment confirmed but order update failed order=%s payment=%s: %v", orderID, res.PaymentID, err)
				cfg.Metrics.Count(ctx, awsx.MetricReconciliationAlert)
				if cfg.Sender != nil {
					if _, aerr := cfg.Sender.SendAdminAlert(ctx,
						"Payment/order desync: "+orderID,
						"payment "+res.PaymentID+" confirmed but order update failed: "+err.Error()); aerr != nil {
						log.Printf("[callback] admin alert failed: %v", aerr)
					}
				}
				c.JSON(http.StatusOK, gin.H{
					"success":                true,
					"paymentStatus":          res.PaymentStatus,
					"orderId":                orderID,
					"paymentId":              res.PaymentID,
					"reconciliationRequired": true,
				})
				return
			}
		}

		cfg.Metrics.Count(ctx, awsx.MetricPaymentSucceeded)
		enqueueFulfillment(ctx, cfg, orderID, req.Token)

		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"paymentStatus": res.PaymentStatus,
			"orderId":       orderID,
			"paymentId":     res.PaymentID,
		})
	}
}

// enqueueFulfillment hands the paid order to the worker queue when one is
// configured. Enqueue failures are logged only: the synchronous completion
// endpoint remains available as the fallback path.
func enqueueFulfillment(ctx context.Context, cfg HandlerConfig, orderID, token string) {
	if cfg.Publisher == nil {
		return
	}
	payload, _ := json.Marshal(map[string]string{
		"order_id": orderID,
		"token":    token,
	})
	attrs := map[string]string{"order_id": orderID}
	if err := cfg.Publisher.SendFulfillmentMessage(ctx, string(payload), attrs); err != nil {
		log.Printf("[callback] fulfillment enqueue failed order=%s: %v", orderID, err)
	}
}
