package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/seramoda/storefront/internal/auth"
	"github.com/seramoda/storefront/internal/fulfillment"
	"github.com/seramoda/storefront/internal/orders"
	"github.com/seramoda/storefront/internal/validation"
)

// completeOrderHandler triggers the fulfillment chain for a paid order. Only
// the order's owner or an administrator may run it.
func completeOrderHandler(cfg HandlerConfig, v *validatorv10.Validate, orch *fulfillment.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CompleteOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		order, err := cfg.OrdersStore.Get(ctx, req.OrderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order_lookup_failed"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		if !auth.IsAdmin(c) && order.CustomerID != auth.CustomerID(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		steps, err := orch.Complete(ctx, req.OrderID, req.Token)
		if err != nil {
			if errors.Is(err, fulfillment.ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
				return
			}
			log.Printf("[fulfillment] order=%s failed: %v", req.OrderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": err.Error(),
				"steps": steps,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "steps": steps})
	}
}

// shippingNoticeHandler lets back-office operators send the customer their
// tracking details once a parcel is handed to the carrier.
func shippingNoticeHandler(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.ShippingNoticeRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		order, err := cfg.OrdersStore.Get(ctx, req.OrderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order_lookup_failed"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}

		msgID, err := cfg.Sender.SendShippingNotice(ctx, order, req.TrackingNumber, req.TrackingURL, req.Carrier)
		if err != nil {
			log.Printf("[shipping] notice email failed order=%s: %v", req.OrderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "email_send_failed"})
			return
		}

		// advance preparing -> shipped; a mismatch means the order already
		// moved on, which is fine for a resent notice
		if err := cfg.OrdersStore.UpdateStatus(ctx, req.OrderID, orders.StatusPreparing, orders.StatusShipped); err != nil && !errors.Is(err, orders.ErrStatusMismatch) {
			log.Printf("[shipping] status update failed order=%s: %v", req.OrderID, err)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "messageId": msgID})
	}
}
