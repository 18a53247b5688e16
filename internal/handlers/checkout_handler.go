package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/seramoda/storefront/internal/idempotency"
	"github.com/seramoda/storefront/internal/orders"
	"github.com/seramoda/storefront/internal/validation"
)

// checkoutHandler creates an order (status pending, unpaid) atomically with
// an idempotency record, so a resubmitted checkout never produces a second
// order.
func checkoutHandler(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
			return
		}

		orderID := uuid.NewString()
		now := time.Now().UTC()

		idempItem := map[string]interface{}{
			"idempotency_key": idempKey,
			"status":          idempotency.StatusInProgress,
			"created_at":      now.Format(time.RFC3339),
			"updated_at":      now.Format(time.RFC3339),
			"order_id":        orderID,
		}

		items := make([]orders.Item, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, orders.Item{
				ProductID: it.ProductID,
				Name:      it.Name,
				UnitPrice: it.UnitPrice,
				Size:      it.Size,
				Quantity:  it.Quantity,
				ImageURL:  it.ImageURL,
			})
		}

		order := orders.Order{
			OrderID:       orderID,
			CustomerID:    req.CustomerID,
			Status:        orders.StatusPending,
			PaymentStatus: orders.PaymentUnpaid,
			Total:         req.Total,
			Currency:      req.Currency,
			Items:         items,
			Contact:       orders.Contact{Email: req.Email, Phone: req.Phone},
			ShippingAddress: orders.Address{
				Name:       req.ShippingAddress.Name,
				Street:     req.ShippingAddress.Street,
				City:       req.ShippingAddress.City,
				PostalCode: req.ShippingAddress.PostalCode,
				Country:    req.ShippingAddress.Country,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := cfg.OrdersStore.CreateWithIdempotencyTransaction(ctx, cfg.IdempotencyTable, idempItem, order, cfg.TTLWindow)
		if err != nil {
			if !errors.Is(err, orders.ErrIdempotencyConflict) {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "order_create_failed", "detail": err.Error()})
				return
			}
			// the idempotency key exists: fetch the record and replay or
			// report the prior attempt
			rec, getErr := cfg.IdempStore.Get(ctx, idempKey)
			if getErr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": getErr.Error()})
				return
			}
			if rec == nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction_failed_no_idempotency_record"})
				return
			}
			switch rec.Status {
			case idempotency.StatusDone:
				if rec.ResponseBody != "" {
					c.Data(rec.ResponseStatus, "application/json", []byte(rec.ResponseBody))
					return
				}
				c.JSON(http.StatusOK, gin.H{"order_id": rec.OrderID})
				return
			case idempotency.StatusInProgress:
				c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress", "order_id": rec.OrderID})
				return
			case idempotency.StatusFailed:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "previous_attempt_failed", "order_id": rec.OrderID})
				return
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
				return
			}
		}

		responseBody, _ := json.Marshal(gin.H{"order_id": orderID, "status": orders.StatusPending})
		if err := cfg.IdempStore.MarkDone(ctx, idempKey, string(responseBody), http.StatusCreated); err != nil {
			// an IN_PROGRESS record would replay as 202 forever; mark it
			// FAILED so a resubmission reports the prior attempt instead
			log.Printf("[checkout] mark done failed key=%s order=%s: %v", idempKey, orderID, err)
			if ferr := cfg.IdempStore.MarkFailed(ctx, idempKey, "record response failed: "+err.Error()); ferr != nil {
				log.Printf("[checkout] mark failed failed key=%s: %v", idempKey, ferr)
			}
		}

		c.Header("Location", fmt.Sprintf("/orders/%s", orderID))
		c.JSON(http.StatusCreated, gin.H{"order_id": orderID, "status": orders.StatusPending})
	}
}
