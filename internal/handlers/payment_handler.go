package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/seramoda/storefront/internal/awsx"
	"github.com/seramoda/storefront/internal/payment"
	"github.com/seramoda/storefront/internal/retry"
	"github.com/seramoda/storefront/internal/validation"
)

// initiatePaymentHandler validates the checkout submission, applies rate
// limiting, builds the provider request and calls initialize through the
// retry helper. Success returns the hosted 3-D Secure payload.
func initiatePaymentHandler(cfg HandlerConfig, v *validatorv10.Validate) gin.HandlerFunc {
	retryCfg := retry.Config{
		MaxAttempts:    3,
		InitialDelay:   time.Second,
		RetryableCodes: payment.RetryableCodes,
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.InitiatePaymentRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		if cfg.Limiter != nil {
			res := cfg.Limiter.CheckLimit(c.ClientIP())
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetTime.Unix(), 10))
			if !res.Allowed {
				cfg.Metrics.Count(ctx, awsx.MetricRateLimitRejected)
				c.Header("Retry-After", strconv.Itoa(int(time.Until(res.ResetTime).Seconds())+1))
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited"})
				return
			}
		}

		cfg.Metrics.Count(ctx, awsx.MetricPaymentInitiated)

		checkout := buildCheckoutRequest(req, cfg.CallbackURL, c.ClientIP())

		result, err := retry.Do(ctx, retryCfg, func(ctx context.Context) (*payment.InitializeResult, error) {
			return cfg.Gateway.Initialize(ctx, checkout)
		})
		if err != nil {
			cfg.Metrics.Count(ctx, awsx.MetricPaymentFailed)
			var pe *payment.Error
			if errors.As(err, &pe) {
				// sanitized context only: the card number is masked and the
				// CVC is gone before anything reaches the log
				sanitized, _ := json.Marshal(checkout.Sanitized())
				log.Printf("[payment] initialize failed order=%s code=%s request=%s", req.OrderID, pe.Code, sanitized)
				c.JSON(http.StatusBadRequest, gin.H{
					"error":        "payment_failed",
					"errorCode":    pe.Code,
					"errorMessage": pe.Message,
				})
				return
			}
			log.Printf("[payment] initialize error order=%s: %v", req.OrderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment_initialization_failed"})
			return
		}

		cfg.Metrics.Count(ctx, awsx.MetricPaymentSucceeded)
		c.JSON(http.StatusOK, gin.H{
			"threeDSHtmlContent": result.ThreeDSHTMLContent,
			"paymentId":          result.PaymentID,
			"token":              result.Token,
		})
	}
}

// buildCheckoutRequest translates the validated request into the provider's
// shape: decimal strings for prices and a canonical +90 phone number.
func buildCheckoutRequest(req validation.InitiatePaymentRequest, callbackURL, clientIP string) payment.CheckoutRequest {
	items := make([]payment.BasketItem, 0, len(req.BasketItems))
	for _, it := range req.BasketItems {
		items = append(items, payment.BasketItem{
			ID:       it.ID,
			Name:     it.Name,
			Category: it.Category,
			ItemType: "PHYSICAL",
			Price:    formatPrice(it.Price),
		})
	}

	return payment.CheckoutRequest{
		Locale:         payment.LocaleTR,
		ConversationID: req.OrderID,
		Price:          formatPrice(req.Price),
		PaidPrice:      formatPrice(req.PaidPrice),
		Currency:       req.Currency,
		Installment:    req.Installment,
		BasketID:       req.OrderID,
		PaymentChannel: "WEB",
		PaymentGroup:   "PRODUCT",
		CallbackURL:    callbackURL,
		Card: payment.Card{
			HolderName:  req.Card.HolderName,
			Number:      req.Card.Number,
			ExpireMonth: req.Card.ExpireMonth,
			ExpireYear:  req.Card.ExpireYear,
			CVC:         req.Card.CVC,
		},
		Buyer: payment.Buyer{
			ID:             req.Buyer.Email,
			Name:           req.Buyer.Name,
			Surname:        req.Buyer.Surname,
			Email:          req.Buyer.Email,
			GsmNumber:      payment.NormalizePhone(req.Buyer.Phone),
			IdentityNumber: req.Buyer.IdentityNumber,
			City:           req.Buyer.City,
			Country:        req.Buyer.Country,
			Address:        req.Buyer.Address,
			IP:             clientIP,
		},
		ShippingAddress: providerAddress(req.ShippingAddress),
		BillingAddress:  providerAddress(req.BillingAddress),
		BasketItems:     items,
	}
}

func providerAddress(a validation.AddressRequest) payment.ProviderAddress {
	return payment.ProviderAddress{
		ContactName: a.Name,
		City:        a.City,
		Country:     a.Country,
		Address:     a.Street,
		ZipCode:     a.PostalCode,
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
