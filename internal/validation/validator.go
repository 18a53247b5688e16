package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// checkout: the claimed total must match the sum of (price * quantity)
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})

	// payment initiation: the paid price must match the basket sum
	v.RegisterStructValidation(initiatePaymentStructValidation, InitiatePaymentRequest{})

	return v
}

// checkoutStructValidation verifies the aggregated total of items equals Total (within cents)
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	var sum float64
	for _, it := range req.Items {
		sum += float64(it.Quantity) * it.UnitPrice
	}

	if cents(sum) != cents(req.Total) {
		sl.ReportError(req.Total, "total", "Total", "total_match_items", fmt.Sprintf("items sum %.2f != total %.2f", sum, req.Total))
	}
}

func initiatePaymentStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(InitiatePaymentRequest)

	var sum float64
	for _, it := range req.BasketItems {
		sum += it.Price
	}

	if cents(sum) != cents(req.PaidPrice) {
		sl.ReportError(req.PaidPrice, "paidPrice", "PaidPrice", "paid_price_match_basket", fmt.Sprintf("basket sum %.2f != paidPrice %.2f", sum, req.PaidPrice))
	}
}

// cents rounds a price to integer cents to avoid float comparison issues
func cents(v float64) int {
	return int(math.Round(v * 100))
}
