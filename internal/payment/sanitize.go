package payment

import "strings"

// MaskCardNumber keeps only the last four digits of a card number, replacing
// the rest with asterisks. Short or empty input masks entirely.
func MaskCardNumber(number string) string {
	if len(number) <= 4 {
		return strings.Repeat("*", len(number))
	}
	return strings.Repeat("*", len(number)-4) + number[len(number)-4:]
}

// Sanitized returns a copy of the request safe for logging: the card number
// is masked down to its last four digits and the CVC is removed outright.
func (r CheckoutRequest) Sanitized() CheckoutRequest {
	out := r
	out.Card.Number = MaskCardNumber(r.Card.Number)
	out.Card.CVC = ""
	return out
}
