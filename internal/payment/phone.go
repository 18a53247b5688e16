package payment

import "strings"

// NormalizePhone canonicalizes Turkish phone numbers to +90 followed by the
// 10 subscriber digits. The provider rejects anything else. Accepted inputs:
// a leading national trunk 0, a leading 90 country code (with or without +),
// or the bare 10 digits; spaces, dashes and parentheses are ignored.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 12 && strings.HasPrefix(digits, "90"):
		return "+" + digits
	case len(digits) == 11 && strings.HasPrefix(digits, "0"):
		return "+90" + digits[1:]
	case len(digits) == 10:
		return "+90" + digits
	}
	// unrecognized shape: pass the digits through so the provider's own
	// validation reports it
	return "+" + digits
}
