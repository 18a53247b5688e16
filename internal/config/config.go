package config

import (
	"fmt"
	"os"
	"strings"
)

// Required keys for the API binary. Provider credentials and storage names
// must be present before any route is registered.
var APIKeys = []string{
	"IYZICO_API_KEY",
	"IYZICO_SECRET_KEY",
	"IYZICO_BASE_URL",
	"ORDERS_TABLE",
	"IDEMPOTENCY_TABLE",
	"RESEND_API_KEY",
	"PARASUT_ACCESS_TOKEN",
	"PARASUT_COMPANY_ID",
	"JWT_SECRET",
}

// Required keys for the fulfillment worker binary.
var WorkerKeys = []string{
	"IYZICO_API_KEY",
	"IYZICO_SECRET_KEY",
	"IYZICO_BASE_URL",
	"ORDERS_TABLE",
	"RESEND_API_KEY",
	"PARASUT_ACCESS_TOKEN",
	"PARASUT_COMPANY_ID",
}

// Additional keys enforced only when APP_ENV=production.
var ProductionKeys = []string{
	"PUBLIC_SITE_URL",
	"PAYMENT_CALLBACK_URL",
}

type lookupFunc func(string) (string, bool)

// CheckRequired verifies every key in keys is set and non-empty, plus the
// production-only set when APP_ENV=production. All missing keys are named in
// a single error so a misconfigured deploy fails once, not key by key.
func CheckRequired(keys []string) error {
	return checkRequired(keys, os.LookupEnv)
}

func checkRequired(keys []string, lookup lookupFunc) error {
	required := keys
	if env, _ := lookup("APP_ENV"); env == "production" {
		required = append(append([]string{}, keys...), ProductionKeys...)
	}

	var missing []string
	for _, k := range required {
		if v, ok := lookup(k); !ok || v == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
