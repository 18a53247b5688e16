package awsx

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

// Metric names emitted by the API handlers.
const (
	MetricPaymentInitiated    = "PaymentInitiated"
	MetricPaymentSucceeded    = "PaymentSucceeded"
	MetricPaymentFailed       = "PaymentFailed"
	MetricRateLimitRejected   = "RateLimitRejected"
	MetricReconciliationAlert = "ReconciliationAlert"
)

// Metrics publishes counters to a CloudWatch namespace. Emission is
// best-effort: failures are logged and never propagated to a request.
type Metrics struct {
	client    CloudWatchAPI
	namespace string
}

// NewMetrics returns a Metrics helper bound to a namespace.
// A nil client yields a no-op helper, which keeps local runs quiet.
func NewMetrics(client CloudWatchAPI, namespace string) *Metrics {
	return &Metrics{client: client, namespace: namespace}
}

// Count emits a count-unit datapoint of value 1 for the given metric name.
func (m *Metrics) Count(ctx context.Context, name string) {
	if m == nil || m.client == nil {
		return
	}
	now := time.Now()
	input := &cloudwatch.PutMetricDataInput{
		Namespace: &m.namespace,
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: &name,
				Timestamp:  &now,
				Unit:       cwtypes.StandardUnitCount,
				Value:      awsFloat(1),
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		log.Printf("[metrics] put metric %s failed: %v", name, err)
	}
}

func awsFloat(f float64) *float64 { return &f }
