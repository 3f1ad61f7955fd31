package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// CloudWatchAPI is the subset of the CloudWatch client used for metrics.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Metrics publishes request and operation metrics to CloudWatch. A nil
// *Metrics is a valid no-op receiver so call sites need no feature checks.
type Metrics struct {
	namespace string
	client    CloudWatchAPI
	logger    *zap.Logger
}

// NewMetrics creates a metrics publisher
func NewMetrics(namespace string, client CloudWatchAPI, logger *zap.Logger) *Metrics {
	return &Metrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordRequest publishes latency and count for one HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	dims := []types.Dimension{
		{Name: aws.String("Route"), Value: aws.String(route)},
		{Name: aws.String("Method"), Value: aws.String(method)},
	}

	statusClass := "2xx"
	switch {
	case status >= 500:
		statusClass = "5xx"
	case status >= 400:
		statusClass = "4xx"
	case status >= 300:
		statusClass = "3xx"
	}

	m.put(ctx,
		types.MetricDatum{
			MetricName: aws.String("RequestLatency"),
			Dimensions: dims,
			Unit:       types.StandardUnitMilliseconds,
			Value:      aws.Float64(float64(duration.Milliseconds())),
		},
		types.MetricDatum{
			MetricName: aws.String("RequestCount"),
			Dimensions: append(dims, types.Dimension{
				Name:  aws.String("StatusClass"),
				Value: aws.String(statusClass),
			}),
			Unit:  types.StandardUnitCount,
			Value: aws.Float64(1),
		},
	)
}

// RecordOperation publishes latency and outcome for one storage operation.
func (m *Metrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	m.put(ctx, types.MetricDatum{
		MetricName: aws.String("OperationLatency"),
		Dimensions: []types.Dimension{
			{Name: aws.String("Operation"), Value: aws.String(operation)},
			{Name: aws.String("Outcome"), Value: aws.String(outcome)},
		},
		Unit:  types.StandardUnitMilliseconds,
		Value: aws.Float64(float64(duration.Milliseconds())),
	})
}

// put ships metric data, logging rather than propagating failures. Metric
// delivery must never fail a request.
func (m *Metrics) put(ctx context.Context, data ...types.MetricDatum) {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: data,
	})
	if err != nil && m.logger != nil {
		m.logger.Warn("Failed to publish metrics", zap.Error(err))
	}
}
