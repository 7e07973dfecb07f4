package aws

import (
	"context"
	"fmt"
	"sort"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const (
	MetricHTTPRequests = "HTTPRequests"
	MetricHTTPErrors   = "HTTPErrors"
	MetricHTTPLatency  = "HTTPLatency"
	MetricHTTP4xx      = "HTTP4xxErrors"
	MetricHTTP5xx      = "HTTP5xxErrors"

	MetricOrdersCreated     = "OrdersCreated"
	MetricOrdersFailed      = "OrdersFailed"
	MetricInsufficientStock = "InsufficientStock"
	MetricProductsCreated   = "ProductsCreated"
	MetricUsersRegistered   = "UsersRegistered"
)

const defaultNamespace = "RetailApp"

// MetricsAPI is the slice of the CloudWatch client used here.
type MetricsAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// MetricsClient publishes storefront counters and latencies. A nil or
// disabled client swallows every call.
type MetricsClient struct {
	api       MetricsAPI
	namespace string
	enabled   bool
	now       func() time.Time
}

func NewMetricsClient(cfg sdkaws.Config, namespace string, enabled bool) *MetricsClient {
	return newMetricsClient(cloudwatch.NewFromConfig(cfg), namespace, enabled)
}

func newMetricsClient(api MetricsAPI, namespace string, enabled bool) *MetricsClient {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &MetricsClient{api: api, namespace: namespace, enabled: enabled, now: time.Now}
}

func (m *MetricsClient) IsEnabled() bool {
	return m != nil && m.enabled
}

func (m *MetricsClient) RecordCount(ctx context.Context, metricName string, dimensions map[string]string) error {
	return m.put(ctx, metricName, 1, types.StandardUnitCount, dimensions)
}

// RecordLatency reports d in milliseconds.
func (m *MetricsClient) RecordLatency(ctx context.Context, metricName string, d time.Duration, dimensions map[string]string) error {
	ms := float64(d) / float64(time.Millisecond)
	return m.put(ctx, metricName, ms, types.StandardUnitMilliseconds, dimensions)
}

func (m *MetricsClient) put(ctx context.Context, name string, value float64, unit types.StandardUnit, dimensions map[string]string) error {
	if !m.IsEnabled() {
		return nil
	}
	datum := types.MetricDatum{
		MetricName: sdkaws.String(name),
		Value:      sdkaws.Float64(value),
		Unit:       unit,
		Timestamp:  sdkaws.Time(m.now()),
		Dimensions: toDimensions(dimensions),
	}
	_, err := m.api.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  sdkaws.String(m.namespace),
		MetricData: []types.MetricDatum{datum},
	})
	if err != nil {
		return fmt.Errorf("put metric %s: %w", name, err)
	}
	return nil
}

// toDimensions orders dimensions by name so identical maps produce the
// same metric identity.
func toDimensions(in map[string]string) []types.Dimension {
	names := make([]string, 0, len(in))
	for k := range in {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make([]types.Dimension, 0, len(names))
	for _, k := range names {
		out = append(out, types.Dimension{Name: sdkaws.String(k), Value: sdkaws.String(in[k])})
	}
	return out
}
