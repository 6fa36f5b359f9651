package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"matrimony-backend/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

type AppMetrics struct {
	authLoginCounter   metric.Int64Counter
	otpGenerateCounter metric.Int64Counter
	otpVerifyCounter   metric.Int64Counter
	authReqDuration    metric.Float64Histogram
	profileOpCounter   metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "auth.request.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("matrimony-backend")
	loginCounter, err := meter.Int64Counter("auth.login.attempts")
	if err != nil {
		return nil, err
	}
	otpGenerateCounter, err := meter.Int64Counter("auth.otp.generated")
	if err != nil {
		return nil, err
	}
	otpVerifyCounter, err := meter.Int64Counter("auth.otp.verifications")
	if err != nil {
		return nil, err
	}
	authReqDuration, err := meter.Float64Histogram("auth.request.duration", metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	profileOpCounter, err := meter.Int64Counter("profile.operations")
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = &AppMetrics{
		authLoginCounter:   loginCounter,
		otpGenerateCounter: otpGenerateCounter,
		otpVerifyCounter:   otpVerifyCounter,
		authReqDuration:    authReqDuration,
		profileOpCounter:   profileOpCounter,
	}
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint, "interval", cfg.OTELMetricsExportInterval.String())
	return mp, nil
}

func current() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

// RecordAuthLogin counts an authentication attempt per strategy
// (password, otp, google, signup) and status.
func RecordAuthLogin(ctx context.Context, strategy, status string) {
	m := current()
	if m == nil {
		return
	}
	m.authLoginCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("strategy", strategy),
			attribute.String("status", status),
		),
	)
}

func RecordOTPGenerated(ctx context.Context, status string) {
	m := current()
	if m == nil {
		return
	}
	m.otpGenerateCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

func RecordOTPVerification(ctx context.Context, result string) {
	m := current()
	if m == nil {
		return
	}
	m.otpVerifyCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func RecordAuthRequestDuration(ctx context.Context, endpoint, status string, duration time.Duration) {
	m := current()
	if m == nil {
		return
	}
	m.authReqDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("endpoint", endpoint),
			attribute.String("status", status),
		),
	)
}

func RecordProfileOperation(ctx context.Context, op, status string) {
	m := current()
	if m == nil {
		return
	}
	m.profileOpCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("status", status),
		),
	)
}
