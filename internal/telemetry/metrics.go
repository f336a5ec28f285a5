package telemetry

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

// InitMeterProvider installs a Prometheus-backed MeterProvider and returns
// the /metrics handler, a shutdown function and the instruments bound to it.
func InitMeterProvider(serviceName, serviceVersion string) (http.Handler, func(context.Context) error, *Instruments, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, nil, err
	}

	mp := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(newResource(serviceName, serviceVersion)),
	)
	otel.SetMeterProvider(mp)

	inst, err := NewInstruments(mp)
	if err != nil {
		return nil, nil, nil, err
	}

	return promhttp.Handler(), mp.Shutdown, inst, nil
}
