package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Instruments are the counters recorded by the notification handlers.
type Instruments struct {
	emailsSent       metric.Int64Counter
	emailsFailed     metric.Int64Counter
	schedulesCreated metric.Int64Counter
	schedulesFailed  metric.Int64Counter
}

func NewInstruments(mp metric.MeterProvider) (*Instruments, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter("ajoloeats/notifications")

	emailsSent, err := meter.Int64Counter("notifications.emails.sent",
		metric.WithDescription("Emails accepted by the delivery service"))
	if err != nil {
		return nil, err
	}
	emailsFailed, err := meter.Int64Counter("notifications.emails.failed",
		metric.WithDescription("Emails rejected by the delivery service"))
	if err != nil {
		return nil, err
	}
	schedulesCreated, err := meter.Int64Counter("notifications.schedules.created",
		metric.WithDescription("One-shot schedules registered"))
	if err != nil {
		return nil, err
	}
	schedulesFailed, err := meter.Int64Counter("notifications.schedules.failed",
		metric.WithDescription("One-shot schedule registrations that failed"))
	if err != nil {
		return nil, err
	}

	return &Instruments{
		emailsSent:       emailsSent,
		emailsFailed:     emailsFailed,
		schedulesCreated: schedulesCreated,
		schedulesFailed:  schedulesFailed,
	}, nil
}

func (i *Instruments) RecordEmail(ctx context.Context, template string, err error) {
	if i == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("template", template))
	if err != nil {
		i.emailsFailed.Add(ctx, 1, attrs)
		return
	}
	i.emailsSent.Add(ctx, 1, attrs)
}

func (i *Instruments) RecordSchedule(ctx context.Context, purpose string, err error) {
	if i == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("purpose", purpose))
	if err != nil {
		i.schedulesFailed.Add(ctx, 1, attrs)
		return
	}
	i.schedulesCreated.Add(ctx, 1, attrs)
}
