package telemetry

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewLogger(t *testing.T) {
	t.Run("respects level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "warn")

		logger.Info("hidden")
		logger.Warn("shown", "order_id", "12345678")

		out := buf.String()
		if bytes.Contains(buf.Bytes(), []byte("hidden")) {
			t.Errorf("info line should be filtered: %s", out)
		}
		if !bytes.Contains(buf.Bytes(), []byte(`"order_id":"12345678"`)) {
			t.Errorf("expected structured field, got %s", out)
		}
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, "chatty")

		logger.Debug("hidden")
		logger.Info("shown")

		if bytes.Contains(buf.Bytes(), []byte("hidden")) {
			t.Error("debug line should be filtered")
		}
		if !bytes.Contains(buf.Bytes(), []byte("shown")) {
			t.Error("info line missing")
		}
	})
}

func TestInstruments(t *testing.T) {
	reader := metric.NewManualReader()
	mp := metric.NewMeterProvider(metric.WithReader(reader))

	inst, err := NewInstruments(mp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx := context.Background()
	inst.RecordEmail(ctx, "order_delivered", nil)
	inst.RecordEmail(ctx, "order_delivered", nil)
	inst.RecordEmail(ctx, "order_delivered", errors.New("rejected"))
	inst.RecordSchedule(ctx, "order_moving", nil)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}

	if totals["notifications.emails.sent"] != 2 {
		t.Errorf("expected 2 sent, got %d", totals["notifications.emails.sent"])
	}
	if totals["notifications.emails.failed"] != 1 {
		t.Errorf("expected 1 failed, got %d", totals["notifications.emails.failed"])
	}
	if totals["notifications.schedules.created"] != 1 {
		t.Errorf("expected 1 schedule, got %d", totals["notifications.schedules.created"])
	}

	var nilInst *Instruments
	nilInst.RecordEmail(ctx, "x", nil)
}
