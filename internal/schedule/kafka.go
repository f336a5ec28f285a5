package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/telemetry"
)

// DelayedPublisher is satisfied by *messaging.Producer.
type DelayedPublisher interface {
	PublishAt(ctx context.Context, topic, key string, payload []byte, deliverAt time.Time) error
}

// Topic schedules by publishing the payload to the target topic with a
// delivery time. It is the scheduler used by the Kafka worker runtime,
// where targets are topic names instead of function ARNs.
type Topic struct {
	publisher   DelayedPublisher
	instruments *telemetry.Instruments
	logger      *slog.Logger
}

func NewTopic(publisher DelayedPublisher, instruments *telemetry.Instruments, logger *slog.Logger) *Topic {
	return &Topic{
		publisher:   publisher,
		instruments: instruments,
		logger:      logger,
	}
}

func (t *Topic) CreateOneShot(ctx context.Context, n ScheduledNotification) error {
	if err := n.validate(); err != nil {
		return err
	}

	err := t.publisher.PublishAt(ctx, n.Target, n.Name, n.Payload, n.FireAt)
	t.instruments.RecordSchedule(ctx, n.Purpose, err)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to publish scheduled notification", "schedule", n.Name, "topic", n.Target, "error", err)
		return fmt.Errorf("publish schedule %s: %w", n.Name, err)
	}

	t.logger.InfoContext(ctx, "scheduled notification published", "schedule", n.Name, "topic", n.Target, "fire_at", n.FireAt.Format(time.RFC3339))
	return nil
}
