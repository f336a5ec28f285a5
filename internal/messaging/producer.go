package messaging

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var producerTracer = otel.Tracer("messaging/producer")

// DeliverAtHeader holds the RFC 3339 instant before which consumers must not
// process the message.
const DeliverAtHeader = "x-deliver-at"

type Producer struct {
	writer *kafka.Writer
}

// NewProducer returns a producer that can write to any topic; the topic is
// chosen per message.
func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           100 * time.Millisecond,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload []byte) error {
	return p.publish(ctx, kafka.Message{Topic: topic, Key: []byte(key), Value: payload})
}

// PublishAt publishes a message that consumers hold until deliverAt.
func (p *Producer) PublishAt(ctx context.Context, topic, key string, payload []byte, deliverAt time.Time) error {
	msg := kafka.Message{Topic: topic, Key: []byte(key), Value: payload}
	NewMessageCarrier(&msg).Set(DeliverAtHeader, deliverAt.Format(time.RFC3339))
	return p.publish(ctx, msg)
}

func (p *Producer) publish(ctx context.Context, msg kafka.Message) error {
	ctx, span := producerTracer.Start(ctx, "send "+msg.Topic,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("send"),
			semconv.MessagingOperationTypePublish,
			semconv.MessagingDestinationName(msg.Topic),
			semconv.MessagingKafkaMessageKey(string(msg.Key)),
		),
	)
	defer span.End()

	otel.GetTextMapPropagator().Inject(ctx, NewMessageCarrier(&msg))

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
