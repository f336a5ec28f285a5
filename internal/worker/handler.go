// Package worker drives the notification handlers from Kafka topics, one
// topic per lifecycle event.
package worker

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/lifecycle"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/messaging"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/notifications"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, inv notifications.Invocation) error
}

// Consumer is satisfied by *messaging.Consumer.
type Consumer interface {
	Consume(ctx context.Context, handler messaging.HandlerFunc) error
	Topic() string
}

type NotificationHandler struct {
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewNotificationHandler(dispatcher Dispatcher, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle dispatches one delivery. A failed notification is logged and the
// message is still committed: failures are never retried.
func (h *NotificationHandler) Handle(ctx context.Context, d messaging.Delivery) error {
	h.logger.InfoContext(ctx, "processing event", "event", d.Topic, "key", d.Key)

	err := h.dispatcher.Dispatch(ctx, notifications.Invocation{
		Event:     lifecycle.EventType(d.Topic),
		RequestID: d.Key,
		Payload:   d.Payload,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "notification failed", "event", d.Topic, "key", d.Key, "error", err)
		return nil
	}

	h.logger.InfoContext(ctx, "event processed", "event", d.Topic, "key", d.Key)
	return nil
}

// Run consumes every topic concurrently until ctx ends or a consumer fails.
// Each topic has its own consumer so a message held for a later delivery
// time only delays its own topic.
func Run(ctx context.Context, consumers []Consumer, handler messaging.HandlerFunc) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range consumers {
		g.Go(func() error {
			return c.Consume(ctx, handler)
		})
	}
	return g.Wait()
}
