package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/lifecycle"
)

var ErrNoHandler = errors.New("no handler for event")

// Invocation is one delivery of an event to its handler. RequestID is only
// read by the order intake.
type Invocation struct {
	Event     lifecycle.EventType
	RequestID string
	Payload   []byte
}

type HandlerFunc func(ctx context.Context, inv Invocation) error

// Dispatcher routes events to handlers following the lifecycle graph.
type Dispatcher struct {
	handlers map[lifecycle.HandlerID]HandlerFunc
}

func NewDispatcher(h *Handlers) *Dispatcher {
	followUp := func(fn func(context.Context, []byte) error) HandlerFunc {
		return func(ctx context.Context, inv Invocation) error {
			return fn(ctx, inv.Payload)
		}
	}

	return &Dispatcher{
		handlers: map[lifecycle.HandlerID]HandlerFunc{
			lifecycle.HandlerOrderPlaced: func(ctx context.Context, inv Invocation) error {
				_, err := h.OrderPlaced(ctx, inv.RequestID, inv.Payload)
				return err
			},
			lifecycle.HandlerRestaurantCheckIn: followUp(h.RestaurantCheckIn),
			lifecycle.HandlerOrderMoving:       followUp(h.OrderMoving),
			lifecycle.HandlerOrderDelivered:    followUp(h.OrderDelivered),
			lifecycle.HandlerFeedbackRequest:   followUp(h.FeedbackRequest),
		},
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) error {
	node, ok := lifecycle.NodeFor(inv.Event)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, inv.Event)
	}
	fn, ok := d.handlers[node.Handler]
	if !ok {
		return fmt.Errorf("%w: %s (handler %s)", ErrNoHandler, inv.Event, node.Handler)
	}
	return fn(ctx, inv)
}
