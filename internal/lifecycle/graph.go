// Package lifecycle describes the order notification flow as data: which
// handler consumes each event and which scheduled events it emits.
package lifecycle

import (
	"fmt"
	"time"
)

type EventType string

const (
	EventOrderPlaced       EventType = "order.placed"
	EventReadyConfirmation EventType = "order.ready_confirmation"
	EventOrderMoving       EventType = "order.moving"
	EventOrderDelivered    EventType = "order.delivered"
	EventFeedbackRequest   EventType = "order.feedback_request"
)

type HandlerID string

const (
	HandlerOrderPlaced       HandlerID = "order_placed"
	HandlerRestaurantCheckIn HandlerID = "restaurant_check_in"
	HandlerOrderMoving       HandlerID = "order_moving"
	HandlerOrderDelivered    HandlerID = "order_delivered"
	HandlerFeedbackRequest   HandlerID = "feedback_request"
)

// Emission is a one-shot schedule registered by a handler.
type Emission struct {
	Event       EventType
	Suffix      string
	Offset      time.Duration
	Target      HandlerID
	Description string
}

// ScheduleName is the scheduler-side name for this emission of an order.
func (e Emission) ScheduleName(orderID string) string {
	return orderID + "_" + e.Suffix
}

func (e Emission) DescriptionFor(orderID string) string {
	return fmt.Sprintf(e.Description, orderID)
}

type Node struct {
	Event   EventType
	Handler HandlerID
	Emits   []Emission
}

const (
	ConfirmationOffset = 3 * time.Minute
	PickupOffset       = 6 * time.Minute
	ArrivalOffset      = 9 * time.Minute
	FeedbackOffset     = 12 * time.Minute
)

var Graph = []Node{
	{
		Event:   EventOrderPlaced,
		Handler: HandlerOrderPlaced,
		Emits: []Emission{
			{
				Event:       EventReadyConfirmation,
				Suffix:      "ready_confirmation",
				Offset:      ConfirmationOffset,
				Target:      HandlerRestaurantCheckIn,
				Description: "Schedule to send the restaurant a check-in about order #%s status",
			},
			{
				Event:       EventOrderMoving,
				Suffix:      "order_moving",
				Offset:      PickupOffset,
				Target:      HandlerOrderMoving,
				Description: "Schedule to send the customer a notification about #%s status",
			},
			{
				Event:       EventOrderDelivered,
				Suffix:      "order_delivered",
				Offset:      ArrivalOffset,
				Target:      HandlerOrderDelivered,
				Description: "Schedule to send the involved parties a notification about #%s being delivered",
			},
			{
				Event:       EventFeedbackRequest,
				Suffix:      "feedback_request",
				Offset:      FeedbackOffset,
				Target:      HandlerFeedbackRequest,
				Description: "Schedule to send the customer a reminder to give feedback on #%s",
			},
		},
	},
	{Event: EventReadyConfirmation, Handler: HandlerRestaurantCheckIn},
	{Event: EventOrderMoving, Handler: HandlerOrderMoving},
	{Event: EventOrderDelivered, Handler: HandlerOrderDelivered},
	{Event: EventFeedbackRequest, Handler: HandlerFeedbackRequest},
}

func NodeFor(event EventType) (Node, bool) {
	for _, n := range Graph {
		if n.Event == event {
			return n, true
		}
	}
	return Node{}, false
}

// EmissionsOf returns what the handler schedules, in firing order.
func EmissionsOf(handler HandlerID) []Emission {
	for _, n := range Graph {
		if n.Handler == handler {
			return n.Emits
		}
	}
	return nil
}

// Events lists every event type in the graph; the worker subscribes to one
// topic per event.
func Events() []EventType {
	events := make([]EventType, 0, len(Graph))
	for _, n := range Graph {
		events = append(events, n.Event)
	}
	return events
}
