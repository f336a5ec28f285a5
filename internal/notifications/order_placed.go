package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/domain"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/email"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/lifecycle"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/schedule"
)

// orderTimes are the instants derived from one snapshot of now.
type orderTimes struct {
	now    time.Time
	pickup time.Time
	arrive time.Time
}

// OrderPlaced handles a new order: it registers every follow-up schedule in
// the lifecycle graph, then notifies the restaurant, the courier and the
// customer. The first failure aborts the rest; nothing already done is undone.
func (h *Handlers) OrderPlaced(ctx context.Context, requestID string, body []byte) (domain.Ack, error) {
	var order domain.OrderEvent
	if err := domain.Decode(body, &order); err != nil {
		return domain.Ack{}, err
	}

	orderID := domain.OrderIDFromRequestID(requestID)
	now := h.now().In(h.settings.Location)
	times := orderTimes{
		now:    now,
		pickup: now.Add(lifecycle.PickupOffset),
		arrive: now.Add(lifecycle.ArrivalOffset),
	}

	logger := h.logger.With("order_id", orderID)
	logger.InfoContext(ctx, "order received", "request_id", requestID, "placed_at", now.Format(time.RFC3339))

	for _, em := range lifecycle.EmissionsOf(lifecycle.HandlerOrderPlaced) {
		n, err := h.scheduledNotification(em, orderID, order, times)
		if err != nil {
			return domain.Ack{}, err
		}
		if err := h.scheduler.CreateOneShot(ctx, n); err != nil {
			return domain.Ack{}, fmt.Errorf("order %s: %w", orderID, err)
		}
	}

	if err := h.notifyRestaurant(ctx, orderID, order, times); err != nil {
		return domain.Ack{}, err
	}
	if err := h.notifyCourier(ctx, order, times); err != nil {
		return domain.Ack{}, err
	}
	if err := h.notifyCustomer(ctx, orderID, order, times); err != nil {
		return domain.Ack{}, err
	}

	logger.InfoContext(ctx, "order notifications dispatched")
	return domain.OrderReceivedAck(), nil
}

func (h *Handlers) scheduledNotification(em lifecycle.Emission, orderID string, order domain.OrderEvent, times orderTimes) (schedule.ScheduledNotification, error) {
	var payload any
	switch em.Target {
	case lifecycle.HandlerRestaurantCheckIn:
		payload = domain.RestaurantCheckInPayload{
			OrderID:         orderID,
			FromEmail:       h.settings.Sender,
			RestaurantEmail: h.settings.RestaurantEmail,
			RestaurantName:  h.settings.RestaurantName,
			ExpectedPickup:  h.display(times.pickup),
		}
	case lifecycle.HandlerOrderMoving:
		payload = domain.OrderMovingPayload{
			OrderID:          orderID,
			FromEmail:        h.settings.Sender,
			ClientEmail:      order.Email,
			ClientName:       order.Name,
			ExpectedDelivery: h.display(times.arrive),
		}
	case lifecycle.HandlerOrderDelivered:
		payload = domain.OrderDeliveredPayload{
			OrderID:     orderID,
			FromEmail:   h.settings.Sender,
			ClientEmail: order.Email,
		}
	case lifecycle.HandlerFeedbackRequest:
		payload = domain.FeedbackRequestPayload{
			OrderID:     orderID,
			FromEmail:   h.settings.Sender,
			ClientEmail: order.Email,
			ClientName:  order.Name,
		}
	default:
		return schedule.ScheduledNotification{}, fmt.Errorf("no payload for schedule target %s", em.Target)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return schedule.ScheduledNotification{}, fmt.Errorf("marshal %s payload: %w", em.Suffix, err)
	}

	return schedule.ScheduledNotification{
		Name:        em.ScheduleName(orderID),
		Description: em.DescriptionFor(orderID),
		FireAt:      times.now.Add(em.Offset),
		Target:      h.settings.Targets[em.Target],
		Payload:     data,
		Purpose:     em.Suffix,
	}, nil
}

func (h *Handlers) notifyRestaurant(ctx context.Context, orderID string, order domain.OrderEvent, times orderTimes) error {
	return h.mailer.RenderAndSend(ctx, email.TemplateRestaurantNewOrder, map[string]string{
		email.FieldRestaurantName: h.settings.RestaurantName,
		email.FieldOrderID:        orderID,
		email.FieldOrder:          order.Order,
		email.FieldTotal:          order.Total,
		email.FieldExpectedPickup: h.display(times.pickup),
	}, h.settings.Sender, h.settings.RestaurantEmail)
}

func (h *Handlers) notifyCourier(ctx context.Context, order domain.OrderEvent, times orderTimes) error {
	return h.mailer.RenderAndSend(ctx, email.TemplateCourierNewDelivery, map[string]string{
		email.FieldCourierName:       h.settings.CourierName,
		email.FieldRestaurantName:    h.settings.RestaurantName,
		email.FieldRestaurantAddress: h.settings.RestaurantAddress,
		email.FieldDeliveryAddress:   order.DeliveryAddress,
		email.FieldDistance:          strconv.Itoa(h.distance()) + "Km",
		email.FieldExpectedPickup:    h.display(times.pickup),
	}, h.settings.Sender, h.settings.DeliveryEmail)
}

func (h *Handlers) notifyCustomer(ctx context.Context, orderID string, order domain.OrderEvent, times orderTimes) error {
	return h.mailer.RenderAndSend(ctx, email.TemplateCustomerOrderConfirmation, map[string]string{
		email.FieldClientName:       order.Name,
		email.FieldOrderID:          orderID,
		email.FieldRestaurantName:   h.settings.RestaurantName,
		email.FieldTotal:            order.Total,
		email.FieldExpectedDelivery: h.display(times.arrive),
		email.FieldDeliveryAddress:  order.DeliveryAddress,
	}, h.settings.Sender, order.Email)
}
