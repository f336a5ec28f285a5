package notifications

import (
	"context"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/domain"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/email"
)

// The follow-up handlers trust the payload as built by OrderPlaced: times
// are already formatted for display and the sender is already complete.

func (h *Handlers) RestaurantCheckIn(ctx context.Context, payload []byte) error {
	var p domain.RestaurantCheckInPayload
	if err := domain.Decode(payload, &p); err != nil {
		return err
	}
	return h.mailer.RenderAndSend(ctx, email.TemplateRestaurantCheckIn, map[string]string{
		email.FieldRestaurantName: p.RestaurantName,
		email.FieldOrderID:        p.OrderID,
		email.FieldExpectedPickup: p.ExpectedPickup,
	}, p.FromEmail, p.RestaurantEmail)
}

func (h *Handlers) OrderMoving(ctx context.Context, payload []byte) error {
	var p domain.OrderMovingPayload
	if err := domain.Decode(payload, &p); err != nil {
		return err
	}
	return h.mailer.RenderAndSend(ctx, email.TemplateOrderMoving, map[string]string{
		email.FieldOrderID:          p.OrderID,
		email.FieldClientName:       p.ClientName,
		email.FieldExpectedDelivery: p.ExpectedDelivery,
	}, p.FromEmail, p.ClientEmail)
}

func (h *Handlers) OrderDelivered(ctx context.Context, payload []byte) error {
	var p domain.OrderDeliveredPayload
	if err := domain.Decode(payload, &p); err != nil {
		return err
	}
	return h.mailer.RenderAndSend(ctx, email.TemplateOrderDelivered, map[string]string{
		email.FieldOrderID: p.OrderID,
	}, p.FromEmail, p.ClientEmail)
}

func (h *Handlers) FeedbackRequest(ctx context.Context, payload []byte) error {
	var p domain.FeedbackRequestPayload
	if err := domain.Decode(payload, &p); err != nil {
		return err
	}
	return h.mailer.RenderAndSend(ctx, email.TemplateFeedbackRequest, map[string]string{
		email.FieldOrderID:    p.OrderID,
		email.FieldClientName: p.ClientName,
	}, p.FromEmail, p.ClientEmail)
}
