// Package email renders the order notification templates and hands the
// result to a delivery service.
package email

import (
	"context"
	"errors"
)

var (
	ErrUnknownTemplate = errors.New("unknown email template")
	ErrMissingField    = errors.New("missing template field")
)

type Message struct {
	From     string
	To       []string
	Subject  string
	HTMLBody string
	Tag      string
}

// Sender delivers one rendered message. Implementations must not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Template string

const (
	TemplateRestaurantNewOrder        Template = "restaurant_new_order"
	TemplateCourierNewDelivery        Template = "courier_new_delivery"
	TemplateCustomerOrderConfirmation Template = "customer_order_confirmation"
	TemplateRestaurantCheckIn         Template = "restaurant_check_in"
	TemplateOrderMoving               Template = "order_moving"
	TemplateOrderDelivered            Template = "order_delivered"
	TemplateFeedbackRequest           Template = "feedback_request"
)

// Field names shared by the templates.
const (
	FieldOrderID           = "order_id"
	FieldOrder             = "order"
	FieldTotal             = "total"
	FieldRestaurantName    = "restaurant_name"
	FieldRestaurantAddress = "restaurant_address"
	FieldCourierName       = "courier_name"
	FieldClientName        = "client_name"
	FieldDeliveryAddress   = "delivery_address"
	FieldDistance          = "distance"
	FieldExpectedPickup    = "expected_pickup"
	FieldExpectedDelivery  = "expected_delivery"
)

type definition struct {
	subject string
	fields  []string
}

var registry = map[Template]definition{
	TemplateRestaurantNewOrder: {
		subject: "Nuevo Pedido - {{.order_id}}",
		fields:  []string{FieldRestaurantName, FieldOrderID, FieldOrder, FieldTotal, FieldExpectedPickup},
	},
	TemplateCourierNewDelivery: {
		subject: "Nueva Entrega Disponible",
		fields:  []string{FieldCourierName, FieldRestaurantName, FieldRestaurantAddress, FieldDeliveryAddress, FieldDistance, FieldExpectedPickup},
	},
	TemplateCustomerOrderConfirmation: {
		subject: "AjoloEats - Confirmación de pedido",
		fields:  []string{FieldClientName, FieldOrderID, FieldRestaurantName, FieldTotal, FieldExpectedDelivery, FieldDeliveryAddress},
	},
	TemplateRestaurantCheckIn: {
		subject: "Recordatorio Pedido - {{.order_id}}",
		fields:  []string{FieldRestaurantName, FieldOrderID, FieldExpectedPickup},
	},
	TemplateOrderMoving: {
		subject: "¡Tu pedido #{{.order_id}} va en camino!",
		fields:  []string{FieldOrderID, FieldClientName, FieldExpectedDelivery},
	},
	TemplateOrderDelivered: {
		subject: "El pedido #{{.order_id}} ha sido entregado",
		fields:  []string{FieldOrderID},
	},
	TemplateFeedbackRequest: {
		subject: "¿Cómo te fue con el pedido #{{.order_id}}?",
		fields:  []string{FieldOrderID, FieldClientName},
	},
}

// Fields lists the keys a template requires, in the order they appear.
func Fields(t Template) ([]string, error) {
	def, ok := registry[t]
	if !ok {
		return nil, ErrUnknownTemplate
	}
	return append([]string(nil), def.fields...), nil
}
