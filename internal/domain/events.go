package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidPayload = errors.New("invalid payload")

type RestaurantCheckInPayload struct {
	OrderID         string `json:"order_id" validate:"required"`
	FromEmail       string `json:"from_email" validate:"required"`
	RestaurantEmail string `json:"restaurant_email" validate:"required"`
	RestaurantName  string `json:"restaurant_name" validate:"required"`
	ExpectedPickup  string `json:"expected_pickup" validate:"required"`
}

type OrderMovingPayload struct {
	OrderID          string `json:"order_id" validate:"required"`
	FromEmail        string `json:"from_email" validate:"required"`
	ClientEmail      string `json:"client_email" validate:"required"`
	ClientName       string `json:"client_name" validate:"required"`
	ExpectedDelivery string `json:"expected_delivery" validate:"required"`
}

type OrderDeliveredPayload struct {
	OrderID     string `json:"order_id" validate:"required"`
	FromEmail   string `json:"from_email" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required"`
}

type FeedbackRequestPayload struct {
	OrderID     string `json:"order_id" validate:"required"`
	FromEmail   string `json:"from_email" validate:"required"`
	ClientEmail string `json:"client_email" validate:"required"`
	ClientName  string `json:"client_name" validate:"required"`
}

// Ack is returned by the order intake regardless of downstream outcome.
type Ack struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func OrderReceivedAck() Ack {
	return Ack{
		StatusCode: 200,
		Message:    "Order received successfully, will start processing.",
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode unmarshals data into out and checks that every required key was present.
func Decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}
