package domain

import (
	"strings"
	"unicode"
)

const OrderIDLength = 8

// OrderEvent is the body posted by the order-submission form.
type OrderEvent struct {
	Name            string `json:"nombre" validate:"required"`
	LastName        string `json:"apellido" validate:"required"`
	Email           string `json:"correo" validate:"required"`
	Order           string `json:"pedido" validate:"required"`
	Total           string `json:"total" validate:"required"`
	DeliveryAddress string `json:"direccion" validate:"required"`
}

// OrderIDFromRequestID keeps the digits of a request id, truncated to
// OrderIDLength. Shorter results are left-padded with zeros.
func OrderIDFromRequestID(requestID string) string {
	var b strings.Builder
	for _, r := range requestID {
		if b.Len() == OrderIDLength {
			break
		}
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			b.WriteRune(r)
		}
	}

	id := b.String()
	if len(id) < OrderIDLength {
		id = strings.Repeat("0", OrderIDLength-len(id)) + id
	}
	return id
}
