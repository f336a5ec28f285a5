package domain

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestOrderIDFromRequestID(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
		want      string
	}{
		{"lambda uuid", "c6af9ac6-7b61-11e6-9a41-93e8deadbeef", "69676111"},
		{"exactly eight digits", "a1b2c3d4e5f6g7h8", "12345678"},
		{"long numeric", "1234567890123", "12345678"},
		{"short is left padded", "abc-123", "00000123"},
		{"no digits", "abcdef", "00000000"},
		{"non ascii digits ignored", "١٢٣456", "00000456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderIDFromRequestID(tt.requestID)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
			if len(got) != OrderIDLength {
				t.Errorf("expected length %d, got %d", OrderIDLength, len(got))
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("decodes order event", func(t *testing.T) {
		var ev OrderEvent
		body := `{"nombre":"Ana","apellido":"Ruiz","correo":"ana@x.com","pedido":"Tacos","total":"50.00","direccion":"Calle 1"}`
		if err := Decode([]byte(body), &ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ev.Name != "Ana" || ev.Total != "50.00" || ev.DeliveryAddress != "Calle 1" {
			t.Errorf("unexpected event: %+v", ev)
		}
	})

	t.Run("missing key fails", func(t *testing.T) {
		var ev OrderEvent
		body := `{"nombre":"Ana","apellido":"Ruiz","correo":"ana@x.com","pedido":"Tacos","total":"50.00"}`
		err := Decode([]byte(body), &ev)
		if !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}

		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("expected validation errors, got %T", err)
		}
		if verrs[0].Field() != "DeliveryAddress" {
			t.Errorf("expected DeliveryAddress, got %s", verrs[0].Field())
		}
	})

	t.Run("malformed json fails", func(t *testing.T) {
		var p OrderDeliveredPayload
		if err := Decode([]byte(`{"order_id":`), &p); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
	})

	t.Run("feedback payload requires client_name", func(t *testing.T) {
		var p FeedbackRequestPayload
		body := `{"order_id":"12345678","from_email":"a@b.com","client_email":"c@d.com","customer_name":"Ana"}`
		if err := Decode([]byte(body), &p); !errors.Is(err, ErrInvalidPayload) {
			t.Fatalf("expected ErrInvalidPayload, got %v", err)
		}
	})
}
