package email

import (
	"errors"
	"strings"
	"testing"
)

func sampleFields() map[string]string {
	return map[string]string{
		FieldOrderID:           "12345678",
		FieldOrder:             "Tacos & Horchata",
		FieldTotal:             "50.00",
		FieldRestaurantName:    "El Ajolote Frito",
		FieldRestaurantAddress: "Periférico Blvrd Manuel Ávila Camacho 261, Polanco",
		FieldCourierName:       "Juan",
		FieldClientName:        "Ana",
		FieldDeliveryAddress:   "Calle 1",
		FieldDistance:          "7Km",
		FieldExpectedPickup:    "10:06 AM",
		FieldExpectedDelivery:  "10:09 AM",
	}
}

func TestRenderer_Render(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	subjects := map[Template]string{
		TemplateRestaurantNewOrder:        "Nuevo Pedido - 12345678",
		TemplateCourierNewDelivery:        "Nueva Entrega Disponible",
		TemplateCustomerOrderConfirmation: "AjoloEats - Confirmación de pedido",
		TemplateRestaurantCheckIn:         "Recordatorio Pedido - 12345678",
		TemplateOrderMoving:               "¡Tu pedido #12345678 va en camino!",
		TemplateOrderDelivered:            "El pedido #12345678 ha sido entregado",
		TemplateFeedbackRequest:           "¿Cómo te fue con el pedido #12345678?",
	}

	for tmpl, wantSubject := range subjects {
		t.Run(string(tmpl), func(t *testing.T) {
			subject, body, err := r.Render(tmpl, sampleFields())
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if subject != wantSubject {
				t.Errorf("expected subject %q, got %q", wantSubject, subject)
			}
			if !strings.Contains(body, "<title>"+wantSubject+"</title>") {
				t.Errorf("expected title to equal subject, body: %s", body)
			}
			if !strings.HasPrefix(body, "<!DOCTYPE html>") {
				t.Errorf("expected html document, got %q", body[:min(len(body), 40)])
			}
		})
	}

	t.Run("fields appear in declared order", func(t *testing.T) {
		fields := sampleFields()
		_, body, err := r.Render(TemplateCourierNewDelivery, fields)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}

		declared, _ := Fields(TemplateCourierNewDelivery)
		last := -1
		for _, f := range declared {
			idx := strings.Index(body, fields[f])
			if idx < 0 {
				t.Fatalf("field %s (%q) missing from body", f, fields[f])
			}
			if idx < last {
				t.Errorf("field %s rendered out of order", f)
			}
			last = idx
		}
	})

	t.Run("customer confirmation shows total and arrival", func(t *testing.T) {
		_, body, err := r.Render(TemplateCustomerOrderConfirmation, sampleFields())
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		for _, want := range []string{"$50.00", "10:09 AM", "#12345678", "¡Que disfrutes tu comida!"} {
			if !strings.Contains(body, want) {
				t.Errorf("expected %q in body", want)
			}
		}
		if strings.Contains(body, "no respondas") {
			t.Error("customer confirmation should replace the default footer")
		}
	})

	t.Run("values are html escaped", func(t *testing.T) {
		_, body, err := r.Render(TemplateRestaurantNewOrder, sampleFields())
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		if !strings.Contains(body, "Tacos &amp; Horchata") {
			t.Errorf("expected escaped order text, body: %s", body)
		}
	})

	t.Run("missing field", func(t *testing.T) {
		fields := sampleFields()
		delete(fields, FieldExpectedPickup)

		_, _, err := r.Render(TemplateRestaurantCheckIn, fields)
		if !errors.Is(err, ErrMissingField) {
			t.Fatalf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, err := r.Render("nope", sampleFields())
		if !errors.Is(err, ErrUnknownTemplate) {
			t.Fatalf("expected ErrUnknownTemplate, got %v", err)
		}
		if _, err := Fields("nope"); !errors.Is(err, ErrUnknownTemplate) {
			t.Fatalf("expected ErrUnknownTemplate, got %v", err)
		}
	})
}
