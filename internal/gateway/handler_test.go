package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/domain"
)

const validOrder = `{"nombre":"Ana","apellido":"Ruiz","correo":"ana@x.com","pedido":"Tacos","total":"50.00","direccion":"Calle 1"}`

type published struct {
	topic, key string
	payload    []byte
}

type fakePublisher struct {
	messages []published
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, published{topic, key, payload})
	return nil
}

func newHandler(pub Publisher) *Handler {
	return NewHandler(pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandler_HandleCreateOrder(t *testing.T) {
	t.Run("queues order and acks", func(t *testing.T) {
		pub := &fakePublisher{}
		handler := newHandler(pub)

		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(validOrder))
		rec := httptest.NewRecorder()

		handler.HandleCreateOrder(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		var ack domain.Ack
		if err := json.NewDecoder(rec.Body).Decode(&ack); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if ack != domain.OrderReceivedAck() {
			t.Errorf("unexpected ack: %+v", ack)
		}

		if len(pub.messages) != 1 {
			t.Fatalf("expected 1 message, got %d", len(pub.messages))
		}
		msg := pub.messages[0]
		if msg.topic != "order.placed" {
			t.Errorf("expected topic order.placed, got %s", msg.topic)
		}
		if string(msg.payload) != validOrder {
			t.Errorf("expected body forwarded unchanged, got %s", msg.payload)
		}
		if msg.key == "" || rec.Header().Get("X-Request-Id") != msg.key {
			t.Errorf("expected generated request id echoed, key=%q header=%q", msg.key, rec.Header().Get("X-Request-Id"))
		}
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		pub := &fakePublisher{}
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(validOrder))
		req.Header.Set("X-Request-Id", "c6af9ac6-7b61-11e6-9a41-93e8deadbeef")
		rec := httptest.NewRecorder()

		newHandler(pub).HandleCreateOrder(rec, req)

		if pub.messages[0].key != "c6af9ac6-7b61-11e6-9a41-93e8deadbeef" {
			t.Errorf("unexpected key: %s", pub.messages[0].key)
		}
	})

	t.Run("returns 400 for missing keys", func(t *testing.T) {
		pub := &fakePublisher{}
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"nombre":"Ana"}`))
		rec := httptest.NewRecorder()

		newHandler(pub).HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
		if len(pub.messages) != 0 {
			t.Error("expected nothing published")
		}
	})

	t.Run("returns 400 for malformed json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{`))
		rec := httptest.NewRecorder()

		newHandler(&fakePublisher{}).HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("returns 502 when queue unavailable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(validOrder))
		rec := httptest.NewRecorder()

		newHandler(&fakePublisher{err: errors.New("no brokers")}).HandleCreateOrder(rec, req)

		if rec.Code != http.StatusBadGateway {
			t.Errorf("expected status 502, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "order queue unavailable") {
			t.Errorf("unexpected body: %s", rec.Body.String())
		}
	})
}
