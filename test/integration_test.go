//go:build integration

package test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/email"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/gateway"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/lifecycle"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/mailsink"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/messaging"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/notifications"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/schedule"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/worker"
)

const orderBody = `{"nombre":"Ana","apellido":"Ruiz","correo":"ana@x.com","pedido":"Tacos","total":"50.00","direccion":"Calle 1"}`

func TestOrderLifecycleOverKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	var topics []string
	for _, event := range lifecycle.Events() {
		topics = append(topics, string(event))
	}
	CreateTopics(ctx, t, brokers, topics...)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sink := mailsink.NewHandler("test-token", logger)
	mux := http.NewServeMux()
	sink.Routes(mux)
	sinkServer := httptest.NewServer(mux)
	defer sinkServer.Close()

	renderer, err := email.NewRenderer()
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}
	notifier := email.NewNotifier(renderer,
		email.NewPostmarkClient(sinkServer.URL, "test-token", sinkServer.Client()), nil, logger)

	producer := messaging.NewProducer(brokers)
	defer func() { _ = producer.Close() }()

	targets := make(map[lifecycle.HandlerID]string)
	for _, em := range lifecycle.EmissionsOf(lifecycle.HandlerOrderPlaced) {
		targets[em.Target] = string(em.Event)
	}

	// Orders placed 15 minutes ago: every follow-up is already due.
	handlers := notifications.New(notifications.Settings{
		Sender:            "AjoloEats <pedidos@ajoloeats.mx>",
		RestaurantEmail:   "cocina@ajolote.mx",
		DeliveryEmail:     "reparto@ajoloeats.mx",
		RestaurantName:    "El Ajolote Frito",
		RestaurantAddress: "Polanco",
		CourierName:       "Juan",
		Location:          time.UTC,
		DisplayLocation:   time.UTC,
		Targets:           targets,
	}, notifier, schedule.NewTopic(producer, nil, logger), logger,
		notifications.WithClock(func() time.Time { return time.Now().Add(-15 * time.Minute) }))

	var consumers []worker.Consumer
	for _, topic := range topics {
		c := messaging.NewConsumer(brokers, topic, "integration-test", messaging.WithStartOffset(kafka.FirstOffset))
		defer func() { _ = c.Close() }()
		consumers = append(consumers, c)
	}

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	done := make(chan error, 1)
	go func() {
		h := worker.NewNotificationHandler(notifications.NewDispatcher(handlers), logger)
		done <- worker.Run(workerCtx, consumers, h.Handle)
	}()

	intake := gateway.NewHandler(producer, logger)
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(orderBody))
	req.Header.Set("X-Request-Id", "c6af9ac6-7b61-11e6-9a41-93e8deadbeef")
	rec := httptest.NewRecorder()
	intake.HandleCreateOrder(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	const wantEmails = 7
	deadline := time.Now().Add(2 * time.Minute)
	for len(sink.Received()) < wantEmails && time.Now().Before(deadline) {
		time.Sleep(500 * time.Millisecond)
	}

	received := sink.Received()
	if len(received) != wantEmails {
		t.Fatalf("expected %d emails, got %d", wantEmails, len(received))
	}

	subjects := make(map[string]bool)
	for _, m := range received {
		subjects[m.Subject] = true
	}
	for _, want := range []string{
		"Nuevo Pedido - 69676111",
		"Nueva Entrega Disponible",
		"AjoloEats - Confirmación de pedido",
		"Recordatorio Pedido - 69676111",
		"¡Tu pedido #69676111 va en camino!",
		"El pedido #69676111 ha sido entregado",
		"¿Cómo te fue con el pedido #69676111?",
	} {
		if !subjects[want] {
			t.Errorf("missing email %q", want)
		}
	}

	stopWorker()
	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		t.Errorf("worker stopped with error: %v", err)
	}
}
