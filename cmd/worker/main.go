package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/bootstrap"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/lifecycle"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/messaging"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/notifications"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/schedule"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/telemetry"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/worker"
)

const consumerGroup = "notification-worker"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.Load(ctx, "notification-worker")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start:", err)
		os.Exit(1)
	}
	defer app.Shutdown(context.Background())
	logger := app.Logger

	if err := app.Config.ValidateWorker(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	metricsHandler, shutdownMeter, inst, err := telemetry.InitMeterProvider("notification-worker", bootstrap.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	app.OnShutdown(shutdownMeter)
	if err := app.UseInstruments(inst); err != nil {
		logger.Error("failed to build notifier", "error", err)
		os.Exit(1)
	}
	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime metrics", "error", err)
		os.Exit(1)
	}

	brokers := app.Config.KafkaBrokers

	producer := messaging.NewProducer(brokers)
	defer func() { _ = producer.Close() }()

	settings, err := app.Settings(bootstrap.TopicTargets())
	if err != nil {
		logger.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	handlers := notifications.New(settings, app.Notifier, schedule.NewTopic(producer, inst, logger), logger)
	handler := worker.NewNotificationHandler(notifications.NewDispatcher(handlers), logger)

	var consumers []worker.Consumer
	for _, event := range lifecycle.Events() {
		c := messaging.NewConsumer(brokers, string(event), consumerGroup)
		defer func() { _ = c.Close() }()
		consumers = append(consumers, c)
	}

	port := app.Config.Port
	if port == "" {
		port = "9464"
	}
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	metricsServer := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting notification worker", "brokers", brokers, "topics", lifecycle.Events())

	err = worker.Run(ctx, consumers, handler.Handle)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = metricsServer.Shutdown(shutdownCtx)

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer error", "error", err)
		os.Exit(1)
	}
	logger.Info("consumer stopped")
}
