// Package bootstrap builds the process-lifetime dependencies shared by every
// entry point: configuration, logger, tracing and the email notifier.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/config"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/email"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/lifecycle"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/notifications"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/telemetry"
)

const (
	ServiceVersion = "0.1.0"
	emailTimeout   = 10 * time.Second
)

type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Instruments *telemetry.Instruments
	Notifier    *email.Notifier

	shutdown []func(context.Context) error
}

// Load reads and validates configuration and wires logging, tracing and
// the Postmark-backed notifier for service.
func Load(ctx context.Context, service string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := telemetry.NewLogger(os.Stdout, cfg.LogLevel).With("service", service)

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, service, ServiceVersion)
	if err != nil {
		return nil, fmt.Errorf("initialize tracer: %w", err)
	}

	inst, err := telemetry.NewInstruments(nil)
	if err != nil {
		return nil, fmt.Errorf("create instruments: %w", err)
	}

	app := &App{
		Config:      cfg,
		Logger:      logger,
		Instruments: inst,
		shutdown:    []func(context.Context) error{shutdownTracer},
	}
	if err := app.buildNotifier(); err != nil {
		return nil, err
	}
	return app, nil
}

// UseInstruments replaces the instruments, e.g. once a meter provider with
// a /metrics endpoint is installed, and rebuilds the notifier with them.
func (a *App) UseInstruments(inst *telemetry.Instruments) error {
	a.Instruments = inst
	return a.buildNotifier()
}

func (a *App) buildNotifier() error {
	renderer, err := email.NewRenderer()
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}

	client := &http.Client{
		Timeout:   emailTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	sender := email.NewPostmarkClient(a.Config.Postmark.URL, a.Config.Postmark.Token, client)

	a.Notifier = email.NewNotifier(renderer, sender, a.Instruments, a.Logger)
	return nil
}

// OnShutdown registers fn to run, in reverse order, from Shutdown.
func (a *App) OnShutdown(fn func(context.Context) error) {
	a.shutdown = append(a.shutdown, fn)
}

// Flush exports spans buffered by the batch processor. Lambda handlers call
// it before returning since the sandbox may be frozen right after.
func (a *App) Flush(ctx context.Context) {
	tp, ok := otel.GetTracerProvider().(interface {
		ForceFlush(context.Context) error
	})
	if !ok {
		return
	}
	if err := tp.ForceFlush(ctx); err != nil {
		a.Logger.WarnContext(ctx, "failed to flush spans", "error", err)
	}
}

func (a *App) Shutdown(ctx context.Context) {
	for i := len(a.shutdown) - 1; i >= 0; i-- {
		if err := a.shutdown[i](ctx); err != nil {
			a.Logger.Error("shutdown error", "error", err)
		}
	}
}

// Settings builds the handler settings with the given scheduler targets.
func (a *App) Settings(targets map[lifecycle.HandlerID]string) (notifications.Settings, error) {
	loc, err := a.Config.Location()
	if err != nil {
		return notifications.Settings{}, err
	}
	display, err := a.Config.DisplayLocation()
	if err != nil {
		return notifications.Settings{}, err
	}

	return notifications.Settings{
		Sender:            a.Config.Sender(),
		RestaurantEmail:   a.Config.Email.Restaurant,
		DeliveryEmail:     a.Config.Email.Delivery,
		RestaurantName:    a.Config.Restaurant.Name,
		RestaurantAddress: a.Config.Restaurant.Address,
		CourierName:       a.Config.Restaurant.CourierName,
		Location:          loc,
		DisplayLocation:   display,
		Targets:           targets,
	}, nil
}

// FunctionTargets maps each follow-up handler to its configured function ARN.
func FunctionTargets(cfg *config.Config) map[lifecycle.HandlerID]string {
	targets := make(map[lifecycle.HandlerID]string, len(cfg.Scheduler.Targets))
	for key, arn := range cfg.Scheduler.Targets {
		targets[lifecycle.HandlerID(key)] = arn
	}
	return targets
}

// TopicTargets maps each follow-up handler to the topic of the event it
// consumes.
func TopicTargets() map[lifecycle.HandlerID]string {
	targets := make(map[lifecycle.HandlerID]string)
	for _, n := range lifecycle.Graph {
		if n.Event != lifecycle.EventOrderPlaced {
			targets[n.Handler] = string(n.Event)
		}
	}
	return targets
}
