// Package notifications implements the order-placed intake and the four
// follow-up handlers on top of one render-and-send path.
package notifications

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/email"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/lifecycle"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/schedule"
)

// DisplayTimeLayout is how every human-facing time is written (e.g. "10:09 AM").
const DisplayTimeLayout = "03:04 PM"

const maxDistanceKm = 24

type Settings struct {
	// Sender is the full From header, e.g. "AjoloEats <pedidos@ajoloeats.mx>".
	Sender            string
	RestaurantEmail   string
	DeliveryEmail     string
	RestaurantName    string
	RestaurantAddress string
	CourierName       string

	// Location is the execution timezone used for scheduling math.
	Location *time.Location
	// DisplayLocation is used only to format times shown to people.
	DisplayLocation *time.Location

	// Targets maps each follow-up handler to its scheduler target (a
	// function ARN or a topic name).
	Targets map[lifecycle.HandlerID]string
}

// Mailer is satisfied by *email.Notifier.
type Mailer interface {
	RenderAndSend(ctx context.Context, tmpl email.Template, fields map[string]string, from string, to ...string) error
}

type Handlers struct {
	settings  Settings
	mailer    Mailer
	scheduler schedule.Scheduler
	logger    *slog.Logger
	now       func() time.Time
	distance  func() int
}

type Option func(*Handlers)

func WithClock(now func() time.Time) Option {
	return func(h *Handlers) {
		h.now = now
	}
}

// WithDistance replaces the random courier distance draw.
func WithDistance(distance func() int) Option {
	return func(h *Handlers) {
		h.distance = distance
	}
}

func New(settings Settings, mailer Mailer, scheduler schedule.Scheduler, logger *slog.Logger, opts ...Option) *Handlers {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	if settings.DisplayLocation == nil {
		settings.DisplayLocation = settings.Location
	}

	h := &Handlers{
		settings:  settings,
		mailer:    mailer,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
		distance:  randomDistance,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// randomDistance is cosmetic filler for the courier email, in [1, 24].
func randomDistance() int {
	return rand.IntN(maxDistanceKm) + 1
}

func (h *Handlers) display(t time.Time) string {
	return t.In(h.settings.DisplayLocation).Format(DisplayTimeLayout)
}
