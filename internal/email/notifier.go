package email

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/telemetry"
)

var tracer = otel.Tracer("email/notifier")

// Notifier is the single render-then-send path used by every handler.
type Notifier struct {
	renderer    *Renderer
	sender      Sender
	instruments *telemetry.Instruments
	logger      *slog.Logger
}

func NewNotifier(renderer *Renderer, sender Sender, instruments *telemetry.Instruments, logger *slog.Logger) *Notifier {
	return &Notifier{
		renderer:    renderer,
		sender:      sender,
		instruments: instruments,
		logger:      logger,
	}
}

func (n *Notifier) RenderAndSend(ctx context.Context, tmpl Template, fields map[string]string, from string, to ...string) error {
	ctx, span := tracer.Start(ctx, "email.send "+string(tmpl),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("email.template", string(tmpl)),
			attribute.Int("email.recipients", len(to)),
		),
	)
	defer span.End()

	subject, body, err := n.renderer.Render(tmpl, fields)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("render %s: %w", tmpl, err)
	}

	err = n.sender.Send(ctx, Message{
		From:     from,
		To:       to,
		Subject:  subject,
		HTMLBody: body,
		Tag:      string(tmpl),
	})
	n.instruments.RecordEmail(ctx, string(tmpl), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		n.logger.ErrorContext(ctx, "failed to send email", "template", tmpl, "to", to, "error", err)
		return fmt.Errorf("send %s: %w", tmpl, err)
	}

	n.logger.InfoContext(ctx, "email sent", "template", tmpl, "to", to, "subject", subject)
	return nil
}
