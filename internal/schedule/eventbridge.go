package schedule

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/scheduler"
	"github.com/aws/aws-sdk-go-v2/service/scheduler/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/telemetry"
)

var tracer = otel.Tracer("schedule/eventbridge")

// CreateScheduleAPI is the part of *scheduler.Client used here.
type CreateScheduleAPI interface {
	CreateSchedule(ctx context.Context, params *scheduler.CreateScheduleInput, optFns ...func(*scheduler.Options)) (*scheduler.CreateScheduleOutput, error)
}

type EventBridgeOptions struct {
	Group   string
	RoleARN string
	// ExpressionTimezone is sent as ScheduleExpressionTimezone; empty sends none
	// and the scheduler reads the expression as UTC.
	ExpressionTimezone string
}

type EventBridge struct {
	api         CreateScheduleAPI
	opts        EventBridgeOptions
	instruments *telemetry.Instruments
	logger      *slog.Logger
}

func NewEventBridge(api CreateScheduleAPI, opts EventBridgeOptions, instruments *telemetry.Instruments, logger *slog.Logger) *EventBridge {
	return &EventBridge{
		api:         api,
		opts:        opts,
		instruments: instruments,
		logger:      logger,
	}
}

func (e *EventBridge) CreateOneShot(ctx context.Context, n ScheduledNotification) error {
	if err := n.validate(); err != nil {
		return err
	}

	expression := AtExpression(n.FireAt)

	ctx, span := tracer.Start(ctx, "schedule.create "+n.Purpose,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("schedule.name", n.Name),
			attribute.String("schedule.expression", expression),
			attribute.String("schedule.target", n.Target),
		),
	)
	defer span.End()

	_, err := e.api.CreateSchedule(ctx, e.input(n, expression))
	e.instruments.RecordSchedule(ctx, n.Purpose, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.ErrorContext(ctx, "failed to create schedule", "schedule", n.Name, "fire_at", expression, "error", err)
		return fmt.Errorf("create schedule %s: %w", n.Name, err)
	}

	e.logger.InfoContext(ctx, "schedule created", "schedule", n.Name, "fire_at", expression, "target", n.Target)
	return nil
}

func (e *EventBridge) input(n ScheduledNotification, expression string) *scheduler.CreateScheduleInput {
	in := &scheduler.CreateScheduleInput{
		Name:                  aws.String(n.Name),
		ScheduleExpression:    aws.String(expression),
		FlexibleTimeWindow:    &types.FlexibleTimeWindow{Mode: types.FlexibleTimeWindowModeOff},
		ActionAfterCompletion: types.ActionAfterCompletionDelete,
		State:                 types.ScheduleStateEnabled,
		Target: &types.Target{
			Arn:     aws.String(n.Target),
			RoleArn: aws.String(e.opts.RoleARN),
			Input:   aws.String(string(n.Payload)),
		},
	}
	if n.Description != "" {
		in.Description = aws.String(n.Description)
	}
	if e.opts.Group != "" {
		in.GroupName = aws.String(e.opts.Group)
	}
	if e.opts.ExpressionTimezone != "" {
		in.ScheduleExpressionTimezone = aws.String(e.opts.ExpressionTimezone)
	}
	return in
}
