package bootstrap

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambdacontext"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/scheduler"
	"github.com/google/uuid"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/config"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/schedule"
)

// NewEventBridgeScheduler creates the EventBridge Scheduler client from the
// default AWS credential chain.
func (a *App) NewEventBridgeScheduler(ctx context.Context) (*schedule.EventBridge, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return schedule.NewEventBridge(scheduler.NewFromConfig(awsCfg), a.EventBridgeOptions(), a.Instruments, a.Logger), nil
}

func (a *App) EventBridgeOptions() schedule.EventBridgeOptions {
	opts := schedule.EventBridgeOptions{
		Group:              a.Config.Scheduler.Group,
		RoleARN:            a.Config.Scheduler.RoleARN,
		ExpressionTimezone: a.Config.Scheduler.ExpressionTimezone,
	}
	if opts.ExpressionTimezone == config.NoExpressionTimezone {
		opts.ExpressionTimezone = ""
		if loc, err := a.Config.Location(); err == nil && loc.String() != "UTC" {
			a.Logger.Warn("schedules are sent without a timezone and will be read as UTC",
				"timezone", a.Config.Timezone)
		}
	}
	return opts
}

// RequestID returns the Lambda request id, or a fresh UUID outside Lambda.
func RequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
