package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/bootstrap"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/notifications"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.Load(ctx, "feedback-request")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start:", err)
		os.Exit(1)
	}

	settings, err := app.Settings(nil)
	if err != nil {
		app.Logger.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	handlers := notifications.New(settings, app.Notifier, nil, app.Logger)

	lambda.StartWithOptions(func(ctx context.Context, payload json.RawMessage) error {
		defer app.Flush(ctx)
		return handlers.FeedbackRequest(ctx, payload)
	}, lambda.WithEnableSIGTERM(func() {
		app.Shutdown(context.Background())
	}))
}
