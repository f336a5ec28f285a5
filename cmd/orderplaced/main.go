package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/bootstrap"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/domain"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/notifications"
)

var sampleOrder = domain.OrderEvent{
	Name:            "Mariano",
	LastName:        "Rodríguez",
	Email:           "marianox1994@gmail.com",
	Order:           "Pizza Margarita, Coca-Cola regular, Brownie",
	Total:           "148.25",
	DeliveryAddress: "Col. Santa Cruz Buenavista, Puebla",
}

func main() {
	local := flag.Bool("local", false, "process the sample order once instead of starting the Lambda runtime")
	flag.Parse()

	ctx := context.Background()

	app, err := bootstrap.Load(ctx, "order-placed")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start:", err)
		os.Exit(1)
	}
	logger := app.Logger

	if err := app.Config.ValidateOrderPlaced(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	sched, err := app.NewEventBridgeScheduler(ctx)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	settings, err := app.Settings(bootstrap.FunctionTargets(app.Config))
	if err != nil {
		logger.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	handlers := notifications.New(settings, app.Notifier, sched, logger)

	handle := func(ctx context.Context, req events.APIGatewayProxyRequest) (domain.Ack, error) {
		defer app.Flush(ctx)

		body := []byte(req.Body)
		if req.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(req.Body)
			if err != nil {
				return domain.Ack{}, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
			}
			body = decoded
		}
		return handlers.OrderPlaced(ctx, bootstrap.RequestID(ctx), body)
	}

	if *local {
		ack, err := runLocal(ctx, handle)
		app.Shutdown(ctx)
		if err != nil {
			logger.Error("order failed", "error", err)
			os.Exit(1)
		}
		logger.Info("order processed", "status_code", ack.StatusCode, "message", ack.Message)
		return
	}

	lambda.StartWithOptions(handle, lambda.WithEnableSIGTERM(func() {
		app.Shutdown(context.Background())
	}))
}

func runLocal(ctx context.Context, handle func(context.Context, events.APIGatewayProxyRequest) (domain.Ack, error)) (domain.Ack, error) {
	body, err := json.Marshal(sampleOrder)
	if err != nil {
		return domain.Ack{}, fmt.Errorf("encode sample order: %w", err)
	}
	return handle(ctx, events.APIGatewayProxyRequest{Body: string(body)})
}
