package main

import (
	"context"

	"church-portal-api/internal/handlers"
	"church-portal-api/pkg/lambda"
	"church-portal-api/pkg/server"
)

func main() {
	lambda.Start(func(container *server.Container, router *lambda.Router) error {
		webhookService, err := container.WebhookService(context.Background())
		if err != nil {
			return err
		}
		handlers.RegisterWebhookRoutes(router, webhookService, container.Logger)
		return nil
	})
}
