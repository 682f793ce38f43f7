package main

import (
	"church-portal-api/internal/handlers"
	"church-portal-api/pkg/lambda"
	"church-portal-api/pkg/server"
)

func main() {
	lambda.Start(func(container *server.Container, router *lambda.Router) error {
		paymentService, err := container.PaymentService()
		if err != nil {
			return err
		}
		handlers.RegisterPaymentRoutes(router, paymentService, container.Logger)
		return nil
	})
}
