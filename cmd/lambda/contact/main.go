package main

import (
	"church-portal-api/internal/handlers"
	"church-portal-api/pkg/lambda"
	"church-portal-api/pkg/server"
)

func main() {
	lambda.Start(func(container *server.Container, router *lambda.Router) error {
		emailService, err := container.EmailService()
		if err != nil {
			return err
		}
		handlers.RegisterContactRoutes(router, emailService, container.Logger)
		return nil
	})
}
