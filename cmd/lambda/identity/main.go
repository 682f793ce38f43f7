package main

import (
	"church-portal-api/internal/handlers"
	"church-portal-api/pkg/lambda"
	"church-portal-api/pkg/server"
)

func main() {
	lambda.Start(func(container *server.Container, router *lambda.Router) error {
		identityService, err := container.IdentityService()
		if err != nil {
			return err
		}
		handlers.RegisterIdentityRoutes(router, identityService, container.Logger)
		return nil
	})
}
