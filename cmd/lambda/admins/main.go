package main

import (
	"church-portal-api/internal/handlers"
	"church-portal-api/pkg/lambda"
	"church-portal-api/pkg/server"
)

func main() {
	lambda.Start(func(container *server.Container, router *lambda.Router) error {
		adminService, err := container.AdminService()
		if err != nil {
			return err
		}
		handlers.RegisterAdminRoutes(router, adminService, container.Logger)
		router.NotFound(handlers.HandleUnsupported)
		return nil
	})
}
