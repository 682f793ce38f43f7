package main

import (
	"church-portal-api/internal/handlers"
	"church-portal-api/pkg/lambda"
	"church-portal-api/pkg/server"
)

func main() {
	lambda.Start(func(container *server.Container, router *lambda.Router) error {
		directoryService, err := container.DirectoryService()
		if err != nil {
			return err
		}
		handlers.RegisterDirectoryRoutes(router, directoryService, container.Logger)
		router.NotFound(handlers.HandleUnsupported)
		return nil
	})
}
