package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/config"
	"church-portal-api/internal/handlers"
	"church-portal-api/internal/logging"
	"church-portal-api/pkg/lambda"
	"church-portal-api/pkg/server"
)

func main() {
	ctx := context.Background()

	cfg, err := config.GetOptimizedConfig(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	container, err := server.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Close()

	// Every route group is optional locally; groups without settings are skipped
	router := lambda.NewRouter(logger)
	skip := func(group string, err error) {
		logger.WithError(err).WithField("routes", group).Warn("Routes disabled")
	}
	if svc, err := container.IdentityService(); err != nil {
		skip("identity", err)
	} else {
		handlers.RegisterIdentityRoutes(router, svc, logger)
	}
	if svc, err := container.EmailService(); err != nil {
		skip("contact", err)
	} else {
		handlers.RegisterContactRoutes(router, svc, logger)
	}
	if svc, err := container.PaymentService(); err != nil {
		skip("payments", err)
	} else {
		handlers.RegisterPaymentRoutes(router, svc, logger)
	}
	if svc, err := container.WebhookService(ctx); err != nil {
		skip("webhook", err)
	} else {
		handlers.RegisterWebhookRoutes(router, svc, logger)
	}
	if svc, err := container.DirectoryService(); err != nil {
		skip("directory", err)
	} else {
		handlers.RegisterDirectoryRoutes(router, svc, logger)
	}
	if svc, err := container.AdminService(); err != nil {
		skip("admins", err)
	} else {
		handlers.RegisterAdminRoutes(router, svc, logger)
	}

	if cfg.Environment == "production" || cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	handlers.SetupMiddleware(engine, handlers.ServerConfig{
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
	}, logger)
	handlers.SetupRoutes(engine, router)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	logger.WithField("port", cfg.Port).Info("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}
