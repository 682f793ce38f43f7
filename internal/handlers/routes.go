package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"church-portal-api/internal/middleware"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

// RegisterIdentityRoutes adds the user pool routes
func RegisterIdentityRoutes(router *lambda.Router, identityService services.IdentityService, logger *logrus.Logger) {
	h := NewIdentityHandler(identityService, logger)

	router.Handle(http.MethodPost, "/signup", h.HandleSignUp)
	router.Handle(http.MethodPost, "/confirm", h.HandleConfirmUser)
	router.Handle(http.MethodPost, "/confirm-email", h.HandleConfirmEmail)
	router.Handle(http.MethodPost, "/confirm-email-resend", h.HandleResendCode)
	router.Handle(http.MethodPost, "/login", h.HandleLogin)
	router.Handle(http.MethodPost, "/forgot-password", h.HandleForgotPassword)
	router.Handle(http.MethodPost, "/confirm-forgot-password", h.HandleConfirmForgotPassword)
	router.Handle(http.MethodGet, "/user", h.HandleGetUser)
	router.Handle(http.MethodPatch, "/user", h.HandleUpdateUser)
	router.Handle(http.MethodDelete, "/user", h.HandleDeleteUser)
}

// RegisterContactRoutes adds the contact form route
func RegisterContactRoutes(router *lambda.Router, emailService services.EmailService, logger *logrus.Logger) {
	h := NewContactHandler(emailService, logger)
	router.Handle(http.MethodPost, "/contact-us", h.HandleContactUs)
}

// RegisterPaymentRoutes adds the PayPal order and subscription routes
func RegisterPaymentRoutes(router *lambda.Router, paymentService services.PaymentService, logger *logrus.Logger) {
	h := NewPaymentHandler(paymentService, logger)
	router.Handle(http.MethodPost, "/create-paypal-order", h.HandleCreateOrder)
	router.Handle(http.MethodPost, "/create-paypal-subscription", h.HandleCreateSubscription)
}

// RegisterWebhookRoutes adds the PayPal webhook receiver
func RegisterWebhookRoutes(router *lambda.Router, webhookService services.WebhookService, logger *logrus.Logger) {
	h := NewWebhookHandler(webhookService, logger)
	router.Handle(http.MethodPost, "/paypal-webhook", h.HandleWebhook)
}

// RegisterDirectoryRoutes adds the /users routes
func RegisterDirectoryRoutes(router *lambda.Router, directoryService services.DirectoryService, logger *logrus.Logger) {
	h := NewDirectoryHandler(directoryService, logger)

	router.Handle(http.MethodGet, "/users", h.HandleListUsers)
	router.Handle(http.MethodPost, "/users", h.HandleCreateUser)
	router.Handle(http.MethodGet, "/users/{userId}", h.HandleGetUser)
	router.Handle(http.MethodPut, "/users/{userId}", h.HandleUpdateUser)
	router.Handle(http.MethodDelete, "/users/{userId}", h.HandleDeleteUser)
}

// RegisterAdminRoutes adds the /admins routes
func RegisterAdminRoutes(router *lambda.Router, adminService services.AdminService, logger *logrus.Logger) {
	h := NewAdminHandler(adminService, logger)

	router.Handle(http.MethodGet, "/admins", h.HandleListAdmins)
	router.Handle(http.MethodPost, "/admins", h.HandleCreateAdmin)
	router.Handle(http.MethodPost, "/admins/login", h.HandleLogin)
	router.Handle(http.MethodGet, "/admins/{id}", h.HandleGetAdmin)
	router.Handle(http.MethodPut, "/admins/{id}", h.HandleUpdateAdmin)
	router.Handle(http.MethodDelete, "/admins/{id}", h.HandleDeleteAdmin)
}

// ServerConfig holds the dev server middleware limits
type ServerConfig struct {
	RateLimit    float64
	RateBurst    int
	MaxBodyBytes int64
}

// SetupMiddleware configures global middleware
func SetupMiddleware(engine *gin.Engine, config ServerConfig, logger *logrus.Logger) {
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.SecurityHeaders())
	engine.Use(middleware.RequestSizeLimit(config.MaxBodyBytes))
	engine.Use(middleware.RateLimiter(config.RateLimit, config.RateBurst, logger))
	engine.Use(middleware.StructuredLogger(logger))
}

// SetupRoutes mounts the health check and swagger UI, and forwards every
// other request to router
func SetupRoutes(engine *gin.Engine, router *lambda.Router) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "church-portal-api",
		})
	})

	engine.NoRoute(router.GinHandler())
}
