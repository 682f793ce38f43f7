package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

var (
	orderErrors = errorTable{operation: "create_order", rules: paypalRules}

	subscriptionErrors = errorTable{operation: "create_subscription", rules: combine(
		[]errorRule{
			{match: isStage(services.StageProduct), status: http.StatusInternalServerError, errorType: "ProductCreationError", message: "Failed to create PayPal product"},
			{match: isStage(services.StagePlan), status: http.StatusInternalServerError, errorType: "PlanCreationError", message: "Failed to create PayPal billing plan"},
			{match: isStage(services.StageSubscription), status: http.StatusInternalServerError, errorType: "IncompleteResponse", message: "Incomplete response from PayPal"},
		},
		paypalRules,
	)}
)

// PaymentHandler handles PayPal order and subscription routes
type PaymentHandler struct {
	paymentService services.PaymentService
	logger         *logrus.Logger
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService services.PaymentService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, logger: logger}
}

// OrderResponse is returned when an order is created
type OrderResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Status  string `json:"status"`
}

// SubscriptionResponse is returned when a subscription is created
type SubscriptionResponse struct {
	Message        string `json:"message"`
	SubscriptionID string `json:"subscription_id"`
	ApprovalURL    string `json:"approval_url"`
}

// @Summary Create a one-time PayPal order
// @Tags payments
// @Accept json
// @Produce json
// @Param request body models.OrderRequest true "Order"
// @Success 200 {object} OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Router /create-paypal-order [post]
func (h *PaymentHandler) HandleCreateOrder(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.OrderRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	order, err := h.paymentService.CreateOrder(ctx, &body)
	if err != nil {
		return dispatch(h.logger, orderErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, OrderResponse{
		Message: "PayPal order created successfully.",
		ID:      order.ID,
		Status:  order.Status,
	}), nil
}

// @Summary Create a monthly PayPal subscription
// @Description Creates a product and a monthly plan, then a subscription against the plan. A plan_id skips the first two steps.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body models.SubscriptionRequest true "Subscription"
// @Success 200 {object} SubscriptionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /create-paypal-subscription [post]
func (h *PaymentHandler) HandleCreateSubscription(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.SubscriptionRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	result, err := h.paymentService.CreateSubscription(ctx, &body)
	if err != nil {
		return dispatch(h.logger, subscriptionErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, SubscriptionResponse{
		Message:        "PayPal subscription created successfully.",
		SubscriptionID: result.SubscriptionID,
		ApprovalURL:    result.ApprovalURL,
	}), nil
}
