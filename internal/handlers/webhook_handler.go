package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/paypal"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

var webhookErrors = errorTable{
	operation: "paypal_webhook",
	rules: combine(
		[]errorRule{
			{match: isSentinel(services.ErrInvalidEvent), status: http.StatusBadRequest, errorType: "InvalidRequestBody", message: "Invalid JSON in request body"},
			{match: isSentinel(services.ErrInvalidSignature), status: http.StatusBadRequest, errorType: "InvalidSignature", message: "Invalid webhook signature."},
			{match: isSentinel(services.ErrSpreadsheet), status: http.StatusInternalServerError, errorType: "SpreadsheetError", message: "An error occurred while processing the payment."},
		},
		paypalRules,
	),
}

// WebhookHandler receives PayPal webhook notifications
type WebhookHandler struct {
	webhookService services.WebhookService
	logger         *logrus.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService services.WebhookService, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService, logger: logger}
}

// @Summary Receive a PayPal webhook event
// @Description Completed sales are appended to the payments spreadsheet
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {object} lambda.MessageBody
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /paypal-webhook [post]
func (h *WebhookHandler) HandleWebhook(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	headers := paypal.WebhookHeaders{
		AuthAlgo:         req.Header("PAYPAL-AUTH-ALGO"),
		CertURL:          req.Header("PAYPAL-CERT-URL"),
		TransmissionID:   req.Header("PAYPAL-TRANSMISSION-ID"),
		TransmissionSig:  req.Header("PAYPAL-TRANSMISSION-SIG"),
		TransmissionTime: req.Header("PAYPAL-TRANSMISSION-TIME"),
	}

	result, err := h.webhookService.HandleEvent(ctx, headers, req.Body)
	if err != nil {
		return dispatch(h.logger, webhookErrors, err), nil
	}

	if !result.Processed {
		h.logger.WithField("event_type", result.EventType).Info("Ignoring webhook event")
		return lambda.Message(http.StatusOK, "Event type not processed."), nil
	}
	return lambda.Message(http.StatusOK, "Payment processed and data stored successfully."), nil
}
