package handlers

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

var contactErrors = errorTable{
	operation: "contact_us",
	rules: []errorRule{
		validationRule,
		{match: isErr[*types.MessageRejected], status: http.StatusBadRequest, errorType: "MessageRejected", message: "The message was rejected. Ensure the email address is valid."},
		{match: isErr[*types.MailFromDomainNotVerifiedException], status: http.StatusBadRequest, errorType: "EmailNotVerified", message: "The sender email address is not verified."},
		{match: isErr[*types.ConfigurationSetDoesNotExistException], status: http.StatusInternalServerError, errorType: "ConfigurationError", message: "Email configuration error. Please contact support."},
	},
	fallback: errorRule{status: http.StatusInternalServerError, errorType: "InternalError", message: "An unexpected error occurred while sending your message. Please try again later."},
}

// ContactHandler handles contact form submissions
type ContactHandler struct {
	emailService services.EmailService
	logger       *logrus.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(emailService services.EmailService, logger *logrus.Logger) *ContactHandler {
	return &ContactHandler{emailService: emailService, logger: logger}
}

// ContactResponse is returned once the message is accepted for delivery
type ContactResponse struct {
	Message   string `json:"message"`
	MessageID string `json:"message_id"`
}

// @Summary Send a contact form message
// @Description Forwards the submission to the configured recipient with reply-to set to the submitter
// @Tags contact
// @Accept json
// @Produce json
// @Param request body models.ContactRequest true "Contact form"
// @Success 200 {object} ContactResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /contact-us [post]
func (h *ContactHandler) HandleContactUs(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.ContactRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	messageID, err := h.emailService.SendContactMessage(ctx, &body)
	if err != nil {
		return dispatch(h.logger, contactErrors, err), nil
	}

	h.logger.WithFields(logrus.Fields{
		"operation":  "contact_us",
		"message_id": messageID,
	}).Info("Contact message sent")
	return lambda.JSON(http.StatusOK, ContactResponse{Message: "Message sent successfully", MessageID: messageID}), nil
}
