package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/paypal"
)

// SignatureVerifier checks webhook signatures with PayPal
type SignatureVerifier interface {
	VerifyWebhookSignature(ctx context.Context, webhookID string, headers paypal.WebhookHeaders, event []byte) (bool, error)
}

// RowAppender appends a row to the payments spreadsheet
type RowAppender interface {
	AppendRow(ctx context.Context, row []interface{}) error
}

// webhookService implements the WebhookService interface
type webhookService struct {
	verifier  SignatureVerifier
	appender  RowAppender
	webhookID string
	logger    *logrus.Logger
}

// NewWebhookService creates a new webhook service. Signatures are only
// verified when webhookID is set.
func NewWebhookService(verifier SignatureVerifier, appender RowAppender, webhookID string, logger *logrus.Logger) WebhookService {
	if logger == nil {
		logger = logrus.New()
	}
	return &webhookService{verifier: verifier, appender: appender, webhookID: webhookID, logger: logger}
}

// HandleEvent verifies an event and records completed sales
func (s *webhookService) HandleEvent(ctx context.Context, headers paypal.WebhookHeaders, body []byte) (*WebhookResult, error) {
	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if s.webhookID == "" {
		s.logger.Warn("PAYPAL_WEBHOOK_ID not set, skipping webhook signature verification")
	} else {
		ok, err := s.verifier.VerifyWebhookSignature(ctx, s.webhookID, headers, body)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.logger.WithField("event_id", event.ID).Warn("Webhook signature rejected")
			return nil, ErrInvalidSignature
		}
	}

	result := &WebhookResult{EventType: event.EventType}
	if event.EventType != models.EventPaymentSaleCompleted {
		s.logger.WithField("event_type", event.EventType).Info("Ignoring webhook event")
		return result, nil
	}

	if err := s.appender.AppendRow(ctx, event.Row()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpreadsheet, err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id": event.ID,
		"sale_id":  event.Resource.ID,
	}).Info("Payment recorded")
	result.Processed = true
	return result, nil
}
