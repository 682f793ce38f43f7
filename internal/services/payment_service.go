package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/paypal"
)

// PayPalAPI is the part of the PayPal client used by the payment and webhook services
type PayPalAPI interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, customID string) (*paypal.Order, error)
	CreateProduct(ctx context.Context, name, description string) (*paypal.Product, error)
	CreatePlan(ctx context.Context, in paypal.PlanInput) (*paypal.Plan, error)
	CreateSubscription(ctx context.Context, planID, customID string) (*paypal.Subscription, error)
	VerifyWebhookSignature(ctx context.Context, webhookID string, headers paypal.WebhookHeaders, event []byte) (bool, error)
}

// PaymentConfig names the catalog entries created for subscriptions
type PaymentConfig struct {
	ProductName string
}

// paymentService implements the PaymentService interface
type paymentService struct {
	client PayPalAPI
	config PaymentConfig
	logger *logrus.Logger
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(client PayPalAPI, config PaymentConfig, logger *logrus.Logger) PaymentService {
	if logger == nil {
		logger = logrus.New()
	}
	if config.ProductName == "" {
		config.ProductName = "Recurring Donation"
	}
	return &paymentService{client: client, config: config, logger: logger}
}

// CreateOrder creates a one-time order
func (s *paymentService) CreateOrder(ctx context.Context, req *models.OrderRequest) (*paypal.Order, error) {
	req.Normalize()
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	order, err := s.client.CreateOrder(ctx, req.Amount, req.Currency, req.CustomID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("PayPal order created")
	return order, nil
}

// CreateSubscription runs product, plan and subscription creation in order.
// A plan id in the request skips the first two steps. Steps already
// completed are not undone when a later one fails.
func (s *paymentService) CreateSubscription(ctx context.Context, req *models.SubscriptionRequest) (*SubscriptionResult, error) {
	req.Normalize()
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	planID := req.PlanID
	if planID == "" {
		var err error
		planID, err = s.createPlan(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	sub, err := s.client.CreateSubscription(ctx, planID, req.CustomID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"plan_id":         planID,
	}).Info("PayPal subscription created")

	return &SubscriptionResult{
		SubscriptionID: sub.ID,
		ApprovalURL:    sub.ApprovalURL(),
		PlanID:         planID,
		Status:         sub.Status,
	}, nil
}

func (s *paymentService) createPlan(ctx context.Context, req *models.SubscriptionRequest) (string, error) {
	description := fmt.Sprintf("%s of %s %s per month", s.config.ProductName, req.Amount.StringFixed(2), req.Currency)

	product, err := s.client.CreateProduct(ctx, s.config.ProductName, description)
	if err != nil {
		return "", err
	}
	if product.ID == "" {
		return "", &StageError{Stage: StageProduct}
	}

	plan, err := s.client.CreatePlan(ctx, paypal.PlanInput{
		ProductID: product.ID,
		Name:      fmt.Sprintf("Monthly %s %s", req.Amount.StringFixed(2), req.Currency),
		Amount:    req.Amount,
		Currency:  req.Currency,
	})
	if err != nil {
		return "", err
	}
	if plan.ID == "" {
		return "", &StageError{Stage: StagePlan}
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"plan_id":    plan.ID,
	}).Info("PayPal plan created")
	return plan.ID, nil
}
