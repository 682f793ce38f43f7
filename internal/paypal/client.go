// Package paypal is a small client for the PayPal REST API covering
// checkout orders, catalog products, billing plans, subscriptions and
// webhook signature verification.
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
)

// requestTimeout bounds every PayPal call, including the token fetch
const requestTimeout = 10 * time.Second

const maxResponseBytes = 1 << 20

// Config holds client settings
type Config struct {
	ClientID  string
	Secret    string
	BaseURL   string
	BrandName string
	ReturnURL string
	CancelURL string

	// HTTPClient overrides the default client
	HTTPClient *http.Client
}

// Client calls the PayPal REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *tokenCache
	logger     *logrus.Logger

	brandName string
	returnURL string
	cancelURL string
}

// NewClient creates a client. The access token is cached on the client, so
// one client should be shared across invocations.
func NewClient(cfg Config, logger *logrus.Logger) *Client {
	if logger == nil {
		logger = logrus.New()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     newTokenCache(baseURL, cfg.ClientID, cfg.Secret, httpClient),
		logger:     logger,
		brandName:  cfg.BrandName,
		returnURL:  cfg.ReturnURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateOrder creates a CAPTURE order for a single purchase unit
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, customID string) (*Order, error) {
	if !amount.IsPositive() {
		return nil, models.NewValidationError("amount", "Amount must be greater than zero")
	}

	body := createOrderBody{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Amount:   money(amount, currency),
			CustomID: customID,
		}},
	}

	var order Order
	if err := c.do(ctx, "create_order", http.MethodPost, "/v2/checkout/orders", body, &order); err != nil {
		return nil, err
	}
	if order.ID == "" {
		return nil, &IncompleteResponseError{Op: "create_order", Field: "id"}
	}
	return &order, nil
}

// CreateProduct creates a SERVICE product in the CHARITY category
func (c *Client) CreateProduct(ctx context.Context, name, description string) (*Product, error) {
	body := Product{
		Name:        name,
		Description: description,
		Type:        "SERVICE",
		Category:    "CHARITY",
	}

	var product Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/v1/catalogs/products", body, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// PlanInput describes a fixed-price monthly plan
type PlanInput struct {
	ProductID string
	Name      string
	Amount    decimal.Decimal
	Currency  string
}

// CreatePlan creates an active plan billed monthly until cancelled
func (c *Client) CreatePlan(ctx context.Context, in PlanInput) (*Plan, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, models.NewValidationError("product_id", "product_id is required")
	}
	if !in.Amount.IsPositive() {
		return nil, models.NewValidationError("amount", "Amount must be greater than zero")
	}

	body := createPlanBody{
		ProductID: in.ProductID,
		Name:      in.Name,
		Status:    "ACTIVE",
		BillingCycles: []billingCycle{{
			Frequency:     frequency{IntervalUnit: "MONTH", IntervalCount: 1},
			TenureType:    "REGULAR",
			Sequence:      1,
			TotalCycles:   0,
			PricingScheme: pricingScheme{FixedPrice: money(in.Amount, in.Currency)},
		}},
		PaymentPreferences: paymentPreferences{
			AutoBillOutstanding:     true,
			SetupFeeFailureAction:   "CONTINUE",
			PaymentFailureThreshold: 3,
		},
	}

	var plan Plan
	if err := c.do(ctx, "create_plan", http.MethodPost, "/v1/billing/plans", body, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreateSubscription subscribes the payer identified by customID to planID.
// The returned subscription always has an approval link.
func (c *Client) CreateSubscription(ctx context.Context, planID, customID string) (*Subscription, error) {
	if strings.TrimSpace(planID) == "" {
		return nil, models.NewValidationError("plan_id", "plan_id is required")
	}
	if strings.TrimSpace(customID) == "" {
		return nil, models.NewValidationError("custom_id", "custom_id is required")
	}

	body := createSubscriptionBody{
		PlanID:   planID,
		CustomID: customID,
		ApplicationContext: applicationContext{
			BrandName:          c.brandName,
			UserAction:         "SUBSCRIBE_NOW",
			ShippingPreference: "NO_SHIPPING",
			ReturnURL:          c.returnURL,
			CancelURL:          c.cancelURL,
		},
	}

	var sub Subscription
	if err := c.do(ctx, "create_subscription", http.MethodPost, "/v1/billing/subscriptions", body, &sub); err != nil {
		return nil, err
	}
	if sub.ID == "" {
		return nil, &IncompleteResponseError{Op: "create_subscription", Field: "id"}
	}
	if sub.ApprovalURL() == "" {
		return nil, &IncompleteResponseError{Op: "create_subscription", Field: "approve link"}
	}
	return &sub, nil
}

// VerifyWebhookSignature asks PayPal whether event was signed for webhookID
func (c *Client) VerifyWebhookSignature(ctx context.Context, webhookID string, headers WebhookHeaders, event []byte) (bool, error) {
	body := verifySignatureBody{
		AuthAlgo:         headers.AuthAlgo,
		CertURL:          headers.CertURL,
		TransmissionID:   headers.TransmissionID,
		TransmissionSig:  headers.TransmissionSig,
		TransmissionTime: headers.TransmissionTime,
		WebhookID:        webhookID,
		WebhookEvent:     json.RawMessage(event),
	}

	var result verifySignatureResult
	if err := c.do(ctx, "verify_webhook_signature", http.MethodPost, "/v1/notifications/verify-webhook-signature", body, &result); err != nil {
		return false, err
	}
	return result.VerificationStatus == "SUCCESS", nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		c.logger.WithError(err).WithField("operation", op).Error("PayPal access token unavailable")
		return err
	}

	var payload io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("paypal %s: encode request: %w", op, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return transportError(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost && !strings.HasPrefix(path, "/v1/notifications/") {
		req.Header.Set("PayPal-Request-Id", uuid.New().String())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := transportError(op, err)
		c.logger.WithError(err).WithFields(logrus.Fields{
			"operation": op,
			"duration":  time.Since(start),
		}).Error("PayPal request failed")
		return reqErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized {
			c.tokens.Invalidate()
		}
		apiErr := newAPIError(resp.StatusCode, data)
		c.logger.WithFields(logrus.Fields{
			"operation": op,
			"status":    resp.StatusCode,
			"name":      apiErr.Name,
			"debug_id":  apiErr.DebugID,
		}).Warn("PayPal API error")
		return apiErr
	}

	c.logger.WithFields(logrus.Fields{
		"operation": op,
		"status":    resp.StatusCode,
		"duration":  time.Since(start),
	}).Debug("PayPal request completed")

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("paypal %s: decode response: %w", op, err)
	}
	return nil
}

func money(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return Money{CurrencyCode: strings.ToUpper(currency), Value: amount.StringFixed(2)}
}
