package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a payment request omits currency
const DefaultCurrency = "USD"

var paymentMessages = map[string]string{
	"amount":    "Amount must be greater than zero",
	"custom_id": "custom_id is required",
	"currency":  "Currency must be a 3-letter ISO code",
}

// OrderRequest creates a one-time payment order
type OrderRequest struct {
	Amount   decimal.Decimal `json:"amount" validate:"positive_amount"`
	Currency string          `json:"currency" validate:"omitempty,len=3,alpha"`
	CustomID string          `json:"custom_id" validate:"notblank"`
}

func (OrderRequest) ValidationMessage(field string) string {
	return paymentMessages[field]
}

// Normalize applies the default currency and canonical casing
func (r *OrderRequest) Normalize() {
	r.Currency = normalizeCurrency(r.Currency)
	r.CustomID = strings.TrimSpace(r.CustomID)
}

// SubscriptionRequest creates a recurring payment. When PlanID is set the
// existing plan is used and Amount is ignored.
type SubscriptionRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency" validate:"omitempty,len=3,alpha"`
	CustomID string          `json:"custom_id" validate:"notblank"`
	PlanID   string          `json:"plan_id"`
}

func (SubscriptionRequest) ValidationMessage(field string) string {
	return paymentMessages[field]
}

// Check requires a positive amount unless a plan is given
func (r SubscriptionRequest) Check() error {
	if strings.TrimSpace(r.PlanID) == "" && !r.Amount.IsPositive() {
		return NewValidationError("amount", paymentMessages["amount"])
	}
	return nil
}

// Normalize applies the default currency and canonical casing
func (r *SubscriptionRequest) Normalize() {
	r.Currency = normalizeCurrency(r.Currency)
	r.CustomID = strings.TrimSpace(r.CustomID)
	r.PlanID = strings.TrimSpace(r.PlanID)
}

func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}
