package models

// EventPaymentSaleCompleted is the only webhook event type that is recorded
const EventPaymentSaleCompleted = "PAYMENT.SALE.COMPLETED"

// WebhookEvent is a PayPal webhook notification
type WebhookEvent struct {
	ID         string       `json:"id"`
	EventType  string       `json:"event_type"`
	CreateTime string       `json:"create_time"`
	Summary    string       `json:"summary,omitempty"`
	Resource   SaleResource `json:"resource"`
}

// SaleResource is the resource of a PAYMENT.SALE event
type SaleResource struct {
	ID         string     `json:"id"`
	State      string     `json:"state"`
	CreateTime string     `json:"create_time"`
	Amount     SaleAmount `json:"amount"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// SaleAmount accepts both the v1 {total,currency} and v2
// {value,currency_code} amount shapes
type SaleAmount struct {
	Value        string `json:"value"`
	Total        string `json:"total"`
	CurrencyCode string `json:"currency_code"`
	Currency     string `json:"currency"`
}

// AmountValue returns value, falling back to total
func (a SaleAmount) AmountValue() string {
	if a.Value != "" {
		return a.Value
	}
	return a.Total
}

// CurrencyValue returns currency_code, falling back to currency
func (a SaleAmount) CurrencyValue() string {
	if a.CurrencyCode != "" {
		return a.CurrencyCode
	}
	return a.Currency
}

// Row returns the spreadsheet columns recorded for a sale
func (e *WebhookEvent) Row() []interface{} {
	return []interface{}{
		e.Resource.ID,
		e.Resource.Payer.EmailAddress,
		e.Resource.Amount.AmountValue(),
		e.Resource.Amount.CurrencyValue(),
		e.Resource.CreateTime,
	}
}
