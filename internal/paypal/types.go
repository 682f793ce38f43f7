package paypal

import "encoding/json"

// Money is a PayPal amount. Value always carries two decimals.
type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// Link is a HATEOAS link returned by PayPal
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is a checkout order
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`
}

// Product is a catalog product
type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Plan is a billing plan
type Plan struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// Subscription is a billing subscription awaiting payer approval
type Subscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`
}

// ApprovalURL returns the href of the rel=approve link, or "" if there is none
func (s *Subscription) ApprovalURL() string {
	for _, l := range s.Links {
		if l.Rel == "approve" {
			return l.Href
		}
	}
	return ""
}

type purchaseUnit struct {
	Amount   Money  `json:"amount"`
	CustomID string `json:"custom_id,omitempty"`
}

type createOrderBody struct {
	Intent        string         `json:"intent"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type frequency struct {
	IntervalUnit  string `json:"interval_unit"`
	IntervalCount int    `json:"interval_count"`
}

type pricingScheme struct {
	FixedPrice Money `json:"fixed_price"`
}

type billingCycle struct {
	Frequency     frequency     `json:"frequency"`
	TenureType    string        `json:"tenure_type"`
	Sequence      int           `json:"sequence"`
	TotalCycles   int           `json:"total_cycles"`
	PricingScheme pricingScheme `json:"pricing_scheme"`
}

type paymentPreferences struct {
	AutoBillOutstanding     bool   `json:"auto_bill_outstanding"`
	SetupFeeFailureAction   string `json:"setup_fee_failure_action"`
	PaymentFailureThreshold int    `json:"payment_failure_threshold"`
}

type createPlanBody struct {
	ProductID          string             `json:"product_id"`
	Name               string             `json:"name"`
	Status             string             `json:"status"`
	BillingCycles      []billingCycle     `json:"billing_cycles"`
	PaymentPreferences paymentPreferences `json:"payment_preferences"`
}

type applicationContext struct {
	BrandName          string `json:"brand_name,omitempty"`
	UserAction         string `json:"user_action"`
	ShippingPreference string `json:"shipping_preference"`
	ReturnURL          string `json:"return_url,omitempty"`
	CancelURL          string `json:"cancel_url,omitempty"`
}

type createSubscriptionBody struct {
	PlanID             string             `json:"plan_id"`
	CustomID           string             `json:"custom_id"`
	ApplicationContext applicationContext `json:"application_context"`
}

// WebhookHeaders are the transmission headers PayPal sends with a webhook
type WebhookHeaders struct {
	AuthAlgo         string
	CertURL          string
	TransmissionID   string
	TransmissionSig  string
	TransmissionTime string
}

type verifySignatureBody struct {
	AuthAlgo         string          `json:"auth_algo"`
	CertURL          string          `json:"cert_url"`
	TransmissionID   string          `json:"transmission_id"`
	TransmissionSig  string          `json:"transmission_sig"`
	TransmissionTime string          `json:"transmission_time"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

type verifySignatureResult struct {
	VerificationStatus string `json:"verification_status"`
}
