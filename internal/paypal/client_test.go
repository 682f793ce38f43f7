package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-portal-api/internal/models"
)

type fakePayPal struct {
	*httptest.Server
	tokenCalls int32
	mux        *http.ServeMux
}

func newFakePayPal(t *testing.T) *fakePayPal {
	t.Helper()
	f := &fakePayPal{mux: http.NewServeMux()}
	f.mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.tokenCalls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client", "error_description": "Client Authentication failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"access_token": "A21AA", "token_type": "Bearer", "expires_in": 3600})
	})
	f.Server = httptest.NewServer(f.mux)
	t.Cleanup(f.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(baseURL string, secret string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(Config{
		ClientID:  "client",
		Secret:    secret,
		BaseURL:   baseURL,
		BrandName: "Church Portal",
		ReturnURL: "https://example.org/return",
		CancelURL: "https://example.org/cancel",
	}, logger)
}

func TestCreateOrder(t *testing.T) {
	fake := newFakePayPal(t)

	var got createOrderBody
	var requestID, auth string
	fake.mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("PayPal-Request-Id")
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusCreated, map[string]string{"id": "ORDER-1", "status": "CREATED"})
	})

	client := newTestClient(fake.URL, "secret")
	order, err := client.CreateOrder(context.Background(), decimal.RequireFromString("10.5"), "", "donor-7")
	require.NoError(t, err)

	assert.Equal(t, "ORDER-1", order.ID)
	assert.Equal(t, "CREATED", order.Status)
	assert.Equal(t, "Bearer A21AA", auth)
	assert.NotEmpty(t, requestID)
	assert.Equal(t, "CAPTURE", got.Intent)
	require.Len(t, got.PurchaseUnits, 1)
	assert.Equal(t, Money{CurrencyCode: "USD", Value: "10.50"}, got.PurchaseUnits[0].Amount)
	assert.Equal(t, "donor-7", got.PurchaseUnits[0].CustomID)

	_, err = client.CreateOrder(context.Background(), decimal.NewFromInt(5), "eur", "donor-7")
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.PurchaseUnits[0].Amount.CurrencyCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fake.tokenCalls), "token should be reused")
}

func TestCreateOrderErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("non-positive amount makes no call", func(t *testing.T) {
		fake := newFakePayPal(t)
		_, err := newTestClient(fake.URL, "secret").CreateOrder(ctx, decimal.NewFromInt(-1), "USD", "x")
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, int32(0), atomic.LoadInt32(&fake.tokenCalls))
	})

	t.Run("created without id", func(t *testing.T) {
		fake := newFakePayPal(t)
		fake.mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]string{"status": "CREATED"})
		})
		_, err := newTestClient(fake.URL, "secret").CreateOrder(ctx, decimal.NewFromInt(1), "USD", "x")
		var incomplete *IncompleteResponseError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, "id", incomplete.Field)
	})

	t.Run("provider error keeps status", func(t *testing.T) {
		fake := newFakePayPal(t)
		fake.mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"name":     "UNPROCESSABLE_ENTITY",
				"message":  "The requested action could not be performed",
				"debug_id": "abc123",
			})
		})
		_, err := newTestClient(fake.URL, "secret").CreateOrder(ctx, decimal.NewFromInt(1), "USD", "x")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.HTTPStatus())
		assert.Equal(t, "UNPROCESSABLE_ENTITY", apiErr.Name)
		assert.Equal(t, "The requested action could not be performed", apiErr.Message)
		assert.Equal(t, "abc123", apiErr.DebugID)
	})

	t.Run("timeout", func(t *testing.T) {
		fake := newFakePayPal(t)
		fake.mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
		defer cancel()

		_, err := newTestClient(fake.URL, "secret").CreateOrder(ctx, decimal.NewFromInt(1), "USD", "x")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindTimeout))
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusGatewayTimeout, reqErr.HTTPStatus())
	})

	t.Run("connection refused", func(t *testing.T) {
		fake := newFakePayPal(t)
		url := fake.URL
		fake.Close()

		_, err := newTestClient(url, "secret").CreateOrder(ctx, decimal.NewFromInt(1), "USD", "x")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindConnection))
		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr)
		assert.Equal(t, http.StatusServiceUnavailable, reqErr.HTTPStatus())
	})
}

func TestAccessTokenErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("rejected credentials", func(t *testing.T) {
		fake := newFakePayPal(t)
		_, err := newTestClient(fake.URL, "wrong").CreateProduct(ctx, "Donation", "Monthly donation")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "invalid_client", apiErr.Name)
		assert.Equal(t, "Client Authentication failed", apiErr.Message)
	})

	t.Run("response without token", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"token_type": "Bearer"})
		})
		ts := httptest.NewServer(mux)
		defer ts.Close()

		_, err := newTestClient(ts.URL, "secret").CreateProduct(ctx, "Donation", "Monthly donation")
		assert.True(t, errors.Is(err, ErrMissingAccessToken), "got %v", err)
	})
}

func TestCreateProductAndPlan(t *testing.T) {
	fake := newFakePayPal(t)

	var product Product
	fake.mux.HandleFunc("/v1/catalogs/products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&product)
		writeJSON(w, http.StatusCreated, map[string]string{"id": "PROD-1", "name": product.Name})
	})
	var plan createPlanBody
	fake.mux.HandleFunc("/v1/billing/plans", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&plan)
		writeJSON(w, http.StatusCreated, map[string]string{"id": "P-1", "status": "ACTIVE"})
	})

	client := newTestClient(fake.URL, "secret")
	ctx := context.Background()

	p, err := client.CreateProduct(ctx, "Recurring Donation", "Monthly donation")
	require.NoError(t, err)
	assert.Equal(t, "PROD-1", p.ID)
	assert.Equal(t, "SERVICE", product.Type)
	assert.Equal(t, "CHARITY", product.Category)

	created, err := client.CreatePlan(ctx, PlanInput{ProductID: p.ID, Name: "Monthly", Amount: decimal.NewFromInt(25), Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "P-1", created.ID)

	require.Len(t, plan.BillingCycles, 1)
	cycle := plan.BillingCycles[0]
	assert.Equal(t, "MONTH", cycle.Frequency.IntervalUnit)
	assert.Equal(t, "REGULAR", cycle.TenureType)
	assert.Equal(t, 0, cycle.TotalCycles)
	assert.Equal(t, "25.00", cycle.PricingScheme.FixedPrice.Value)
	assert.True(t, plan.PaymentPreferences.AutoBillOutstanding)
}

func TestCreatePlanValidation(t *testing.T) {
	fake := newFakePayPal(t)
	client := newTestClient(fake.URL, "secret")

	tests := []struct {
		name  string
		input PlanInput
		field string
	}{
		{"missing product", PlanInput{Amount: decimal.NewFromInt(10)}, "product_id"},
		{"zero amount", PlanInput{ProductID: "PROD-1"}, "amount"},
		{"negative amount", PlanInput{ProductID: "PROD-1", Amount: decimal.NewFromInt(-5)}, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.CreatePlan(context.Background(), tt.input)
			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(&fake.tokenCalls))
}

func TestCreateSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("returns approval url", func(t *testing.T) {
		fake := newFakePayPal(t)
		var body createSubscriptionBody
		fake.mux.HandleFunc("/v1/billing/subscriptions", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			writeJSON(w, http.StatusCreated, map[string]interface{}{
				"id":     "I-SUB",
				"status": "APPROVAL_PENDING",
				"links": []map[string]string{
					{"href": "https://www.sandbox.paypal.com/webapps/billing/subscriptions?ba_token=BA-1", "rel": "approve", "method": "GET"},
					{"href": "https://api-m.sandbox.paypal.com/v1/billing/subscriptions/I-SUB", "rel": "self", "method": "GET"},
				},
			})
		})

		sub, err := newTestClient(fake.URL, "secret").CreateSubscription(ctx, "P-1", "donor-7")
		require.NoError(t, err)
		assert.Equal(t, "I-SUB", sub.ID)
		assert.Contains(t, sub.ApprovalURL(), "ba_token=BA-1")
		assert.Equal(t, "P-1", body.PlanID)
		assert.Equal(t, "donor-7", body.CustomID)
		assert.Equal(t, "Church Portal", body.ApplicationContext.BrandName)
		assert.Equal(t, "https://example.org/return", body.ApplicationContext.ReturnURL)
	})

	t.Run("missing approve link", func(t *testing.T) {
		fake := newFakePayPal(t)
		fake.mux.HandleFunc("/v1/billing/subscriptions", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]string{"id": "I-SUB", "status": "APPROVAL_PENDING"})
		})
		_, err := newTestClient(fake.URL, "secret").CreateSubscription(ctx, "P-1", "donor-7")
		var incomplete *IncompleteResponseError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, "approve link", incomplete.Field)
	})

	t.Run("validation", func(t *testing.T) {
		client := newTestClient("http://127.0.0.1:1", "secret")
		var ve *models.ValidationError
		_, err := client.CreateSubscription(ctx, "", "donor-7")
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "plan_id", ve.Field)
		_, err = client.CreateSubscription(ctx, "P-1", " ")
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "custom_id", ve.Field)
	})
}

func TestVerifyWebhookSignature(t *testing.T) {
	fake := newFakePayPal(t)

	var body map[string]json.RawMessage
	var requestID string
	status := "SUCCESS"
	fake.mux.HandleFunc("/v1/notifications/verify-webhook-signature", func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("PayPal-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]string{"verification_status": status})
	})

	client := newTestClient(fake.URL, "secret")
	headers := WebhookHeaders{
		AuthAlgo:         "SHA256withRSA",
		CertURL:          "https://api.paypal.com/certs/cert.pem",
		TransmissionID:   "1234567890",
		TransmissionSig:  "abcdef",
		TransmissionTime: "2021-01-01T12:00:00Z",
	}
	event := []byte(`{"id":"WH-1","event_type":"PAYMENT.SALE.COMPLETED"}`)

	ok, err := client.VerifyWebhookSignature(context.Background(), "WH-ID", headers, event)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, requestID)
	assert.JSONEq(t, string(event), string(body["webhook_event"]))
	assert.JSONEq(t, `"WH-ID"`, string(body["webhook_id"]))
	assert.JSONEq(t, `"SHA256withRSA"`, string(body["auth_algo"]))

	status = "FAILURE"
	ok, err = client.VerifyWebhookSignature(context.Background(), "WH-ID", headers, event)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClassifyTransport(t *testing.T) {
	assert.Equal(t, KindTimeout, classifyTransport(context.DeadlineExceeded))
	assert.Equal(t, KindRequest, classifyTransport(errors.New("unsupported protocol scheme")))
}
