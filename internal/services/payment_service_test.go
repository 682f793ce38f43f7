package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-portal-api/internal/models"
	"church-portal-api/internal/paypal"
)

func approvable(id string) *paypal.Subscription {
	return &paypal.Subscription{ID: id, Status: "APPROVAL_PENDING", Links: []paypal.Link{{Rel: "approve", Href: "https://paypal.test/approve/" + id}}}
}

func TestCreateOrderService(t *testing.T) {
	fake := &fakePayPal{order: &paypal.Order{ID: "O-1", Status: "CREATED"}}
	svc := NewPaymentService(fake, PaymentConfig{}, quietLogger())

	order, err := svc.CreateOrder(context.Background(), &models.OrderRequest{Amount: decimal.NewFromInt(20), CustomID: "donor"})
	require.NoError(t, err)
	assert.Equal(t, "O-1", order.ID)

	_, err = svc.CreateOrder(context.Background(), &models.OrderRequest{Amount: decimal.NewFromInt(-1), CustomID: "donor"})
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"order"}, fake.calls)
}

func TestCreateSubscriptionPipeline(t *testing.T) {
	ctx := context.Background()
	req := func() *models.SubscriptionRequest {
		return &models.SubscriptionRequest{Amount: decimal.RequireFromString("15"), CustomID: "donor-1"}
	}

	t.Run("runs every stage", func(t *testing.T) {
		fake := &fakePayPal{
			product: &paypal.Product{ID: "PROD-1"},
			plan:    &paypal.Plan{ID: "P-1"},
			sub:     approvable("I-1"),
		}
		result, err := NewPaymentService(fake, PaymentConfig{}, quietLogger()).CreateSubscription(ctx, req())
		require.NoError(t, err)
		assert.Equal(t, []string{"product", "plan", "subscription"}, fake.calls)
		assert.Equal(t, "I-1", result.SubscriptionID)
		assert.Equal(t, "P-1", result.PlanID)
		assert.Equal(t, "https://paypal.test/approve/I-1", result.ApprovalURL)
		assert.Equal(t, "PROD-1", fake.planInput.ProductID)
		assert.Equal(t, "USD", fake.planInput.Currency)
	})

	t.Run("existing plan skips catalog", func(t *testing.T) {
		fake := &fakePayPal{sub: approvable("I-2")}
		_, err := NewPaymentService(fake, PaymentConfig{}, quietLogger()).
			CreateSubscription(ctx, &models.SubscriptionRequest{PlanID: "P-9", CustomID: "donor-1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"subscription"}, fake.calls)
	})

	t.Run("product without id", func(t *testing.T) {
		fake := &fakePayPal{product: &paypal.Product{}}
		_, err := NewPaymentService(fake, PaymentConfig{}, quietLogger()).CreateSubscription(ctx, req())
		assert.True(t, IsStage(err, StageProduct))
		assert.Equal(t, []string{"product"}, fake.calls)
	})

	t.Run("plan without id", func(t *testing.T) {
		fake := &fakePayPal{product: &paypal.Product{ID: "PROD-1"}, plan: &paypal.Plan{}}
		_, err := NewPaymentService(fake, PaymentConfig{}, quietLogger()).CreateSubscription(ctx, req())
		assert.True(t, IsStage(err, StagePlan))
	})

	t.Run("provider error stops the pipeline", func(t *testing.T) {
		apiErr := &paypal.APIError{StatusCode: 400, Name: "INVALID_REQUEST", Message: "bad"}
		fake := &fakePayPal{product: &paypal.Product{ID: "PROD-1"}, err: apiErr, errOn: "plan"}
		_, err := NewPaymentService(fake, PaymentConfig{}, quietLogger()).CreateSubscription(ctx, req())
		assert.ErrorIs(t, err, apiErr)
		assert.Equal(t, []string{"product", "plan"}, fake.calls)
	})

	t.Run("amount required without plan", func(t *testing.T) {
		fake := &fakePayPal{}
		_, err := NewPaymentService(fake, PaymentConfig{}, quietLogger()).
			CreateSubscription(ctx, &models.SubscriptionRequest{CustomID: "donor-1"})
		var ve *models.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Empty(t, fake.calls)
	})
}
