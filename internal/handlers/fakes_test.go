package handlers

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"church-portal-api/internal/models"
	"church-portal-api/internal/paypal"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func jsonRequest(method, path, body string) *lambda.Request {
	return &lambda.Request{
		Method:      method,
		Path:        path,
		Headers:     map[string]string{"Content-Type": "application/json"},
		QueryParams: map[string]string{},
		Body:        []byte(body),
	}
}

func decode(t *testing.T, resp *lambda.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	return body
}

// fakeIdentity returns err from every call and counts calls
type fakeIdentity struct {
	err   error
	calls int
	login *services.LoginResult
}

func (f *fakeIdentity) call(req any) error {
	if err := models.Validate(req); err != nil {
		return err
	}
	f.calls++
	return f.err
}

func (f *fakeIdentity) SignUp(ctx context.Context, req *models.SignUpRequest) (*services.SignUpResult, error) {
	if err := f.call(req); err != nil {
		return nil, err
	}
	return &services.SignUpResult{UserSub: "sub-1"}, nil
}

func (f *fakeIdentity) ConfirmUser(ctx context.Context, req *models.ConfirmUserRequest) error {
	return f.call(req)
}

func (f *fakeIdentity) ConfirmEmail(ctx context.Context, req *models.ConfirmEmailRequest) error {
	return f.call(req)
}

func (f *fakeIdentity) ResendEmailCode(ctx context.Context, req *models.ResendCodeRequest) error {
	return f.call(req)
}

func (f *fakeIdentity) Login(ctx context.Context, req *models.LoginRequest) (*services.LoginResult, error) {
	if err := f.call(req); err != nil {
		return nil, err
	}
	return f.login, nil
}

func (f *fakeIdentity) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) (*services.CodeDelivery, error) {
	if err := f.call(req); err != nil {
		return nil, err
	}
	return &services.CodeDelivery{Destination: "a***@example.com", DeliveryMedium: "EMAIL"}, nil
}

func (f *fakeIdentity) ConfirmForgotPassword(ctx context.Context, req *models.ConfirmForgotPasswordRequest) error {
	return f.call(req)
}

func (f *fakeIdentity) GetUser(ctx context.Context, req *models.GetUserRequest) (*services.UserProfile, error) {
	if err := f.call(req); err != nil {
		return nil, err
	}
	return &services.UserProfile{Username: req.Email, UserStatus: "CONFIRMED", Enabled: true, Attributes: map[string]string{"email": req.Email}}, nil
}

func (f *fakeIdentity) UpdateUser(ctx context.Context, req *models.UpdateUserRequest) error {
	return f.call(req)
}

func (f *fakeIdentity) DeleteUser(ctx context.Context, req *models.DeleteUserRequest) error {
	return f.call(req)
}

type fakeEmail struct {
	err   error
	calls int
}

func (f *fakeEmail) SendContactMessage(ctx context.Context, req *models.ContactRequest) (string, error) {
	if err := models.Validate(req); err != nil {
		return "", err
	}
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "msg-1", nil
}

type fakePayments struct {
	err   error
	calls int
}

func (f *fakePayments) CreateOrder(ctx context.Context, req *models.OrderRequest) (*paypal.Order, error) {
	req.Normalize()
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &paypal.Order{ID: "ORDER-1", Status: "CREATED"}, nil
}

func (f *fakePayments) CreateSubscription(ctx context.Context, req *models.SubscriptionRequest) (*services.SubscriptionResult, error) {
	req.Normalize()
	if err := models.Validate(req); err != nil {
		return nil, err
	}
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &services.SubscriptionResult{SubscriptionID: "I-1", ApprovalURL: "https://paypal.test/approve"}, nil
}

type fakeWebhook struct {
	result  *services.WebhookResult
	err     error
	headers paypal.WebhookHeaders
}

func (f *fakeWebhook) HandleEvent(ctx context.Context, headers paypal.WebhookHeaders, body []byte) (*services.WebhookResult, error) {
	f.headers = headers
	return f.result, f.err
}
