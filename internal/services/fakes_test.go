package services

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/paypal"
	"church-portal-api/internal/repositories"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeCognito records inputs and returns err from every call
type fakeCognito struct {
	err   error
	calls []string

	signUp       *cip.SignUpInput
	initiateAuth *cip.InitiateAuthInput
	updateAttrs  *cip.AdminUpdateUserAttributesInput
	forgot       *cip.ForgotPasswordInput

	authOut    *cip.InitiateAuthOutput
	getUserOut *cip.AdminGetUserOutput
	forgotOut  *cip.ForgotPasswordOutput
}

func (f *fakeCognito) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeCognito) SignUp(_ context.Context, in *cip.SignUpInput, _ ...func(*cip.Options)) (*cip.SignUpOutput, error) {
	f.signUp = in
	if err := f.record("SignUp"); err != nil {
		return nil, err
	}
	return &cip.SignUpOutput{UserSub: aws.String("sub-123"), UserConfirmed: false}, nil
}

func (f *fakeCognito) AdminConfirmSignUp(_ context.Context, _ *cip.AdminConfirmSignUpInput, _ ...func(*cip.Options)) (*cip.AdminConfirmSignUpOutput, error) {
	if err := f.record("AdminConfirmSignUp"); err != nil {
		return nil, err
	}
	return &cip.AdminConfirmSignUpOutput{}, nil
}

func (f *fakeCognito) VerifyUserAttribute(_ context.Context, _ *cip.VerifyUserAttributeInput, _ ...func(*cip.Options)) (*cip.VerifyUserAttributeOutput, error) {
	if err := f.record("VerifyUserAttribute"); err != nil {
		return nil, err
	}
	return &cip.VerifyUserAttributeOutput{}, nil
}

func (f *fakeCognito) GetUserAttributeVerificationCode(_ context.Context, _ *cip.GetUserAttributeVerificationCodeInput, _ ...func(*cip.Options)) (*cip.GetUserAttributeVerificationCodeOutput, error) {
	if err := f.record("GetUserAttributeVerificationCode"); err != nil {
		return nil, err
	}
	return &cip.GetUserAttributeVerificationCodeOutput{}, nil
}

func (f *fakeCognito) InitiateAuth(_ context.Context, in *cip.InitiateAuthInput, _ ...func(*cip.Options)) (*cip.InitiateAuthOutput, error) {
	f.initiateAuth = in
	if err := f.record("InitiateAuth"); err != nil {
		return nil, err
	}
	return f.authOut, nil
}

func (f *fakeCognito) ForgotPassword(_ context.Context, in *cip.ForgotPasswordInput, _ ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error) {
	f.forgot = in
	if err := f.record("ForgotPassword"); err != nil {
		return nil, err
	}
	if f.forgotOut == nil {
		return &cip.ForgotPasswordOutput{}, nil
	}
	return f.forgotOut, nil
}

func (f *fakeCognito) ConfirmForgotPassword(_ context.Context, _ *cip.ConfirmForgotPasswordInput, _ ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error) {
	if err := f.record("ConfirmForgotPassword"); err != nil {
		return nil, err
	}
	return &cip.ConfirmForgotPasswordOutput{}, nil
}

func (f *fakeCognito) AdminGetUser(_ context.Context, _ *cip.AdminGetUserInput, _ ...func(*cip.Options)) (*cip.AdminGetUserOutput, error) {
	if err := f.record("AdminGetUser"); err != nil {
		return nil, err
	}
	return f.getUserOut, nil
}

func (f *fakeCognito) AdminUpdateUserAttributes(_ context.Context, in *cip.AdminUpdateUserAttributesInput, _ ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error) {
	f.updateAttrs = in
	if err := f.record("AdminUpdateUserAttributes"); err != nil {
		return nil, err
	}
	return &cip.AdminUpdateUserAttributesOutput{}, nil
}

func (f *fakeCognito) AdminDeleteUser(_ context.Context, _ *cip.AdminDeleteUserInput, _ ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error) {
	if err := f.record("AdminDeleteUser"); err != nil {
		return nil, err
	}
	return &cip.AdminDeleteUserOutput{}, nil
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

// fakePayPal returns the configured results and records the call order
type fakePayPal struct {
	calls []string

	order    *paypal.Order
	product  *paypal.Product
	plan     *paypal.Plan
	sub      *paypal.Subscription
	verified bool
	err      error
	errOn    string

	planInput paypal.PlanInput
}

func (f *fakePayPal) fail(op string) error {
	f.calls = append(f.calls, op)
	if f.err != nil && (f.errOn == "" || f.errOn == op) {
		return f.err
	}
	return nil
}

func (f *fakePayPal) CreateOrder(_ context.Context, _ decimal.Decimal, _, _ string) (*paypal.Order, error) {
	if err := f.fail("order"); err != nil {
		return nil, err
	}
	return f.order, nil
}

func (f *fakePayPal) CreateProduct(_ context.Context, _, _ string) (*paypal.Product, error) {
	if err := f.fail("product"); err != nil {
		return nil, err
	}
	return f.product, nil
}

func (f *fakePayPal) CreatePlan(_ context.Context, in paypal.PlanInput) (*paypal.Plan, error) {
	f.planInput = in
	if err := f.fail("plan"); err != nil {
		return nil, err
	}
	return f.plan, nil
}

func (f *fakePayPal) CreateSubscription(_ context.Context, _, _ string) (*paypal.Subscription, error) {
	if err := f.fail("subscription"); err != nil {
		return nil, err
	}
	return f.sub, nil
}

func (f *fakePayPal) VerifyWebhookSignature(_ context.Context, _ string, _ paypal.WebhookHeaders, _ []byte) (bool, error) {
	if err := f.fail("verify"); err != nil {
		return false, err
	}
	return f.verified, nil
}

type fakeAppender struct {
	rows [][]interface{}
	err  error
}

func (f *fakeAppender) AppendRow(_ context.Context, row []interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

// memStore is an in-memory repositories.ItemStore
type memStore struct {
	mu    sync.Mutex
	items map[string]map[string]string
	err   error
}

func newMemStore() *memStore {
	return &memStore{items: map[string]map[string]string{}}
}

func copyAttrs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) Create(_ context.Context, item *repositories.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[item.ID]; ok {
		return repositories.DuplicateError("test", item.ID)
	}
	m.items[item.ID] = copyAttrs(item.Attributes)
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*repositories.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	attrs, ok := m.items[id]
	if !ok {
		return nil, repositories.NotFoundError("test", id)
	}
	return &repositories.Item{ID: id, Attributes: copyAttrs(attrs)}, nil
}

func (m *memStore) Update(_ context.Context, id string, attrs map[string]string) (*repositories.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	existing, ok := m.items[id]
	if !ok {
		return nil, repositories.NotFoundError("test", id)
	}
	for k, v := range attrs {
		existing[k] = v
	}
	return &repositories.Item{ID: id, Attributes: copyAttrs(existing)}, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.items[id]; !ok {
		return repositories.NotFoundError("test", id)
	}
	delete(m.items, id)
	return nil
}

func (m *memStore) List(_ context.Context, limit int, startKey string) (*repositories.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		if id > startKey {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	page := &repositories.Page{}
	for _, id := range ids {
		if len(page.Items) == limit {
			break
		}
		page.Items = append(page.Items, &repositories.Item{ID: id, Attributes: copyAttrs(m.items[id])})
	}
	if len(page.Items) == limit && len(ids) > limit {
		page.LastKey = page.Items[len(page.Items)-1].ID
	}
	return page, nil
}
