package services

import (
	"context"

	"church-portal-api/internal/models"
	"church-portal-api/internal/paypal"
)

// IdentityService defines the user pool operations behind the identity routes
type IdentityService interface {
	// Registration
	SignUp(ctx context.Context, req *models.SignUpRequest) (*SignUpResult, error)
	ConfirmUser(ctx context.Context, req *models.ConfirmUserRequest) error
	ConfirmEmail(ctx context.Context, req *models.ConfirmEmailRequest) error
	ResendEmailCode(ctx context.Context, req *models.ResendCodeRequest) error

	// Authentication
	Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error)
	ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) (*CodeDelivery, error)
	ConfirmForgotPassword(ctx context.Context, req *models.ConfirmForgotPasswordRequest) error

	// Administration
	GetUser(ctx context.Context, req *models.GetUserRequest) (*UserProfile, error)
	UpdateUser(ctx context.Context, req *models.UpdateUserRequest) error
	DeleteUser(ctx context.Context, req *models.DeleteUserRequest) error
}

// EmailService delivers contact form submissions
type EmailService interface {
	SendContactMessage(ctx context.Context, req *models.ContactRequest) (string, error)
}

// PaymentService creates PayPal orders and subscriptions
type PaymentService interface {
	CreateOrder(ctx context.Context, req *models.OrderRequest) (*paypal.Order, error)
	CreateSubscription(ctx context.Context, req *models.SubscriptionRequest) (*SubscriptionResult, error)
}

// WebhookService relays PayPal webhook events
type WebhookService interface {
	HandleEvent(ctx context.Context, headers paypal.WebhookHeaders, body []byte) (*WebhookResult, error)
}

// DirectoryService manages the public users directory
type DirectoryService interface {
	ListUsers(ctx context.Context, limit int, cursor string) (*UserPage, error)
	CreateUser(ctx context.Context, req *models.CreateDirectoryUserRequest) (*models.DirectoryUser, error)
	GetUser(ctx context.Context, id string) (*models.DirectoryUser, error)
	UpdateUser(ctx context.Context, id string, req *models.UpdateDirectoryUserRequest) (*models.DirectoryUser, error)
	DeleteUser(ctx context.Context, id string) error
}

// AdminService manages administrator accounts
type AdminService interface {
	ListAdmins(ctx context.Context, limit int, cursor string) (*AdminPage, error)
	CreateAdmin(ctx context.Context, req *models.CreateAdminRequest) (*models.AdminAccount, error)
	GetAdmin(ctx context.Context, id string) (*models.AdminAccount, error)
	UpdateAdmin(ctx context.Context, id string, req *models.UpdateAdminRequest) (*models.AdminAccount, error)
	DeleteAdmin(ctx context.Context, id string) error
	Authenticate(ctx context.Context, id, password string) (*models.AdminAccount, error)
}

// SignUpResult is returned by SignUp
type SignUpResult struct {
	UserSub       string `json:"user_sub"`
	UserConfirmed bool   `json:"user_confirmed"`
}

// LoginResult holds the tokens issued at login
type LoginResult struct {
	IDToken      string `json:"id_token"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int32  `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Sub          string `json:"sub"`
}

// CodeDelivery describes where a verification code was sent
type CodeDelivery struct {
	Destination    string `json:"destination,omitempty"`
	DeliveryMedium string `json:"delivery_medium,omitempty"`
	AttributeName  string `json:"attribute_name,omitempty"`
}

// UserProfile is a user pool entry
type UserProfile struct {
	Username   string            `json:"username"`
	UserStatus string            `json:"user_status"`
	Enabled    bool              `json:"enabled"`
	Attributes map[string]string `json:"user_attributes"`
}

// SubscriptionResult is returned by CreateSubscription
type SubscriptionResult struct {
	SubscriptionID string `json:"subscription_id"`
	ApprovalURL    string `json:"approval_url"`
	PlanID         string `json:"plan_id"`
	Status         string `json:"status"`
}

// WebhookResult reports what was done with an event
type WebhookResult struct {
	EventType string
	Processed bool
}

// UserPage is one page of directory users
type UserPage struct {
	Users            []*models.DirectoryUser `json:"users"`
	LastEvaluatedKey string                  `json:"last_evaluated_key,omitempty"`
}

// AdminPage is one page of administrators
type AdminPage struct {
	Admins           []*models.AdminAccount `json:"admins"`
	LastEvaluatedKey string                 `json:"last_evaluated_key,omitempty"`
}
