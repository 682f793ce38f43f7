package models

// SignUpRequest registers a new user
type SignUpRequest struct {
	Email     string `json:"email" validate:"notblank"`
	Password  string `json:"password" validate:"notblank"`
	FirstName string `json:"first_name" validate:"notblank"`
	LastName  string `json:"last_name" validate:"notblank"`
}

func (SignUpRequest) ValidationMessage(string) string {
	return "Email, password, first name, and last name are required"
}

// ConfirmUserRequest confirms a user on their behalf
type ConfirmUserRequest struct {
	Email string `json:"email" validate:"notblank"`
}

func (ConfirmUserRequest) ValidationMessage(string) string {
	return "Email is required"
}

// ConfirmEmailRequest verifies the email attribute with a code
type ConfirmEmailRequest struct {
	AccessToken      string `json:"access_token" validate:"notblank"`
	ConfirmationCode string `json:"confirmation_code" validate:"notblank"`
}

func (ConfirmEmailRequest) ValidationMessage(string) string {
	return "Access token and confirmation code are required"
}

// ResendCodeRequest asks for a new email verification code
type ResendCodeRequest struct {
	AccessToken string `json:"access_token" validate:"notblank"`
}

func (ResendCodeRequest) ValidationMessage(string) string {
	return "Access token is required"
}

// LoginRequest authenticates with email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

func (LoginRequest) ValidationMessage(string) string {
	return "Email and password are required"
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"notblank"`
}

func (ForgotPasswordRequest) ValidationMessage(string) string {
	return "Email is required"
}

// ConfirmForgotPasswordRequest completes a password reset
type ConfirmForgotPasswordRequest struct {
	Email            string `json:"email" validate:"notblank"`
	ConfirmationCode string `json:"confirmation_code" validate:"notblank"`
	NewPassword      string `json:"new_password" validate:"notblank"`
}

func (ConfirmForgotPasswordRequest) ValidationMessage(string) string {
	return "Email, confirmation code, and new password are required"
}

// GetUserRequest is read from the query string
type GetUserRequest struct {
	Email string `json:"email" validate:"notblank"`
}

func (GetUserRequest) ValidationMessage(string) string {
	return "Missing required 'email' query parameter"
}

// UpdateUserRequest replaces the given user attributes
type UpdateUserRequest struct {
	Email            string            `json:"email" validate:"notblank"`
	AttributeUpdates map[string]string `json:"attribute_updates" validate:"min=1"`
}

func (UpdateUserRequest) ValidationMessage(field string) string {
	if field == "attribute_updates" {
		return "Attribute updates are required"
	}
	return "Email is required"
}

// DeleteUserRequest is read from the query string
type DeleteUserRequest struct {
	Email string `json:"email" validate:"notblank"`
}

func (DeleteUserRequest) ValidationMessage(string) string {
	return "Email is required"
}
