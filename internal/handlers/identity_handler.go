package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

var (
	userNotFound    = errorRule{match: isErr[*types.UserNotFoundException], status: http.StatusNotFound, errorType: "UserNotFound", message: "User not found"}
	tooManyRequests = errorRule{match: isErr[*types.TooManyRequestsException], status: http.StatusTooManyRequests, errorType: "TooManyRequests", message: "Too many requests. Please try again later."}
	limitExceeded   = errorRule{match: isErr[*types.LimitExceededException], status: http.StatusTooManyRequests, errorType: "LimitExceeded", message: "Attempt limit exceeded, please try again later"}
	codeMismatch    = errorRule{match: isErr[*types.CodeMismatchException], status: http.StatusBadRequest, errorType: "CodeMismatch", message: "Invalid confirmation code"}
	expiredCode     = errorRule{match: isErr[*types.ExpiredCodeException], status: http.StatusBadRequest, errorType: "ExpiredCode", message: "Confirmation code expired"}
	invalidPassword = errorRule{match: isErr[*types.InvalidPasswordException], status: http.StatusBadRequest, errorType: "InvalidPassword"}
	invalidParam    = errorRule{match: isErr[*types.InvalidParameterException], status: http.StatusBadRequest, errorType: "InvalidParameter"}
	codeDelivery    = errorRule{match: isErr[*types.CodeDeliveryFailureException], status: http.StatusInternalServerError, errorType: "CodeDeliveryFailure", message: "Failed to send confirmation code. Please try again."}
)

func notAuthorized(message string) errorRule {
	return errorRule{match: isErr[*types.NotAuthorizedException], status: http.StatusForbidden, errorType: "NotAuthorized", message: message}
}

var (
	signUpErrors = errorTable{operation: "signup", rules: []errorRule{
		validationRule,
		{match: isErr[*types.UsernameExistsException], status: http.StatusConflict, errorType: "UserAlreadyExists", message: "User already exists"},
		{match: isErr[*types.AliasExistsException], status: http.StatusConflict, errorType: "AliasExists", message: "A user with this email or phone number already exists."},
		invalidPassword,
		invalidParam,
		tooManyRequests,
		codeDelivery,
		{match: isErr[*types.UserLambdaValidationException], status: http.StatusBadRequest, errorType: "UserLambdaValidation"},
	}}

	confirmUserErrors = errorTable{operation: "confirm_user", rules: []errorRule{
		validationRule,
		userNotFound,
		notAuthorized("Not authorized to confirm user"),
		tooManyRequests,
	}}

	confirmEmailErrors = errorTable{operation: "confirm_email", rules: []errorRule{
		validationRule,
		codeMismatch,
		expiredCode,
		notAuthorized("Not authorized"),
		userNotFound,
		limitExceeded,
	}}

	resendCodeErrors = errorTable{operation: "confirm_email_resend", rules: []errorRule{
		validationRule,
		limitExceeded,
		notAuthorized("Not authorized"),
		userNotFound,
		codeDelivery,
	}}

	loginErrors = errorTable{operation: "login", rules: []errorRule{
		validationRule,
		{match: isErr[*types.NotAuthorizedException], status: http.StatusUnauthorized, errorType: "NotAuthorized", message: "Incorrect username or password"},
		userNotFound,
		{match: isErr[*types.UserNotConfirmedException], status: http.StatusForbidden, errorType: "UserNotConfirmed", message: "User is not confirmed"},
		{match: isErr[*types.PasswordResetRequiredException], status: http.StatusForbidden, errorType: "PasswordResetRequired", message: "Password reset required"},
		tooManyRequests,
	}}

	forgotPasswordErrors = errorTable{operation: "forgot_password", rules: []errorRule{
		validationRule,
		userNotFound,
		limitExceeded,
		notAuthorized(""),
		codeDelivery,
	}}

	confirmForgotPasswordErrors = errorTable{operation: "confirm_forgot_password", rules: []errorRule{
		validationRule,
		codeMismatch,
		expiredCode,
		invalidPassword,
		userNotFound,
		limitExceeded,
	}}

	getUserErrors = errorTable{operation: "get_user", rules: []errorRule{
		validationRule,
		userNotFound,
		invalidParam,
		tooManyRequests,
	}}

	updateUserErrors = errorTable{operation: "update_user", rules: []errorRule{
		validationRule,
		userNotFound,
		invalidParam,
		notAuthorized("Not authorized to update user attributes"),
	}}

	deleteUserErrors = errorTable{operation: "delete_user", rules: []errorRule{
		validationRule,
		userNotFound,
		notAuthorized("Not authorized to delete user"),
	}}
)

// IdentityHandler handles the user pool routes
type IdentityHandler struct {
	identityService services.IdentityService
	logger          *logrus.Logger
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(identityService services.IdentityService, logger *logrus.Logger) *IdentityHandler {
	return &IdentityHandler{identityService: identityService, logger: logger}
}

// SignUpResponse is returned by signup
type SignUpResponse struct {
	Message string `json:"message"`
	services.SignUpResult
}

// LoginResponse is returned by login
type LoginResponse struct {
	Message string `json:"message"`
	services.LoginResult
}

// ChallengeResponse is returned when login needs another step
type ChallengeResponse struct {
	Message       string `json:"message"`
	ErrorType     string `json:"errorType"`
	ChallengeName string `json:"challenge_name"`
	Session       string `json:"session"`
}

// ForgotPasswordResponse is returned by forgot-password
type ForgotPasswordResponse struct {
	Message string `json:"message"`
	services.CodeDelivery
}

// UserResponse is returned by GET /user
type UserResponse struct {
	Message string `json:"message"`
	services.UserProfile
}

// @Summary Sign up
// @Tags identity
// @Accept json
// @Produce json
// @Param request body models.SignUpRequest true "New user"
// @Success 200 {object} SignUpResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /signup [post]
func (h *IdentityHandler) HandleSignUp(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.SignUpRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	result, err := h.identityService.SignUp(ctx, &body)
	if err != nil {
		return dispatch(h.logger, signUpErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, SignUpResponse{Message: "User signed up successfully", SignUpResult: *result}), nil
}

// @Summary Confirm a user without a code
// @Tags identity
// @Accept json
// @Produce json
// @Param request body models.ConfirmUserRequest true "User"
// @Success 200 {object} lambda.MessageBody
// @Failure 404 {object} ErrorResponse
// @Router /confirm [post]
func (h *IdentityHandler) HandleConfirmUser(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.ConfirmUserRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	if err := h.identityService.ConfirmUser(ctx, &body); err != nil {
		return dispatch(h.logger, confirmUserErrors, err), nil
	}
	return lambda.Message(http.StatusOK, "User confirmed successfully"), nil
}

// @Summary Confirm the email attribute
// @Tags identity
// @Accept json
// @Produce json
// @Param request body models.ConfirmEmailRequest true "Access token and code"
// @Success 200 {object} lambda.MessageBody
// @Failure 400 {object} ErrorResponse
// @Router /confirm-email [post]
func (h *IdentityHandler) HandleConfirmEmail(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.ConfirmEmailRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	if err := h.identityService.ConfirmEmail(ctx, &body); err != nil {
		return dispatch(h.logger, confirmEmailErrors, err), nil
	}
	return lambda.Message(http.StatusOK, "Email confirmed successfully"), nil
}

// @Summary Resend the email verification code
// @Tags identity
// @Accept json
// @Produce json
// @Param request body models.ResendCodeRequest true "Access token"
// @Success 200 {object} lambda.MessageBody
// @Failure 429 {object} ErrorResponse
// @Router /confirm-email-resend [post]
func (h *IdentityHandler) HandleResendCode(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.ResendCodeRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	if err := h.identityService.ResendEmailCode(ctx, &body); err != nil {
		return dispatch(h.logger, resendCodeErrors, err), nil
	}
	return lambda.Message(http.StatusOK, "Confirmation code resent successfully"), nil
}

// @Summary Log in
// @Tags identity
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ChallengeResponse
// @Router /login [post]
func (h *IdentityHandler) HandleLogin(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.LoginRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	result, err := h.identityService.Login(ctx, &body)
	if err != nil {
		var challenge *services.ChallengeError
		if errors.As(err, &challenge) {
			h.logger.WithFields(logrus.Fields{
				"operation": "login",
				"challenge": challenge.Name,
			}).Info("Login requires a challenge response")
			return lambda.JSON(http.StatusForbidden, ChallengeResponse{
				Message:       "Additional authentication step required",
				ErrorType:     "ChallengeRequired",
				ChallengeName: challenge.Name,
				Session:       challenge.Session,
			}), nil
		}
		return dispatch(h.logger, loginErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, LoginResponse{Message: "Login successful", LoginResult: *result}), nil
}

// @Summary Start a password reset
// @Tags identity
// @Accept json
// @Produce json
// @Param request body models.ForgotPasswordRequest true "User"
// @Success 200 {object} ForgotPasswordResponse
// @Failure 404 {object} ErrorResponse
// @Router /forgot-password [post]
func (h *IdentityHandler) HandleForgotPassword(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.ForgotPasswordRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	delivery, err := h.identityService.ForgotPassword(ctx, &body)
	if err != nil {
		return dispatch(h.logger, forgotPasswordErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, ForgotPasswordResponse{Message: "Password reset code sent", CodeDelivery: *delivery}), nil
}

// @Summary Complete a password reset
// @Tags identity
// @Accept json
// @Produce json
// @Param request body models.ConfirmForgotPasswordRequest true "Code and new password"
// @Success 200 {object} lambda.MessageBody
// @Failure 400 {object} ErrorResponse
// @Router /confirm-forgot-password [post]
func (h *IdentityHandler) HandleConfirmForgotPassword(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.ConfirmForgotPasswordRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	if err := h.identityService.ConfirmForgotPassword(ctx, &body); err != nil {
		return dispatch(h.logger, confirmForgotPasswordErrors, err), nil
	}
	return lambda.Message(http.StatusOK, "Password reset successfully"), nil
}

// @Summary Get a user
// @Tags identity
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} UserResponse
// @Failure 404 {object} ErrorResponse
// @Router /user [get]
func (h *IdentityHandler) HandleGetUser(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	profile, err := h.identityService.GetUser(ctx, &models.GetUserRequest{Email: req.Query("email")})
	if err != nil {
		return dispatch(h.logger, getUserErrors, err), nil
	}
	return lambda.JSON(http.StatusOK, UserResponse{Message: "User data retrieved successfully", UserProfile: *profile}), nil
}

// @Summary Update user attributes
// @Tags identity
// @Accept json
// @Produce json
// @Param request body models.UpdateUserRequest true "Attribute updates"
// @Success 200 {object} lambda.MessageBody
// @Failure 400 {object} ErrorResponse
// @Router /user [patch]
func (h *IdentityHandler) HandleUpdateUser(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body models.UpdateUserRequest
	if resp := decodeBody(req, &body); resp != nil {
		return resp, nil
	}

	if err := h.identityService.UpdateUser(ctx, &body); err != nil {
		return dispatch(h.logger, updateUserErrors, err), nil
	}
	return lambda.Message(http.StatusOK, "User attributes updated successfully"), nil
}

// @Summary Delete a user
// @Tags identity
// @Produce json
// @Param email query string true "User email"
// @Success 200 {object} lambda.MessageBody
// @Failure 404 {object} ErrorResponse
// @Router /user [delete]
func (h *IdentityHandler) HandleDeleteUser(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if err := h.identityService.DeleteUser(ctx, &models.DeleteUserRequest{Email: req.Query("email")}); err != nil {
		return dispatch(h.logger, deleteUserErrors, err), nil
	}
	return lambda.Message(http.StatusOK, "User deleted successfully"), nil
}
