package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
)

// CognitoAPI is the subset of the Cognito user pool client used by the
// identity service
type CognitoAPI interface {
	SignUp(ctx context.Context, in *cip.SignUpInput, optFns ...func(*cip.Options)) (*cip.SignUpOutput, error)
	AdminConfirmSignUp(ctx context.Context, in *cip.AdminConfirmSignUpInput, optFns ...func(*cip.Options)) (*cip.AdminConfirmSignUpOutput, error)
	VerifyUserAttribute(ctx context.Context, in *cip.VerifyUserAttributeInput, optFns ...func(*cip.Options)) (*cip.VerifyUserAttributeOutput, error)
	GetUserAttributeVerificationCode(ctx context.Context, in *cip.GetUserAttributeVerificationCodeInput, optFns ...func(*cip.Options)) (*cip.GetUserAttributeVerificationCodeOutput, error)
	InitiateAuth(ctx context.Context, in *cip.InitiateAuthInput, optFns ...func(*cip.Options)) (*cip.InitiateAuthOutput, error)
	ForgotPassword(ctx context.Context, in *cip.ForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ForgotPasswordOutput, error)
	ConfirmForgotPassword(ctx context.Context, in *cip.ConfirmForgotPasswordInput, optFns ...func(*cip.Options)) (*cip.ConfirmForgotPasswordOutput, error)
	AdminGetUser(ctx context.Context, in *cip.AdminGetUserInput, optFns ...func(*cip.Options)) (*cip.AdminGetUserOutput, error)
	AdminUpdateUserAttributes(ctx context.Context, in *cip.AdminUpdateUserAttributesInput, optFns ...func(*cip.Options)) (*cip.AdminUpdateUserAttributesOutput, error)
	AdminDeleteUser(ctx context.Context, in *cip.AdminDeleteUserInput, optFns ...func(*cip.Options)) (*cip.AdminDeleteUserOutput, error)
}

// IdentityConfig identifies the user pool and app client
type IdentityConfig struct {
	UserPoolID   string
	ClientID     string
	ClientSecret string
}

// identityService implements the IdentityService interface
type identityService struct {
	client CognitoAPI
	config IdentityConfig
	logger *logrus.Logger
}

// NewIdentityService creates a new identity service instance
func NewIdentityService(client CognitoAPI, config IdentityConfig, logger *logrus.Logger) IdentityService {
	if logger == nil {
		logger = logrus.New()
	}
	return &identityService{client: client, config: config, logger: logger}
}

// secretHash returns the SECRET_HASH for username, or nil when the app
// client has no secret
func (s *identityService) secretHash(username string) *string {
	if s.config.ClientSecret == "" {
		return nil
	}
	mac := hmac.New(sha256.New, []byte(s.config.ClientSecret))
	mac.Write([]byte(username + s.config.ClientID))
	return aws.String(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// SignUp registers a user with the email as username
func (s *identityService) SignUp(ctx context.Context, req *models.SignUpRequest) (*SignUpResult, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	out, err := s.client.SignUp(ctx, &cip.SignUpInput{
		ClientId:   aws.String(s.config.ClientID),
		Username:   aws.String(req.Email),
		Password:   aws.String(req.Password),
		SecretHash: s.secretHash(req.Email),
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String(req.Email)},
			{Name: aws.String("custom:firstName"), Value: aws.String(req.FirstName)},
			{Name: aws.String("custom:lastName"), Value: aws.String(req.LastName)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	return &SignUpResult{UserSub: aws.ToString(out.UserSub), UserConfirmed: out.UserConfirmed}, nil
}

// ConfirmUser confirms a registration without a code
func (s *identityService) ConfirmUser(ctx context.Context, req *models.ConfirmUserRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}

	_, err := s.client.AdminConfirmSignUp(ctx, &cip.AdminConfirmSignUpInput{
		UserPoolId: aws.String(s.config.UserPoolID),
		Username:   aws.String(req.Email),
	})
	if err != nil {
		return fmt.Errorf("confirm user: %w", err)
	}
	return nil
}

// ConfirmEmail verifies the email attribute of the signed-in user
func (s *identityService) ConfirmEmail(ctx context.Context, req *models.ConfirmEmailRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}

	_, err := s.client.VerifyUserAttribute(ctx, &cip.VerifyUserAttributeInput{
		AccessToken:   aws.String(req.AccessToken),
		AttributeName: aws.String("email"),
		Code:          aws.String(req.ConfirmationCode),
	})
	if err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	return nil
}

// ResendEmailCode sends a new email verification code
func (s *identityService) ResendEmailCode(ctx context.Context, req *models.ResendCodeRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}

	_, err := s.client.GetUserAttributeVerificationCode(ctx, &cip.GetUserAttributeVerificationCodeInput{
		AccessToken:   aws.String(req.AccessToken),
		AttributeName: aws.String("email"),
	})
	if err != nil {
		return fmt.Errorf("resend email code: %w", err)
	}
	return nil
}

// Login authenticates with USER_PASSWORD_AUTH
func (s *identityService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	params := map[string]string{
		"USERNAME": req.Email,
		"PASSWORD": req.Password,
	}
	if hash := s.secretHash(req.Email); hash != nil {
		params["SECRET_HASH"] = *hash
	}

	out, err := s.client.InitiateAuth(ctx, &cip.InitiateAuthInput{
		ClientId:       aws.String(s.config.ClientID),
		AuthFlow:       types.AuthFlowTypeUserPasswordAuth,
		AuthParameters: params,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if out.AuthenticationResult == nil {
		return nil, &ChallengeError{Name: string(out.ChallengeName), Session: aws.ToString(out.Session)}
	}

	auth := out.AuthenticationResult
	result := &LoginResult{
		IDToken:      aws.ToString(auth.IdToken),
		AccessToken:  aws.ToString(auth.AccessToken),
		RefreshToken: aws.ToString(auth.RefreshToken),
		ExpiresIn:    auth.ExpiresIn,
		TokenType:    aws.ToString(auth.TokenType),
	}
	result.Sub = s.subject(result.IDToken)

	return result, nil
}

// subject reads the sub claim of a token the user pool just issued. The
// signature is not checked.
func (s *identityService) subject(idToken string) string {
	if idToken == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		s.logger.WithError(err).Warn("Could not decode id token claims")
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

// ForgotPassword sends a password reset code
func (s *identityService) ForgotPassword(ctx context.Context, req *models.ForgotPasswordRequest) (*CodeDelivery, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	out, err := s.client.ForgotPassword(ctx, &cip.ForgotPasswordInput{
		ClientId:   aws.String(s.config.ClientID),
		Username:   aws.String(req.Email),
		SecretHash: s.secretHash(req.Email),
	})
	if err != nil {
		return nil, fmt.Errorf("forgot password: %w", err)
	}

	delivery := &CodeDelivery{}
	if d := out.CodeDeliveryDetails; d != nil {
		delivery.Destination = aws.ToString(d.Destination)
		delivery.DeliveryMedium = string(d.DeliveryMedium)
		delivery.AttributeName = aws.ToString(d.AttributeName)
	}
	return delivery, nil
}

// ConfirmForgotPassword sets a new password using a reset code
func (s *identityService) ConfirmForgotPassword(ctx context.Context, req *models.ConfirmForgotPasswordRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}

	_, err := s.client.ConfirmForgotPassword(ctx, &cip.ConfirmForgotPasswordInput{
		ClientId:         aws.String(s.config.ClientID),
		Username:         aws.String(req.Email),
		ConfirmationCode: aws.String(req.ConfirmationCode),
		Password:         aws.String(req.NewPassword),
		SecretHash:       s.secretHash(req.Email),
	})
	if err != nil {
		return fmt.Errorf("confirm forgot password: %w", err)
	}
	return nil
}

// GetUser returns a user and its attributes
func (s *identityService) GetUser(ctx context.Context, req *models.GetUserRequest) (*UserProfile, error) {
	if err := models.Validate(req); err != nil {
		return nil, err
	}

	out, err := s.client.AdminGetUser(ctx, &cip.AdminGetUserInput{
		UserPoolId: aws.String(s.config.UserPoolID),
		Username:   aws.String(req.Email),
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	profile := &UserProfile{
		Username:   aws.ToString(out.Username),
		UserStatus: string(out.UserStatus),
		Enabled:    out.Enabled,
		Attributes: make(map[string]string, len(out.UserAttributes)),
	}
	for _, attr := range out.UserAttributes {
		profile.Attributes[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
	}
	return profile, nil
}

// UpdateUser replaces the given attributes
func (s *identityService) UpdateUser(ctx context.Context, req *models.UpdateUserRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}

	names := make([]string, 0, len(req.AttributeUpdates))
	for name := range req.AttributeUpdates {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]types.AttributeType, 0, len(names))
	for _, name := range names {
		attrs = append(attrs, types.AttributeType{Name: aws.String(name), Value: aws.String(req.AttributeUpdates[name])})
	}

	_, err := s.client.AdminUpdateUserAttributes(ctx, &cip.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(s.config.UserPoolID),
		Username:       aws.String(req.Email),
		UserAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// DeleteUser removes a user from the pool
func (s *identityService) DeleteUser(ctx context.Context, req *models.DeleteUserRequest) error {
	if err := models.Validate(req); err != nil {
		return err
	}

	_, err := s.client.AdminDeleteUser(ctx, &cip.AdminDeleteUserInput{
		UserPoolId: aws.String(s.config.UserPoolID),
		Username:   aws.String(req.Email),
	})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
