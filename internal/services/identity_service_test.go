package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"church-portal-api/internal/models"
)

func newIdentity(fake *fakeCognito, secret string) IdentityService {
	return NewIdentityService(fake, IdentityConfig{UserPoolID: "pool", ClientID: "client", ClientSecret: secret}, quietLogger())
}

func TestSignUp(t *testing.T) {
	fake := &fakeCognito{}
	svc := newIdentity(fake, "")

	result, err := svc.SignUp(context.Background(), &models.SignUpRequest{
		Email: "ann@example.com", Password: "Passw0rd!", FirstName: "Ann", LastName: "Lee",
	})
	require.NoError(t, err)
	assert.Equal(t, "sub-123", result.UserSub)
	assert.False(t, result.UserConfirmed)

	in := fake.signUp
	require.NotNil(t, in)
	assert.Equal(t, "ann@example.com", aws.ToString(in.Username))
	assert.Nil(t, in.SecretHash)

	attrs := map[string]string{}
	for _, a := range in.UserAttributes {
		attrs[aws.ToString(a.Name)] = aws.ToString(a.Value)
	}
	assert.Equal(t, map[string]string{"email": "ann@example.com", "custom:firstName": "Ann", "custom:lastName": "Lee"}, attrs)
}

func TestIdentityValidationSkipsProvider(t *testing.T) {
	ctx := context.Background()
	fake := &fakeCognito{}
	svc := newIdentity(fake, "")

	tests := []struct {
		name    string
		call    func() error
		message string
	}{
		{"signup", func() error {
			_, err := svc.SignUp(ctx, &models.SignUpRequest{Email: "a@b.c"})
			return err
		}, "Email, password, first name, and last name are required"},
		{"login", func() error {
			_, err := svc.Login(ctx, &models.LoginRequest{Email: "", Password: ""})
			return err
		}, "Email and password are required"},
		{"confirm email", func() error {
			return svc.ConfirmEmail(ctx, &models.ConfirmEmailRequest{AccessToken: "tok"})
		}, "Access token and confirmation code are required"},
		{"get user", func() error {
			_, err := svc.GetUser(ctx, &models.GetUserRequest{})
			return err
		}, "Missing required 'email' query parameter"},
		{"update user", func() error {
			return svc.UpdateUser(ctx, &models.UpdateUserRequest{Email: "a@b.c"})
		}, "Attribute updates are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
	assert.Empty(t, fake.calls)
}

func TestLogin(t *testing.T) {
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-sub-1", "email": "ann@example.com"}).
		SignedString([]byte("not-the-pool-key"))
	require.NoError(t, err)

	fake := &fakeCognito{authOut: &cip.InitiateAuthOutput{AuthenticationResult: &types.AuthenticationResultType{
		IdToken:      aws.String(idToken),
		AccessToken:  aws.String("access"),
		RefreshToken: aws.String("refresh"),
		ExpiresIn:    3600,
		TokenType:    aws.String("Bearer"),
	}}}
	svc := newIdentity(fake, "s3cret")

	result, err := svc.Login(context.Background(), &models.LoginRequest{Email: "ann@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "user-sub-1", result.Sub)
	assert.Equal(t, "access", result.AccessToken)
	assert.Equal(t, int32(3600), result.ExpiresIn)

	params := fake.initiateAuth.AuthParameters
	assert.Equal(t, types.AuthFlowTypeUserPasswordAuth, fake.initiateAuth.AuthFlow)
	assert.Equal(t, "ann@example.com", params["USERNAME"])

	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte("ann@example.comclient"))
	assert.Equal(t, base64.StdEncoding.EncodeToString(mac.Sum(nil)), params["SECRET_HASH"])
}

func TestLoginChallenge(t *testing.T) {
	fake := &fakeCognito{authOut: &cip.InitiateAuthOutput{
		ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
		Session:       aws.String("session-1"),
	}}

	_, err := newIdentity(fake, "").Login(context.Background(), &models.LoginRequest{Email: "a@b.c", Password: "pw"})
	var challenge *ChallengeError
	require.ErrorAs(t, err, &challenge)
	assert.Equal(t, "NEW_PASSWORD_REQUIRED", challenge.Name)
	assert.Equal(t, "session-1", challenge.Session)
}

func TestIdentityProviderErrorsAreWrapped(t *testing.T) {
	providerErr := &types.UserNotFoundException{Message: aws.String("User does not exist.")}
	fake := &fakeCognito{err: providerErr}
	svc := newIdentity(fake, "")

	err := svc.DeleteUser(context.Background(), &models.DeleteUserRequest{Email: "a@b.c"})
	var notFound *types.UserNotFoundException
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"AdminDeleteUser"}, fake.calls)
}

func TestForgotPassword(t *testing.T) {
	fake := &fakeCognito{forgotOut: &cip.ForgotPasswordOutput{CodeDeliveryDetails: &types.CodeDeliveryDetailsType{
		Destination:    aws.String("a***@e***.com"),
		DeliveryMedium: types.DeliveryMediumTypeEmail,
		AttributeName:  aws.String("email"),
	}}}

	delivery, err := newIdentity(fake, "s").ForgotPassword(context.Background(), &models.ForgotPasswordRequest{Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "a***@e***.com", delivery.Destination)
	assert.Equal(t, "EMAIL", delivery.DeliveryMedium)
	assert.NotNil(t, fake.forgot.SecretHash)
}

func TestGetAndUpdateUser(t *testing.T) {
	fake := &fakeCognito{getUserOut: &cip.AdminGetUserOutput{
		Username:   aws.String("ann@example.com"),
		UserStatus: types.UserStatusTypeConfirmed,
		Enabled:    true,
		UserAttributes: []types.AttributeType{
			{Name: aws.String("email"), Value: aws.String("ann@example.com")},
			{Name: aws.String("custom:firstName"), Value: aws.String("Ann")},
		},
	}}
	svc := newIdentity(fake, "")
	ctx := context.Background()

	profile, err := svc.GetUser(ctx, &models.GetUserRequest{Email: "ann@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "CONFIRMED", profile.UserStatus)
	assert.True(t, profile.Enabled)
	assert.Equal(t, "Ann", profile.Attributes["custom:firstName"])

	err = svc.UpdateUser(ctx, &models.UpdateUserRequest{
		Email:            "ann@example.com",
		AttributeUpdates: map[string]string{"custom:lastName": "Li", "custom:firstName": "Anne"},
	})
	require.NoError(t, err)
	require.Len(t, fake.updateAttrs.UserAttributes, 2)
	assert.Equal(t, "custom:firstName", aws.ToString(fake.updateAttrs.UserAttributes[0].Name))
}
