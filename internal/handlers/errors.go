package handlers

import (
	"errors"
	"net/http"

	"github.com/aws/smithy-go"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
	"church-portal-api/internal/paypal"
	"church-portal-api/internal/repositories"
	"church-portal-api/internal/services"
	"church-portal-api/pkg/lambda"
)

// ErrorResponse documents the error body for swagger
type ErrorResponse = lambda.ErrorBody

const internalErrorMessage = "An internal server error occurred"

// errorRule maps one class of error to a response. A zero status takes the
// status carried by the error; an empty message passes the provider's
// message through.
type errorRule struct {
	match     func(error) bool
	status    int
	errorType string
	message   string
}

// errorTable is the ordered list of rules for one operation. The first
// matching rule wins.
type errorTable struct {
	operation string
	rules     []errorRule
	fallback  errorRule
}

func isErr[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

func isSentinel(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func isKind(kind paypal.Kind) func(error) bool {
	return func(err error) bool { return paypal.IsKind(err, kind) }
}

func isStage(stage string) func(error) bool {
	return func(err error) bool { return services.IsStage(err, stage) }
}

type httpStatuser interface {
	HTTPStatus() int
}

// providerMessage extracts the message a provider attached to err
func providerMessage(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ppErr *paypal.APIError
	if errors.As(err, &ppErr) {
		return ppErr.Message
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorMessage() != "" {
		return apiErr.ErrorMessage()
	}
	return err.Error()
}

// dispatch turns err into a response using table and logs the outcome
func dispatch(logger *logrus.Logger, table errorTable, err error) *lambda.Response {
	rule := table.fallback
	if rule.errorType == "" {
		rule = errorRule{status: http.StatusInternalServerError, errorType: "InternalError", message: internalErrorMessage}
	}
	for _, r := range table.rules {
		if r.match(err) {
			rule = r
			break
		}
	}

	status := rule.status
	if status == 0 {
		var hs httpStatuser
		if errors.As(err, &hs) && hs.HTTPStatus() >= 400 {
			status = hs.HTTPStatus()
		} else {
			status = http.StatusInternalServerError
		}
	}
	message := rule.message
	if message == "" {
		message = providerMessage(err)
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"operation":  table.operation,
		"error_type": rule.errorType,
		"status":     status,
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	return lambda.Error(status, rule.errorType, message)
}

var validationRule = errorRule{match: isErr[*models.ValidationError], status: http.StatusBadRequest, errorType: "ValidationError"}

// paypalRules classify failures of any PayPal call
var paypalRules = []errorRule{
	validationRule,
	{match: isSentinel(paypal.ErrMissingAccessToken), status: http.StatusInternalServerError, errorType: "AccessTokenError", message: "Failed to obtain PayPal access token"},
	{match: isKind(paypal.KindTimeout), status: http.StatusGatewayTimeout, errorType: "TimeoutError", message: "The request to PayPal timed out"},
	{match: isKind(paypal.KindConnection), status: http.StatusServiceUnavailable, errorType: "ConnectionError", message: "Unable to connect to PayPal"},
	{match: isKind(paypal.KindRequest), status: http.StatusInternalServerError, errorType: "RequestError", message: "The request to PayPal failed"},
	{match: isErr[*paypal.APIError], errorType: "PayPalAPIError"},
	{match: isErr[*paypal.IncompleteResponseError], status: http.StatusInternalServerError, errorType: "IncompleteResponse", message: "Incomplete response from PayPal"},
}

// storeRules classify key-value store failures for entity
func storeRules(entity string) []errorRule {
	return []errorRule{
		validationRule,
		{match: isSentinel(repositories.ErrInvalidID), status: http.StatusBadRequest, errorType: "ValidationError", message: entity + " id is required"},
		{match: repositories.IsNotFound, status: http.StatusNotFound, errorType: "NotFound", message: entity + " not found"},
		{match: repositories.IsDuplicate, status: http.StatusConflict, errorType: "Conflict", message: entity + " already exists"},
	}
}

func combine(groups ...[]errorRule) []errorRule {
	var rules []errorRule
	for _, g := range groups {
		rules = append(rules, g...)
	}
	return rules
}
