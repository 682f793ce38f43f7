package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSignature is returned when PayPal rejects a webhook signature
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrInvalidEvent is returned when a webhook body is not a JSON event
	ErrInvalidEvent = errors.New("invalid webhook event")

	// ErrSpreadsheet is returned when a processed event cannot be recorded
	ErrSpreadsheet = errors.New("failed to record payment")
)

// Subscription pipeline stages
const (
	StageProduct      = "product"
	StagePlan         = "plan"
	StageSubscription = "subscription"
)

// StageError reports a subscription pipeline step that completed without
// producing the id the next step needs
type StageError struct {
	Stage string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("paypal %s creation returned no id", e.Stage)
}

// IsStage reports whether err is a StageError for stage
func IsStage(err error, stage string) bool {
	var stageErr *StageError
	return errors.As(err, &stageErr) && stageErr.Stage == stage
}

// ChallengeError is returned when login needs another step, such as a
// forced password change, before tokens are issued
type ChallengeError struct {
	Name    string
	Session string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("authentication challenge required: %s", e.Name)
}
