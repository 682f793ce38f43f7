package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/sirupsen/logrus"

	"church-portal-api/internal/models"
)

const contactSubject = "Contact Us Form Submission"

// SESAPI is the subset of the SES client used by the email service
type SESAPI interface {
	SendEmail(ctx context.Context, in *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailConfig holds the addresses contact messages are sent between
type EmailConfig struct {
	Sender           string
	Recipient        string
	ConfigurationSet string
}

// emailService implements the EmailService interface
type emailService struct {
	client SESAPI
	config EmailConfig
	logger *logrus.Logger
}

// NewEmailService creates a new email service instance
func NewEmailService(client SESAPI, config EmailConfig, logger *logrus.Logger) EmailService {
	if logger == nil {
		logger = logrus.New()
	}
	return &emailService{client: client, config: config, logger: logger}
}

// SendContactMessage forwards a contact form submission and returns the SES
// message id. Replies go to the submitter.
func (s *emailService) SendContactMessage(ctx context.Context, req *models.ContactRequest) (string, error) {
	if err := models.Validate(req); err != nil {
		return "", err
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.config.Sender),
		Destination: &types.Destination{
			ToAddresses: []string{s.config.Recipient},
		},
		ReplyToAddresses: []string{req.Email},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(contactSubject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(contactBody(req)), Charset: aws.String("UTF-8")},
			},
		},
	}
	if s.config.ConfigurationSet != "" {
		input.ConfigurationSetName = aws.String(s.config.ConfigurationSet)
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("send contact message: %w", err)
	}

	messageID := aws.ToString(out.MessageId)
	s.logger.WithField("message_id", messageID).Info("Contact message sent")
	return messageID, nil
}

func contactBody(req *models.ContactRequest) string {
	return fmt.Sprintf("Name: %s\nEmail: %s\nMessage: %s", req.FirstName, req.Email, req.Message)
}
