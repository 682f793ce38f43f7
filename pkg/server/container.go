package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"church-portal-api/internal/config"
	"church-portal-api/internal/database"
	"church-portal-api/internal/paypal"
	"church-portal-api/internal/repositories"
	dynamostore "church-portal-api/internal/repositories/dynamodb"
	sqlitestore "church-portal-api/internal/repositories/sqlite"
	"church-portal-api/internal/services"
	"church-portal-api/internal/sheets"
)

// Container holds the clients shared by every service. Services are built on
// first use so a function only needs the settings of the routes it serves.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	aws aws.Config

	mu     sync.Mutex
	stores repositories.Factory
	paypal *paypal.Client

	// SheetsOptions are passed to the Sheets client
	SheetsOptions []option.ClientOption
}

// NewContainer loads the AWS configuration for cfg.Region
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = logrus.New()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Container{Config: cfg, Logger: logger, aws: awsCfg}, nil
}

// IdentityService returns the user pool service
func (c *Container) IdentityService() (services.IdentityService, error) {
	if err := c.Config.Validate(config.SectionIdentity); err != nil {
		return nil, err
	}
	client := cognitoidentityprovider.NewFromConfig(c.aws)
	return services.NewIdentityService(client, services.IdentityConfig{
		UserPoolID:   c.Config.Cognito.UserPoolID,
		ClientID:     c.Config.Cognito.ClientID,
		ClientSecret: c.Config.Cognito.ClientSecret,
	}, c.Logger), nil
}

// EmailService returns the contact form service
func (c *Container) EmailService() (services.EmailService, error) {
	if err := c.Config.Validate(config.SectionEmail); err != nil {
		return nil, err
	}
	return services.NewEmailService(ses.NewFromConfig(c.aws), services.EmailConfig{
		Sender:           c.Config.Email.Sender,
		Recipient:        c.Config.Email.Recipient,
		ConfigurationSet: c.Config.Email.ConfigurationSet,
	}, c.Logger), nil
}

// PaymentService returns the PayPal order and subscription service
func (c *Container) PaymentService() (services.PaymentService, error) {
	client, err := c.payPalClient()
	if err != nil {
		return nil, err
	}
	return services.NewPaymentService(client, services.PaymentConfig{ProductName: c.Config.PayPal.ProductName}, c.Logger), nil
}

// WebhookService returns the webhook relay
func (c *Container) WebhookService(ctx context.Context) (services.WebhookService, error) {
	client, err := c.payPalClient()
	if err != nil {
		return nil, err
	}
	if err := c.Config.Validate(config.SectionSheets); err != nil {
		return nil, err
	}

	appender, err := sheets.NewAppender(ctx, sheets.Config{
		SpreadsheetID:   c.Config.Sheets.SpreadsheetID,
		Range:           c.Config.Sheets.Range,
		CredentialsJSON: c.Config.Sheets.CredentialsJSON,
	}, c.Logger, c.SheetsOptions...)
	if err != nil {
		return nil, err
	}
	return services.NewWebhookService(client, appender, c.Config.PayPal.WebhookID, c.Logger), nil
}

// DirectoryService returns the users directory service
func (c *Container) DirectoryService() (services.DirectoryService, error) {
	stores, err := c.storeFactory()
	if err != nil {
		return nil, err
	}
	return services.NewDirectoryService(stores.CreateItemStore(services.UsersCollection, services.UsersKeyAttr), c.Logger), nil
}

// AdminService returns the administrator accounts service
func (c *Container) AdminService() (services.AdminService, error) {
	stores, err := c.storeFactory()
	if err != nil {
		return nil, err
	}
	return services.NewAdminService(stores.CreateItemStore(services.AdminsCollection, services.AdminsKeyAttr), c.Logger), nil
}

func (c *Container) payPalClient() (*paypal.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paypal != nil {
		return c.paypal, nil
	}
	if err := c.Config.Validate(config.SectionPayPal); err != nil {
		return nil, err
	}
	c.paypal = paypal.NewClient(paypal.Config{
		ClientID:  c.Config.PayPal.ClientID,
		Secret:    c.Config.PayPal.Secret,
		BaseURL:   c.Config.PayPal.BaseURL,
		BrandName: c.Config.PayPal.BrandName,
		ReturnURL: c.Config.PayPal.ReturnURL,
		CancelURL: c.Config.PayPal.CancelURL,
	}, c.Logger)
	return c.paypal, nil
}

func (c *Container) storeFactory() (repositories.Factory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stores != nil {
		return c.stores, nil
	}
	if err := c.Config.Validate(config.SectionStore); err != nil {
		return nil, err
	}

	switch c.Config.Store.Type {
	case "sqlite":
		factory, err := sqlitestore.NewSQLiteFactory(&database.ConnectionConfig{
			DatabasePath: c.Config.Database.Path,
			MaxOpenConns: c.Config.Database.MaxOpenConns,
			Logger:       c.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		c.stores = factory
	default:
		client := dynamodb.NewFromConfig(c.aws, func(o *dynamodb.Options) {
			if c.Config.Store.Endpoint != "" {
				o.BaseEndpoint = aws.String(c.Config.Store.Endpoint)
			}
		})
		c.stores = dynamostore.NewDynamoFactory(client, map[string]string{
			services.UsersCollection:  c.Config.Store.UsersTable,
			services.AdminsCollection: c.Config.Store.AdminsTable,
		}, c.Logger)
	}

	c.Logger.WithField("store", c.Config.Store.Type).Info("Key-value store ready")
	return c.stores, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stores != nil {
		if err := c.stores.Close(); err != nil {
			return fmt.Errorf("failed to close store: %w", err)
		}
		c.stores = nil
	}
	return nil
}
