package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Region      string
	LogLevel    string
	LogFormat   string
	Cognito     CognitoConfig
	Email       EmailConfig
	PayPal      PayPalConfig
	Sheets      SheetsConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Parameters  ParameterConfig
	Server      ServerConfig
}

// CognitoConfig holds the user pool configuration
type CognitoConfig struct {
	UserPoolID   string
	ClientID     string
	ClientSecret string
}

// EmailConfig holds contact form delivery configuration
type EmailConfig struct {
	Sender           string
	Recipient        string
	ConfigurationSet string
}

// PayPalConfig holds PayPal REST API configuration
type PayPalConfig struct {
	ClientID    string
	Secret      string
	BaseURL     string
	WebhookID   string
	BrandName   string
	ProductName string
	ReturnURL   string
	CancelURL   string
}

// SheetsConfig holds the spreadsheet used for payment logging
type SheetsConfig struct {
	SpreadsheetID   string
	Range           string
	CredentialsJSON string
}

// StoreConfig holds key-value store configuration
type StoreConfig struct {
	Type        string // "dynamodb" or "sqlite"
	UsersTable  string
	AdminsTable string
	Endpoint    string
}

// DatabaseConfig holds the local SQLite configuration
type DatabaseConfig struct {
	Path         string
	MaxOpenConns int
}

// ParameterConfig controls loading configuration from the parameter store
type ParameterConfig struct {
	Enabled bool
	Prefix  string
}

// ServerConfig holds dev server limits
type ServerConfig struct {
	RateLimit    float64
	RateBurst    int
	MaxBodyBytes int64
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("AWS_REGION", "us-west-1")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com")
	viper.SetDefault("PAYPAL_BRAND_NAME", "Church Portal")
	viper.SetDefault("PAYPAL_PRODUCT_NAME", "Recurring Donation")
	viper.SetDefault("SHEETS_RANGE", "Sheet1!A:E")
	viper.SetDefault("STORE_TYPE", "dynamodb")
	viper.SetDefault("USERS_TABLE", "Users")
	viper.SetDefault("ADMINS_TABLE", "AdminTable")
	viper.SetDefault("DB_PATH", "./data/portal.db")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 1)
	viper.SetDefault("PARAMETER_STORE_ENABLED", false)
	viper.SetDefault("PARAMETER_PREFIX", "/church-portal")
	viper.SetDefault("RATE_LIMIT_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("MAX_BODY_BYTES", 1<<20)

	return fromViper(), nil
}

func fromViper() *Config {
	usersTable := viper.GetString("USERS_TABLE")
	// DYNAMODB_TABLE is the older name of the users table setting
	if table := viper.GetString("DYNAMODB_TABLE"); table != "" && os.Getenv("USERS_TABLE") == "" {
		usersTable = table
	}

	return &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		Region:      viper.GetString("AWS_REGION"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		LogFormat:   viper.GetString("LOG_FORMAT"),
		Cognito: CognitoConfig{
			UserPoolID:   viper.GetString("COGNITO_USER_POOL_ID"),
			ClientID:     viper.GetString("COGNITO_CLIENT_ID"),
			ClientSecret: viper.GetString("COGNITO_CLIENT_SECRET"),
		},
		Email: EmailConfig{
			Sender:           viper.GetString("SENDER_EMAIL"),
			Recipient:        viper.GetString("RECIPIENT_EMAIL"),
			ConfigurationSet: viper.GetString("SES_CONFIGURATION_SET"),
		},
		PayPal: PayPalConfig{
			ClientID:    viper.GetString("PAYPAL_CLIENT_ID"),
			Secret:      viper.GetString("PAYPAL_SECRET"),
			BaseURL:     strings.TrimRight(viper.GetString("PAYPAL_BASE_URL"), "/"),
			WebhookID:   viper.GetString("PAYPAL_WEBHOOK_ID"),
			BrandName:   viper.GetString("PAYPAL_BRAND_NAME"),
			ProductName: viper.GetString("PAYPAL_PRODUCT_NAME"),
			ReturnURL:   viper.GetString("PAYPAL_RETURN_URL"),
			CancelURL:   viper.GetString("PAYPAL_CANCEL_URL"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   viper.GetString("SPREADSHEET_ID"),
			Range:           viper.GetString("SHEETS_RANGE"),
			CredentialsJSON: viper.GetString("GOOGLE_CREDENTIALS_JSON"),
		},
		Store: StoreConfig{
			Type:        strings.ToLower(viper.GetString("STORE_TYPE")),
			UsersTable:  usersTable,
			AdminsTable: viper.GetString("ADMINS_TABLE"),
			Endpoint:    viper.GetString("DYNAMODB_ENDPOINT"),
		},
		Database: DatabaseConfig{
			Path:         viper.GetString("DB_PATH"),
			MaxOpenConns: viper.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Parameters: ParameterConfig{
			Enabled: viper.GetBool("PARAMETER_STORE_ENABLED"),
			Prefix:  viper.GetString("PARAMETER_PREFIX"),
		},
		Server: ServerConfig{
			RateLimit:    viper.GetFloat64("RATE_LIMIT_RPS"),
			RateBurst:    viper.GetInt("RATE_LIMIT_BURST"),
			MaxBodyBytes: viper.GetInt64("MAX_BODY_BYTES"),
		},
	}
}

// Section names a group of settings a function needs
type Section string

const (
	SectionIdentity Section = "identity"
	SectionEmail    Section = "email"
	SectionPayPal   Section = "paypal"
	SectionSheets   Section = "sheets"
	SectionStore    Section = "store"
)

// Validate checks that every setting required by the given sections is present
func (c *Config) Validate(sections ...Section) error {
	var missing []string
	require := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	for _, s := range sections {
		switch s {
		case SectionIdentity:
			require("COGNITO_USER_POOL_ID", c.Cognito.UserPoolID)
			require("COGNITO_CLIENT_ID", c.Cognito.ClientID)
		case SectionEmail:
			require("SENDER_EMAIL", c.Email.Sender)
			require("RECIPIENT_EMAIL", c.Email.Recipient)
		case SectionPayPal:
			require("PAYPAL_CLIENT_ID", c.PayPal.ClientID)
			require("PAYPAL_SECRET", c.PayPal.Secret)
			require("PAYPAL_BASE_URL", c.PayPal.BaseURL)
		case SectionSheets:
			require("SPREADSHEET_ID", c.Sheets.SpreadsheetID)
			require("GOOGLE_CREDENTIALS_JSON", c.Sheets.CredentialsJSON)
		case SectionStore:
			switch c.Store.Type {
			case "dynamodb":
				require("USERS_TABLE", c.Store.UsersTable)
				require("ADMINS_TABLE", c.Store.AdminsTable)
			case "sqlite":
				require("DB_PATH", c.Database.Path)
			default:
				return fmt.Errorf("unsupported store type %q", c.Store.Type)
			}
		default:
			return fmt.Errorf("unknown config section %q", s)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
