package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"church-portal-api/internal/adapters/parameters"
)

// parameterKeys maps parameter names, relative to /{prefix}/{environment}/,
// to the environment keys they override
var parameterKeys = map[string]string{
	"cognito/user_pool_id":    "COGNITO_USER_POOL_ID",
	"cognito/client_id":       "COGNITO_CLIENT_ID",
	"cognito/client_secret":   "COGNITO_CLIENT_SECRET",
	"email/sender":            "SENDER_EMAIL",
	"email/recipient":         "RECIPIENT_EMAIL",
	"email/configuration_set": "SES_CONFIGURATION_SET",
	"paypal/client_id":        "PAYPAL_CLIENT_ID",
	"paypal/secret":           "PAYPAL_SECRET",
	"paypal/base_url":         "PAYPAL_BASE_URL",
	"paypal/webhook_id":       "PAYPAL_WEBHOOK_ID",
	"paypal/return_url":       "PAYPAL_RETURN_URL",
	"paypal/cancel_url":       "PAYPAL_CANCEL_URL",
	"sheets/spreadsheet_id":   "SPREADSHEET_ID",
	"sheets/range":            "SHEETS_RANGE",
	"sheets/credentials_json": "GOOGLE_CREDENTIALS_JSON",
	"store/users_table":       "USERS_TABLE",
	"store/admins_table":      "ADMINS_TABLE",
}

// ParameterPath returns the parameter store path for the configured environment
func (c *Config) ParameterPath() string {
	return fmt.Sprintf("/%s/%s/", strings.Trim(c.Parameters.Prefix, "/"), c.Environment)
}

// ApplyParameters overlays values read from the parameter store onto cfg.
// Parameter values take precedence over environment variables.
func ApplyParameters(ctx context.Context, cfg *Config, store parameters.Store) (*Config, error) {
	if strings.TrimSpace(cfg.Environment) == "" {
		return nil, fmt.Errorf("ENVIRONMENT must be set to load parameters")
	}

	values, err := store.GetByPath(ctx, cfg.ParameterPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}

	applied := 0
	for name, value := range values {
		key, ok := parameterKeys[name]
		if !ok {
			continue
		}
		viper.Set(key, value)
		applied++
	}
	if applied == 0 {
		return cfg, nil
	}

	overlaid := fromViper()
	overlaid.Environment = cfg.Environment
	return overlaid, nil
}
