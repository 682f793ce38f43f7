package config

import (
	"context"
	"fmt"
	"os"
	"sync"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"church-portal-api/internal/adapters/parameters"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "dev"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment
func AdaptConfigForServerless(config *Config) *Config {
	if !IsServerlessMode() {
		return config
	}

	// CloudWatch ingests one JSON object per line
	config.LogFormat = "json"

	// The Lambda filesystem is read-only apart from /tmp
	if config.Store.Type == "sqlite" {
		config.Database.Path = "/tmp/portal.db"
	}

	return config
}

// GetOptimizedConfig returns configuration for the current deployment mode.
// In Lambda, or when PARAMETER_STORE_ENABLED is set, values are overlaid from
// the SSM parameter store under /{PARAMETER_PREFIX}/{ENVIRONMENT}/.
func GetOptimizedConfig(ctx context.Context) (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	if IsServerlessMode() || config.Parameters.Enabled {
		if os.Getenv("ENVIRONMENT") == "" {
			return nil, fmt.Errorf("ENVIRONMENT must be set when reading the parameter store")
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		store := parameters.NewRetryableStore(parameters.NewSSMStore(ssm.NewFromConfig(awsCfg)), nil)
		config, err = ApplyParameters(ctx, config, store)
		if err != nil {
			return nil, err
		}
	}

	return AdaptConfigForServerless(config), nil
}
