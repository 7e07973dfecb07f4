package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT (or the
// service specific AWS_S3_ENDPOINT) is set every client targets that URL,
// which is how the service talks to LocalStack in development.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = os.Getenv("AWS_REGION")
	}

	if endpoint := CustomEndpoint(); endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
	}
	return cfg, nil
}

// CustomEndpoint returns the LocalStack style endpoint override, if any.
func CustomEndpoint() string {
	if endpoint := os.Getenv("AWS_S3_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	return os.Getenv("AWS_ENDPOINT")
}
