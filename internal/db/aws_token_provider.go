package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"

	"github.com/vvka-141/psqlc/pkg/psqlc"
)

// rdsTokenLifetime is how long an RDS IAM token is accepted.
const rdsTokenLifetime = 15 * time.Minute

// AWSIAMTokenProvider builds RDS IAM authentication tokens using the default
// AWS credential chain (environment, shared config, instance roles).
type AWSIAMTokenProvider struct {
	region string
}

// NewAWSIAMTokenProvider creates a token provider for AWS RDS IAM authentication.
func NewAWSIAMTokenProvider(region string) (*AWSIAMTokenProvider, error) {
	if region == "" {
		return nil, fmt.Errorf("AWS IAM auth requires a region ($AWS_REGION or auth.aws_region)")
	}
	return &AWSIAMTokenProvider{region: region}, nil
}

// GetToken signs a token for params' endpoint and user.
func (p *AWSIAMTokenProvider) GetToken(ctx context.Context, params psqlc.ResolvedConnection) (string, time.Time, error) {
	if params.User == "" {
		return "", time.Time{}, fmt.Errorf("AWS IAM auth requires database username")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	token, err := auth.BuildAuthToken(ctx, params.Addr(), p.region, params.User, cfg.Credentials)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}
	return token, time.Now().Add(rdsTokenLifetime), nil
}

func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("AWSIAMTokenProvider(region=%s)", p.region)
}
