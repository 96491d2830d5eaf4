package awsutil

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// DevRegion is the region local emulators are addressed in.
const DevRegion = "us-east-1"

// LoadConfig uses dummy static credentials in dev mode, for DynamoDB Local and
// ElasticMQ. Otherwise the default chain applies (task role on Fargate).
func LoadConfig(ctx context.Context, devMode bool) (aws.Config, error) {
	if !devMode {
		return config.LoadDefaultConfig(ctx)
	}
	return config.LoadDefaultConfig(ctx,
		config.WithRegion(DevRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("dummy", "dummy", ""),
		),
	)
}

// Endpoint is the BaseEndpoint override for a client: the emulator URL in dev
// mode, nil for the regular AWS endpoints.
func Endpoint(devMode bool, endpoint string) *string {
	if !devMode || endpoint == "" {
		return nil
	}
	return aws.String(endpoint)
}
