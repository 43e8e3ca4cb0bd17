// Package cloud bootstraps AWS and Google credentials for the object and
// notification sinks. Both paths reuse the shared httpc client.
package cloud

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/teslashibe/go-toucan/internal/httpc"
)

// AWSOptions configures LoadAWS.
type AWSOptions struct {
	// Region overrides the region from the default chain (AWS_REGION, profile).
	Region string

	// AccessKeyID and SecretAccessKey, when both set, replace the default
	// credential chain with static keys. Used against LocalStack/MinIO.
	AccessKeyID     string
	SecretAccessKey string

	// HTTPClient defaults to httpc.Client.
	HTTPClient *http.Client
}

// LoadAWS resolves an aws.Config from the default chain plus overrides.
func LoadAWS(ctx context.Context, opts AWSOptions) (aws.Config, error) {
	client := opts.HTTPClient
	if client == nil {
		client = httpc.Client
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(client),
	}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		return aws.Config{}, fmt.Errorf("load aws config: no region (set AWS_REGION)")
	}
	return cfg, nil
}
