// internal/client/s3.go
package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3 struct {
	Client   *s3.Client
	Config   *aws.Config
	Endpoint string
}

// S3Target is a parsed "bucket[:region[:endpoint]]" argument.
type S3Target struct {
	Bucket   string
	Region   string
	Endpoint string
}

// ParseS3Target splits bucket[:region[:endpoint]]. The endpoint keeps any
// colons of its own, e.g. "site:eu-west-1:https://s3.example.com:9000".
func ParseS3Target(s string) (S3Target, error) {
	parts := strings.SplitN(s, ":", 3)
	target := S3Target{Bucket: strings.TrimSpace(parts[0])}
	if target.Bucket == "" {
		return S3Target{}, fmt.Errorf("bucket name is required for S3")
	}
	if len(parts) > 1 {
		target.Region = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		target.Endpoint = strings.TrimSpace(parts[2])
	}
	return target, nil
}

func NewS3(ctx context.Context, endpoint, region, accessKey, secretKey string) (*S3, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(region),
	}

	if accessKey != "" && secretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3{
		Client: s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.Region = region
			if endpoint == "" {
				return
			}

			// custom endpoints are mostly MinIO-like providers
			o.UsePathStyle = true
			o.BaseEndpoint = aws.String(endpoint)
			if strings.HasPrefix(endpoint, "http://") {
				o.EndpointOptions.DisableHTTPS = true
				o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
				o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
			}
		}),
		Config:   &cfg,
		Endpoint: endpoint,
	}, nil
}
