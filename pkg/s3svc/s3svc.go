package s3svc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3tui/pkg/config"
)

// defaultRegion is used with custom endpoints when no region is configured.
const defaultRegion = "us-east-1"

// Service is the AWS SDK implementation of Gateway.
type Service struct {
	cfg         config.S3Config
	awsS3Client *s3.Client
	log         *slog.Logger
}

// NewS3Svc creates a new S3 service
// It requires a config.S3Config and a *s3.Client
// By default the logger is set to write to /dev/null
func NewS3Svc(cfg config.S3Config, s3Client *s3.Client) *Service {
	return &Service{
		cfg:         cfg,
		awsS3Client: s3Client,
		log:         slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(log *slog.Logger) {
	if log != nil {
		s.log = log
	}
}

// NewAwsConfig builds the aws.Config: static credentials when keys are set,
// the shared profile when a profile is set, the default chain otherwise.
func NewAwsConfig(ctx context.Context, cfg config.S3Config) (aws.Config, error) {
	region := cfg.Region
	if region == "" && cfg.Endpoint != "" {
		region = defaultRegion
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	switch {
	case cfg.AccessKey != "":
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.APIKey, "")))
	case cfg.SsoAwsProfile != "":
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.SsoAwsProfile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return awsCfg, fmt.Errorf("NewAwsConfig: error loading aws config: %w", err)
	}
	return awsCfg, nil
}

// NewS3Client creates the S3 client, pointing it to cfg.Endpoint when set.
func NewS3Client(awsCfg aws.Config, cfg config.S3Config) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})
}
