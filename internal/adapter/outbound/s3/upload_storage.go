package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/uniedit/seeder/internal/model"
	"github.com/uniedit/seeder/internal/port/outbound"
)

// ProviderName is recorded on upload metadata written through this provider.
const ProviderName = "aws-s3"

// Config holds S3/R2 storage configuration.
type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Prefix          string
	PublicURL       string
}

// NewClient creates an S3 client for an S3-compatible endpoint.
func NewClient(ctx context.Context, cfg *Config) (*s3.Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, errors.New("incomplete S3 configuration")
	}

	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKeyID,
		cfg.SecretAccessKey,
		"",
	)

	// R2 uses "auto" but the SDK needs a non-empty region
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// UploadStorageAdapter implements StorageProviderPort using S3.
type UploadStorageAdapter struct {
	client    *s3.Client
	bucket    string
	prefix    string
	publicURL string
}

// NewUploadStorageAdapter creates a new upload storage adapter.
func NewUploadStorageAdapter(client *s3.Client, cfg *Config) *UploadStorageAdapter {
	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" && cfg.Endpoint != "" {
		publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return &UploadStorageAdapter{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    cfg.Prefix,
		publicURL: publicURL,
	}
}

// Name returns the provider name.
func (a *UploadStorageAdapter) Name() string {
	return ProviderName
}

func (a *UploadStorageAdapter) key(file *model.FileDescriptor) string {
	return a.prefix + file.Key()
}

// Upload puts the descriptor's content under <prefix><hash><ext>.
func (a *UploadStorageAdapter) Upload(ctx context.Context, file *model.FileDescriptor) error {
	key := a.key(file)

	// The SDK computes payload checksums and needs a seekable body for that.
	var body io.Reader = bytes.NewReader(file.Buffer)
	size := int64(len(file.Buffer))
	if rs, ok := file.Stream.(io.ReadSeeker); ok {
		body = rs
		size = file.SizeBytes
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
	}
	if file.Mime != "" {
		input.ContentType = aws.String(file.Mime)
	}

	if _, err := a.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload object: %w", err)
	}

	if a.publicURL != "" {
		file.URL = a.publicURL + "/" + key
	} else {
		file.URL = fmt.Sprintf("https://%s.s3.amazonaws.com/%s", a.bucket, key)
	}
	return nil
}

// Compile-time check
var _ outbound.StorageProviderPort = (*UploadStorageAdapter)(nil)
