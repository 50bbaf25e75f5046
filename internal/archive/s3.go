// Package archive stores dashboard exports in S3.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"daftar/internal/ledger"
	"daftar/internal/log"
)

type Config struct {
	Bucket  string
	Prefix  string
	Region  string
	Profile string // Primarily for dev purposes
}

// objectPutter is the part of *s3.Client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archive struct {
	client objectPutter
	bucket string
	prefix string
	now    func() time.Time
	logger *log.Logger
}

// LoadAWSConfig resolves credentials and region from the default chain.
func (c Config) LoadAWSConfig(ctx context.Context) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(c.Region)}
	if c.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return cfg, nil
}

// NewS3Archive creates an archive backed by a real S3 client.
func NewS3Archive(ctx context.Context, cfg Config, logger *log.Logger) (*S3Archive, error) {
	awsCfg, err := cfg.LoadAWSConfig(ctx)
	if err != nil {
		return nil, err
	}
	return newS3Archive(s3.NewFromConfig(awsCfg), cfg, logger)
}

func newS3Archive(client objectPutter, cfg Config, logger *log.Logger) (*S3Archive, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, errors.New("missing S3 bucket")
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &S3Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		now:    time.Now,
		logger: logger.WithComponent(log.ComponentArchive),
	}, nil
}

// Key returns the object key for an export taken at t:
// <prefix><UTC timestamp>/dashboard_stats.csv.
func (a *S3Archive) Key(t time.Time) string {
	stamp := t.UTC().Format("20060102T150405Z")
	return strings.TrimPrefix(path.Join(a.prefix, stamp, ledger.ExportFilename), "/")
}

// Upload stores one CSV export and returns its key.
func (a *S3Archive) Upload(ctx context.Context, csv []byte) (string, error) {
	key := a.Key(a.now())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(a.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(csv),
		ContentType:        aws.String(ledger.ExportContentType),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", ledger.ExportFilename)),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", a.bucket, key, err)
	}

	a.logger.InfoContext(ctx, "Export archived",
		log.FieldOperation, log.OpExport,
		"bucket", a.bucket,
		"key", key,
		"bytes", len(csv))
	return key, nil
}
