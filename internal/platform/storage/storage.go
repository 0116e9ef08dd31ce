// Copyright (c) 2026 PixelPulse. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage persists uploaded files in S3-compatible object storage
(Cloudflare R2, MinIO or AWS S3).

Objects are public-read through a CDN or bucket domain; the API never serves
file bytes itself, it only returns the public URL.
*/
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrDisabled is returned by constructors when no bucket is configured.
var ErrDisabled = errors.New("storage: no bucket configured")

// BlobStore stores objects and reports their public URL.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// S3Config holds the object storage settings.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicURL       string
}

// s3API is the part of [*s3.Client] the store calls.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store is a [BlobStore] backed by an S3-compatible bucket.
type S3Store struct {
	client    s3API
	bucket    string
	publicURL string
	logger    *slog.Logger
}

/*
NewS3Store builds the S3 client from cfg.

Static credentials are used when both keys are set; otherwise the default AWS
credential chain applies. A custom endpoint switches to path-style addressing,
which R2 and MinIO expect.

Returns:
  - *S3Store
  - error: [ErrDisabled] when cfg.Bucket is empty, or an AWS config error
*/
func NewS3Store(ctx context.Context, cfg S3Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, ErrDisabled
	}

	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicURL := cfg.PublicURL
	if publicURL == "" && cfg.Endpoint != "" {
		publicURL = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	logger.Info("object_storage_configured",
		slog.String("bucket", cfg.Bucket),
		slog.String("public_url", publicURL),
	)

	return newS3Store(client, cfg.Bucket, publicURL, logger), nil
}

func newS3Store(client s3API, bucket, publicURL string, logger *slog.Logger) *S3Store {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

// Put uploads body under key and returns its public URL.
func (store *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := store.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("storage: put %s failed: %w", key, err)
	}

	store.logger.InfoContext(ctx, "object_stored",
		slog.String("key", key),
		slog.Int64("size", size),
	)

	return store.URL(key), nil
}

// URL returns the public URL of key.
func (store *S3Store) URL(key string) string {
	return store.publicURL + "/" + strings.TrimLeft(key, "/")
}
