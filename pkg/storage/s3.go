package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures NewS3Sink.
type S3Options struct {
	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string

	// PathStyle forces bucket-in-path addressing; implied by Endpoint.
	PathStyle bool
}

// S3Sink uploads objects with PutObject.
type S3Sink struct {
	client *s3.Client
}

// NewS3Sink creates a sink from a resolved AWS config.
func NewS3Sink(cfg aws.Config, opts S3Options) *S3Sink {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
		if opts.PathStyle {
			o.UsePathStyle = true
		}
		// Single-shot PUT of a seekable body; no trailing checksum needed.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	return &S3Sink{client: client}
}

// Put stores data under bucket/key as image/jpeg.
func (s *S3Sink) Put(ctx context.Context, bucket, key string, data []byte) error {
	if err := checkArgs(bucket, key); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(ContentTypeJPEG),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s/%s: %w", bucket, key, err)
	}
	return nil
}
