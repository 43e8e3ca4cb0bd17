package storage

import (
	"bytes"
	"context"
	"fmt"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"
)

// GCSSink uploads objects with the Cloud Storage JSON API.
type GCSSink struct {
	service *gcs.Service
}

// NewGCSSink creates a sink. Pass the options from cloud.GoogleClientOptions,
// or option.WithEndpoint/WithHTTPClient in tests.
func NewGCSSink(ctx context.Context, opts ...option.ClientOption) (*GCSSink, error) {
	service, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}
	return &GCSSink{service: service}, nil
}

// Put stores data under bucket/key as image/jpeg.
func (g *GCSSink) Put(ctx context.Context, bucket, key string, data []byte) error {
	if err := checkArgs(bucket, key); err != nil {
		return err
	}

	obj := &gcs.Object{
		Name:        key,
		ContentType: ContentTypeJPEG,
	}
	_, err := g.service.Objects.Insert(bucket, obj).
		Media(bytes.NewReader(data), googleapi.ContentType(ContentTypeJPEG)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("gcs put %s/%s: %w", bucket, key, err)
	}
	return nil
}
