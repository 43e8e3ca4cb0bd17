// Package storage provides the object sinks frames are uploaded to.
package storage

import (
	"context"
	"errors"
)

// DefaultBucket is the bucket used when none is configured.
const DefaultBucket = "toucan-data"

// ContentTypeJPEG is attached to every uploaded object.
const ContentTypeJPEG = "image/jpeg"

// Backend names.
const (
	BackendS3  = "s3"
	BackendGCS = "gcs"
)

// Sentinel errors for common conditions.
var (
	// ErrNoBucket is returned when Put is called without a bucket.
	ErrNoBucket = errors.New("storage: bucket required")

	// ErrNoKey is returned when Put is called without a key.
	ErrNoKey = errors.New("storage: key required")
)

// Sink durably stores a named blob.
type Sink interface {
	Put(ctx context.Context, bucket, key string, data []byte) error
}

func checkArgs(bucket, key string) error {
	if bucket == "" {
		return ErrNoBucket
	}
	if key == "" {
		return ErrNoKey
	}
	return nil
}
