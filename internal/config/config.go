// Package config provides environment helpers for go-toucan commands.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names recognised by the agent.
const (
	EnvConfigFile    = "TOUCAN_CONFIG"
	EnvBucket        = "TOUCAN_BUCKET"
	EnvQueueURL      = "TOUCAN_QUEUE_URL"
	EnvInterval      = "TOUCAN_INTERVAL"
	EnvRetryPolicy   = "TOUCAN_RETRY_POLICY"
	EnvStorage       = "TOUCAN_STORAGE"
	EnvQueue         = "TOUCAN_QUEUE"
	EnvCameraDriver  = "TOUCAN_CAMERA_DRIVER"
	EnvCameraDevice  = "TOUCAN_CAMERA_DEVICE"
	EnvCameraPreset  = "TOUCAN_CAMERA_PRESET"
	EnvJPEGQuality   = "TOUCAN_JPEG_QUALITY"
	EnvKeyScheme     = "TOUCAN_KEY_SCHEME"
	EnvUploadTimeout = "TOUCAN_UPLOAD_TIMEOUT"
	EnvNotifyTimeout = "TOUCAN_NOTIFY_TIMEOUT"
	EnvS3Endpoint    = "TOUCAN_S3_ENDPOINT"
	EnvSQSEndpoint   = "TOUCAN_SQS_ENDPOINT"
	EnvAWSRegion     = "AWS_REGION"
	EnvAWSAccessKey  = "TOUCAN_AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey  = "TOUCAN_AWS_SECRET_ACCESS_KEY"
	EnvGoogleCreds   = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvLogLevel      = "LOG_LEVEL"
)

// String returns the value of key, or def if unset or blank.
func String(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// Int returns the integer value of key, or def if unset.
// A value that does not parse is an error rather than a silent default.
func Int(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

// Duration returns the duration value of key, or def if unset.
// Bare integers are read as seconds, so TOUCAN_INTERVAL=60 works.
func Duration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	return ParseDuration(v)
}

// ParseDuration parses a Go duration string or a bare number of seconds.
func ParseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", v)
	}
	return d, nil
}
