// Package agent wires the ingestion loop to a camera, an object store and a
// queue, and manages the process lifecycle.
package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/teslashibe/go-toucan/internal/config"
	"github.com/teslashibe/go-toucan/pkg/camera"
	"github.com/teslashibe/go-toucan/pkg/ingest"
	"github.com/teslashibe/go-toucan/pkg/notify"
	"github.com/teslashibe/go-toucan/pkg/storage"
)

// Config holds all configuration for the agent.
// Flag parsing is done in cmd/toucan/main.go; this struct is data only.
type Config struct {
	// Bucket and Queue are the upload and notification targets.
	Bucket string
	Queue  string

	// Storage and QueueBackend select the cloud backends.
	Storage      string // "s3" or "gcs"
	QueueBackend string // "sqs" or "pubsub"

	// Loop behaviour.
	Interval      time.Duration
	Retry         ingest.RetryPolicy
	MaxCycles     int
	KeyScheme     string // "v4" or "v7"
	UploadTimeout time.Duration
	NotifyTimeout time.Duration

	// Camera configuration. Preset, if set, overrides Width and Height.
	Camera camera.Config
	Preset string

	// AWS settings. Endpoints point the SDK at S3/SQS compatible services.
	Region      string
	S3Endpoint  string
	SQSEndpoint string

	// Static AWS keys for those services. Both or neither; empty uses the
	// SDK default credential chain.
	AccessKeyID     string
	SecretAccessKey string

	// GoogleCredentials is a service account JSON file. Empty uses ADC.
	GoogleCredentials string

	// LogLevel is debug, info, warn or error.
	LogLevel string
}

// DefaultConfig returns sensible defaults. Queue has no default.
func DefaultConfig() Config {
	loop := ingest.DefaultConfig()
	return Config{
		Bucket:        loop.Bucket,
		Storage:       storage.BackendS3,
		QueueBackend:  notify.BackendSQS,
		Interval:      loop.Interval,
		Retry:         loop.Retry,
		KeyScheme:     ingest.KeySchemeV4,
		UploadTimeout: loop.UploadTimeout,
		NotifyTimeout: loop.NotifyTimeout,
		Camera:        camera.DefaultConfig(),
		LogLevel:      "info",
	}
}

// fileConfig is the JSON file layout. Durations are strings ("30s" or "30").
type fileConfig struct {
	Bucket            string      `json:"bucket,omitempty"`
	Queue             string      `json:"queue,omitempty"`
	Storage           string      `json:"storage,omitempty"`
	QueueBackend      string      `json:"queue_backend,omitempty"`
	Interval          string      `json:"interval,omitempty"`
	Retry             string      `json:"retry,omitempty"`
	MaxCycles         *int        `json:"max_cycles,omitempty"`
	KeyScheme         string      `json:"key_scheme,omitempty"`
	UploadTimeout     string      `json:"upload_timeout,omitempty"`
	NotifyTimeout     string      `json:"notify_timeout,omitempty"`
	Region            string      `json:"region,omitempty"`
	S3Endpoint        string      `json:"s3_endpoint,omitempty"`
	SQSEndpoint       string      `json:"sqs_endpoint,omitempty"`
	AccessKeyID       string      `json:"aws_access_key_id,omitempty"`
	SecretAccessKey   string      `json:"aws_secret_access_key,omitempty"`
	GoogleCredentials string      `json:"google_credentials,omitempty"`
	LogLevel          string      `json:"log_level,omitempty"`
	Camera            *fileCamera `json:"camera,omitempty"`
}

type fileCamera struct {
	Driver      string `json:"driver,omitempty"`
	Device      string `json:"device,omitempty"`
	Preset      string `json:"preset,omitempty"`
	Width       *int   `json:"width,omitempty"`
	Height      *int   `json:"height,omitempty"`
	Warmup      *int   `json:"warmup,omitempty"`
	Quality     *int   `json:"quality,omitempty"`
	ReadTimeout string `json:"read_timeout,omitempty"`
}

// LoadFile merges a JSON config file over c. Only fields present in the
// file are applied. An empty path is a no-op.
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var f fileConfig
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&c.Bucket, f.Bucket)
	setString(&c.Queue, f.Queue)
	setString(&c.Storage, f.Storage)
	setString(&c.QueueBackend, f.QueueBackend)
	setString(&c.KeyScheme, f.KeyScheme)
	setString(&c.Region, f.Region)
	setString(&c.S3Endpoint, f.S3Endpoint)
	setString(&c.SQSEndpoint, f.SQSEndpoint)
	setString(&c.AccessKeyID, f.AccessKeyID)
	setString(&c.SecretAccessKey, f.SecretAccessKey)
	setString(&c.GoogleCredentials, f.GoogleCredentials)
	setString(&c.LogLevel, f.LogLevel)
	if f.Retry != "" {
		c.Retry = ingest.RetryPolicy(f.Retry)
	}
	if f.MaxCycles != nil {
		c.MaxCycles = *f.MaxCycles
	}

	durations := []durationField{
		{"interval", f.Interval, &c.Interval},
		{"upload_timeout", f.UploadTimeout, &c.UploadTimeout},
		{"notify_timeout", f.NotifyTimeout, &c.NotifyTimeout},
	}
	if f.Camera != nil {
		durations = append(durations, durationField{"camera.read_timeout", f.Camera.ReadTimeout, &c.Camera.ReadTimeout})
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := config.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config %s: %w", d.name, err)
		}
		*d.dst = v
	}

	if cam := f.Camera; cam != nil {
		setString(&c.Camera.Driver, cam.Driver)
		setString(&c.Camera.Device, cam.Device)
		setString(&c.Preset, cam.Preset)
		setInt(&c.Camera.Width, cam.Width)
		setInt(&c.Camera.Height, cam.Height)
		setInt(&c.Camera.Warmup, cam.Warmup)
		setInt(&c.Camera.Quality, cam.Quality)
	}
	return nil
}

// LoadEnvConfig applies environment overrides.
// Call this after LoadFile and before applying flags.
func (c *Config) LoadEnvConfig() error {
	c.Bucket = config.String(config.EnvBucket, c.Bucket)
	c.Queue = config.String(config.EnvQueueURL, c.Queue)
	c.Storage = config.String(config.EnvStorage, c.Storage)
	c.QueueBackend = config.String(config.EnvQueue, c.QueueBackend)
	c.Retry = ingest.RetryPolicy(config.String(config.EnvRetryPolicy, string(c.Retry)))
	c.KeyScheme = config.String(config.EnvKeyScheme, c.KeyScheme)
	c.Camera.Driver = config.String(config.EnvCameraDriver, c.Camera.Driver)
	c.Camera.Device = config.String(config.EnvCameraDevice, c.Camera.Device)
	c.Preset = config.String(config.EnvCameraPreset, c.Preset)
	c.Region = config.String(config.EnvAWSRegion, c.Region)
	c.S3Endpoint = config.String(config.EnvS3Endpoint, c.S3Endpoint)
	c.SQSEndpoint = config.String(config.EnvSQSEndpoint, c.SQSEndpoint)
	c.AccessKeyID = config.String(config.EnvAWSAccessKey, c.AccessKeyID)
	c.SecretAccessKey = config.String(config.EnvAWSSecretKey, c.SecretAccessKey)
	c.GoogleCredentials = config.String(config.EnvGoogleCreds, c.GoogleCredentials)
	c.LogLevel = config.String(config.EnvLogLevel, c.LogLevel)

	var err error
	if c.Camera.Quality, err = config.Int(config.EnvJPEGQuality, c.Camera.Quality); err != nil {
		return err
	}
	if c.Interval, err = config.Duration(config.EnvInterval, c.Interval); err != nil {
		return err
	}
	if c.UploadTimeout, err = config.Duration(config.EnvUploadTimeout, c.UploadTimeout); err != nil {
		return err
	}
	if c.NotifyTimeout, err = config.Duration(config.EnvNotifyTimeout, c.NotifyTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks that required configuration is present and consistent.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return &ConfigError{Field: "Bucket", Message: "bucket is required (" + config.EnvBucket + ")"}
	}
	if c.Queue == "" {
		return &ConfigError{Field: "Queue", Message: "queue is required (" + config.EnvQueueURL + ")"}
	}

	switch c.Storage {
	case storage.BackendS3, storage.BackendGCS:
	default:
		return &ConfigError{Field: "Storage", Message: fmt.Sprintf("unknown storage backend %q (want s3 or gcs)", c.Storage)}
	}

	switch c.QueueBackend {
	case notify.BackendSQS:
	case notify.BackendPubSub:
		if !notify.IsTopicName(c.Queue) {
			return &ConfigError{Field: "Queue", Message: fmt.Sprintf("pubsub queue must be projects/<project>/topics/<topic>, got %q", c.Queue)}
		}
	default:
		return &ConfigError{Field: "QueueBackend", Message: fmt.Sprintf("unknown queue backend %q (want sqs or pubsub)", c.QueueBackend)}
	}

	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return &ConfigError{Field: "AccessKeyID", Message: "aws access key id and secret must be set together (" +
			config.EnvAWSAccessKey + ", " + config.EnvAWSSecretKey + ")"}
	}

	if _, err := ingest.NewKeyFunc(c.KeyScheme); err != nil {
		return &ConfigError{Field: "KeyScheme", Message: err.Error()}
	}

	loop := c.LoopConfig()
	if err := loop.Validate(); err != nil {
		return &ConfigError{Field: "Loop", Message: err.Error()}
	}

	cam, err := c.CameraConfig()
	if err != nil {
		return err
	}
	if problems := cam.Validate(); len(problems) > 0 {
		return &ConfigError{Field: "Camera", Message: "camera: " + strings.Join(problems, "; ")}
	}
	return nil
}

// LoopConfig returns the ingestion loop settings.
func (c *Config) LoopConfig() ingest.Config {
	return ingest.Config{
		Bucket:        c.Bucket,
		Queue:         c.Queue,
		Interval:      c.Interval,
		Retry:         c.Retry,
		MaxCycles:     c.MaxCycles,
		UploadTimeout: c.UploadTimeout,
		NotifyTimeout: c.NotifyTimeout,
	}
}

// CameraConfig returns the camera settings with the preset applied.
func (c *Config) CameraConfig() (camera.Config, error) {
	cam := c.Camera
	if c.Preset != "" && !cam.ApplyPreset(c.Preset) {
		return cam, &ConfigError{
			Field:   "Preset",
			Message: fmt.Sprintf("unknown camera preset %q (want one of %s)", c.Preset, strings.Join(camera.PresetNames(), ", ")),
		}
	}
	return cam, nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

type durationField struct {
	name string
	raw  string
	dst  *time.Duration
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
