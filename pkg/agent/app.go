package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/teslashibe/go-toucan/internal/cloud"
	"github.com/teslashibe/go-toucan/internal/log"
	"github.com/teslashibe/go-toucan/pkg/camera"
	"github.com/teslashibe/go-toucan/pkg/camera/opencv"
	"github.com/teslashibe/go-toucan/pkg/camera/v4l2"
	"github.com/teslashibe/go-toucan/pkg/ingest"
	"github.com/teslashibe/go-toucan/pkg/notify"
	"github.com/teslashibe/go-toucan/pkg/storage"
)

// App is the ingestion agent. It builds every collaborator once and runs
// the loop until the context is cancelled.
type App struct {
	config Config
	logger *slog.Logger

	source   camera.Source
	encoder  ingest.Encoder
	sink     storage.Sink
	notifier notify.Notifier
	loop     *ingest.Loop

	awsCfg *aws.Config
}

// New creates an agent with the given configuration.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &App{
		config: cfg,
		logger: log.With("component", "agent"),
	}, nil
}

// Config returns the agent configuration.
func (a *App) Config() Config {
	return a.config
}

// Loop returns the ingestion loop, or nil before Init.
func (a *App) Loop() *ingest.Loop {
	return a.loop
}

// Init builds the camera source, encoder, sink, notifier and loop.
// Call this after New() and before Run().
func (a *App) Init(ctx context.Context) error {
	var err error

	if a.source, a.encoder, err = a.initCamera(); err != nil {
		return fmt.Errorf("camera init: %w", err)
	}
	if a.sink, err = a.initStorage(ctx); err != nil {
		return fmt.Errorf("storage init: %w", err)
	}
	if a.notifier, err = a.initNotify(ctx); err != nil {
		return fmt.Errorf("notify init: %w", err)
	}

	keys, err := ingest.NewKeyFunc(a.config.KeyScheme)
	if err != nil {
		return err
	}
	a.loop, err = ingest.New(a.config.LoopConfig(), a.source, a.encoder, a.sink, a.notifier,
		ingest.WithKeyFunc(keys),
		ingest.WithLogger(log.L()),
	)
	if err != nil {
		return fmt.Errorf("loop init: %w", err)
	}

	a.logger.Info("agent initialized",
		"camera", a.config.Camera.Driver,
		"device", a.config.Camera.Device,
		"storage", a.config.Storage,
		"queue_backend", a.config.QueueBackend,
		"key_scheme", a.config.KeyScheme,
	)
	return nil
}

// Run runs the ingestion loop until ctx is cancelled or MaxCycles is reached.
// Cancellation is a clean stop and returns nil.
func (a *App) Run(ctx context.Context) error {
	if a.loop == nil {
		return errors.New("agent: Init not called")
	}
	err := a.loop.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Shutdown logs final counters. Clients hold no open connections to release.
func (a *App) Shutdown() {
	if a.loop == nil {
		return
	}
	st := a.loop.Stats()
	attrs := []any{
		"cycles", st.Cycles,
		"successes", st.Successes,
		"failures", st.Failures,
	}
	if !st.LastSuccess.IsZero() {
		attrs = append(attrs, "last_key", st.LastKey, "last_success", st.LastSuccess)
	}
	if st.LastError != "" {
		attrs = append(attrs, "last_error", st.LastError)
	}
	a.logger.Info("agent stopped", attrs...)
}

func (a *App) initCamera() (camera.Source, ingest.Encoder, error) {
	cam, err := a.config.CameraConfig()
	if err != nil {
		return nil, nil, err
	}

	var src camera.Source
	switch cam.Driver {
	case camera.DriverOpenCV:
		src = opencv.NewSource(cam)
	case camera.DriverV4L2:
		src = v4l2.NewSource(cam)
	default:
		return nil, nil, fmt.Errorf("unknown camera driver %q", cam.Driver)
	}
	return src, opencv.NewJPEGEncoder(cam.Quality), nil
}

func (a *App) initStorage(ctx context.Context) (storage.Sink, error) {
	switch a.config.Storage {
	case storage.BackendS3:
		cfg, err := a.loadAWS(ctx)
		if err != nil {
			return nil, err
		}
		return storage.NewS3Sink(cfg, storage.S3Options{
			Endpoint:  a.config.S3Endpoint,
			PathStyle: a.config.S3Endpoint != "",
		}), nil
	case storage.BackendGCS:
		opts, err := cloud.GoogleClientOptions(ctx, cloud.GoogleOptions{
			CredentialsFile: a.config.GoogleCredentials,
			Scopes:          []string{cloud.ScopeStorageWrite},
		})
		if err != nil {
			return nil, err
		}
		return storage.NewGCSSink(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.config.Storage)
	}
}

func (a *App) initNotify(ctx context.Context) (notify.Notifier, error) {
	switch a.config.QueueBackend {
	case notify.BackendSQS:
		cfg, err := a.loadAWS(ctx)
		if err != nil {
			return nil, err
		}
		return notify.NewSQSNotifier(cfg, notify.SQSOptions{Endpoint: a.config.SQSEndpoint}), nil
	case notify.BackendPubSub:
		opts, err := cloud.GoogleClientOptions(ctx, cloud.GoogleOptions{
			CredentialsFile: a.config.GoogleCredentials,
			Scopes:          []string{cloud.ScopePubSub},
		})
		if err != nil {
			return nil, err
		}
		return notify.NewPubSubNotifier(ctx, opts...)
	default:
		return nil, fmt.Errorf("unknown queue backend %q", a.config.QueueBackend)
	}
}

// loadAWS loads the AWS config once and shares it between S3 and SQS.
func (a *App) loadAWS(ctx context.Context) (aws.Config, error) {
	if a.awsCfg != nil {
		return *a.awsCfg, nil
	}
	cfg, err := cloud.LoadAWS(ctx, cloud.AWSOptions{
		Region:          a.config.Region,
		AccessKeyID:     a.config.AccessKeyID,
		SecretAccessKey: a.config.SecretAccessKey,
	})
	if err != nil {
		return aws.Config{}, err
	}
	a.awsCfg = &cfg
	return cfg, nil
}
