// Package ingest runs the capture → encode → upload → notify loop.
//
// Each cycle opens the camera, grabs one frame, encodes it as JPEG, stores
// it under a fresh "<uuid>.jpg" key and publishes that key. Failures are
// turned into an Outcome, logged, and never stop the loop.
//
// Example usage:
//
//	loop, _ := ingest.New(ingest.DefaultConfig(), source, encoder, sink, notifier)
//	err := loop.Run(ctx) // returns when ctx is cancelled
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-toucan/internal/log"
	"github.com/teslashibe/go-toucan/pkg/camera"
	"github.com/teslashibe/go-toucan/pkg/notify"
	"github.com/teslashibe/go-toucan/pkg/storage"
)

// RetryPolicy decides whether a failed cycle waits before the next one.
type RetryPolicy string

const (
	// RetrySteady always waits Interval, whatever the outcome.
	RetrySteady RetryPolicy = "steady"

	// RetryImmediate starts the next cycle at once after a failure.
	RetryImmediate RetryPolicy = "immediate"
)

// Default configuration values.
const (
	DefaultInterval      = 30 * time.Second
	DefaultUploadTimeout = 30 * time.Second
	DefaultNotifyTimeout = 30 * time.Second
)

// Config holds the loop's constant configuration.
type Config struct {
	// Bucket receives every uploaded object.
	Bucket string

	// Queue receives every notification (SQS URL or Pub/Sub topic).
	Queue string

	// Interval is the delay between the end of one cycle and the next.
	Interval time.Duration

	// Retry selects the delay policy after a failed cycle.
	Retry RetryPolicy

	// MaxCycles stops Run after this many cycles. 0 runs until cancelled.
	MaxCycles int

	// UploadTimeout and NotifyTimeout bound the network stages. 0 disables.
	UploadTimeout time.Duration
	NotifyTimeout time.Duration
}

// DefaultConfig returns defaults. Queue has no default.
func DefaultConfig() Config {
	return Config{
		Bucket:        storage.DefaultBucket,
		Interval:      DefaultInterval,
		Retry:         RetrySteady,
		UploadTimeout: DefaultUploadTimeout,
		NotifyTimeout: DefaultNotifyTimeout,
	}
}

// Validate checks that the config can drive a loop.
func (c *Config) Validate() error {
	switch {
	case c.Bucket == "":
		return ErrNoBucket
	case c.Queue == "":
		return ErrNoQueue
	case c.Interval < 0:
		return fmt.Errorf("%w: negative interval %v", ErrBadConfig, c.Interval)
	case c.Retry != RetrySteady && c.Retry != RetryImmediate:
		return fmt.Errorf("%w: unknown retry policy %q", ErrBadConfig, c.Retry)
	case c.MaxCycles < 0:
		return fmt.Errorf("%w: negative max cycles", ErrBadConfig)
	case c.UploadTimeout < 0 || c.NotifyTimeout < 0:
		return fmt.Errorf("%w: negative timeout", ErrBadConfig)
	}
	return nil
}

// Encoder turns a frame into JPEG bytes.
type Encoder interface {
	Encode(f *camera.Frame) ([]byte, error)
}

// SleepFunc waits d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the loop's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger.With("component", "ingest")
		}
	}
}

// WithKeyFunc replaces the object key generator.
func WithKeyFunc(fn KeyFunc) Option {
	return func(l *Loop) {
		l.keys = fn
	}
}

// WithOnOutcome registers a hook called after every cycle.
func WithOnOutcome(fn func(Outcome)) Option {
	return func(l *Loop) {
		l.onOutcome = fn
	}
}

// WithSleep replaces the inter-cycle wait. Used by tests.
func WithSleep(fn SleepFunc) Option {
	return func(l *Loop) {
		l.sleep = fn
	}
}

// Loop drives cycles one at a time.
type Loop struct {
	cfg      Config
	source   camera.Source
	encoder  Encoder
	sink     storage.Sink
	notifier notify.Notifier

	keys      KeyFunc
	logger    *slog.Logger
	sleep     SleepFunc
	onOutcome func(Outcome)

	cycleMu sync.Mutex // held for the whole of a cycle
	running atomic.Bool
	state   atomic.Int32
	cycles  atomic.Uint64
	stats   statsRecorder
}

// New creates a loop. All four collaborators are required.
func New(cfg Config, source camera.Source, encoder Encoder, sink storage.Sink, notifier notify.Notifier, opts ...Option) (*Loop, error) {
	if cfg.Retry == "" {
		cfg.Retry = RetrySteady
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case source == nil:
		return nil, ErrNoSource
	case encoder == nil:
		return nil, ErrNoEncoder
	case sink == nil:
		return nil, ErrNoSink
	case notifier == nil:
		return nil, ErrNoNotifier
	}

	keys, _ := NewKeyFunc(KeySchemeV4)
	l := &Loop{
		cfg:      cfg,
		source:   source,
		encoder:  encoder,
		sink:     sink,
		notifier: notifier,
		keys:     keys,
		logger:   log.With("component", "ingest"),
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Config returns the loop configuration.
func (l *Loop) Config() Config {
	return l.cfg
}

// State returns where the loop currently is in its cycle.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Stats returns a snapshot of the cumulative counters.
func (l *Loop) Stats() Stats {
	return l.stats.snapshot()
}

// Run executes cycles until ctx is done or MaxCycles is reached.
// It returns ctx.Err() when cancelled and nil after MaxCycles.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	l.logger.Info("ingestion loop started",
		"bucket", l.cfg.Bucket,
		"queue", l.cfg.Queue,
		"interval", l.cfg.Interval,
		"retry", string(l.cfg.Retry),
		"max_cycles", l.cfg.MaxCycles,
	)

	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		out := l.RunCycle(ctx)

		if l.cfg.MaxCycles > 0 && n >= l.cfg.MaxCycles {
			l.setState(StateIdle)
			return nil
		}

		if d := l.delayAfter(out); d > 0 {
			if err := l.sleep(ctx, d); err != nil {
				l.setState(StateIdle)
				return err
			}
		}
		l.setState(StateIdle)
	}
}

// RunCycle executes exactly one cycle and reports its outcome.
// Concurrent callers are serialised.
func (l *Loop) RunCycle(ctx context.Context) (out Outcome) {
	l.cycleMu.Lock()
	defer l.cycleMu.Unlock()

	out = Outcome{Cycle: l.cycles.Add(1), Started: time.Now()}
	defer func() {
		if r := recover(); r != nil {
			out.Err = panicError(out, r)
		}
		out.Duration = time.Since(out.Started)
		l.finish(out)
	}()

	// Capture
	out.Stage = StageCapture
	l.setState(StateCapturing)
	frame, err := camera.Capture(ctx, l.source)
	if err != nil {
		if frame == nil || !errors.Is(err, camera.ErrRelease) {
			out.Err = &CaptureError{Err: err}
			return out
		}
		l.logger.Warn("camera release failed", "cycle", out.Cycle, "error", err)
	}

	// Encode
	out.Stage = StageEncode
	l.setState(StateEncoding)
	data, err := l.encode(frame)
	if err != nil {
		out.Err = &EncodeError{Err: err}
		return out
	}

	// Key, then upload
	out.Stage = StageUpload
	l.setState(StateUploading)
	key, err := l.keys()
	if err != nil {
		out.Err = &UploadError{Op: OpKey, Err: err}
		return out
	}
	out.Key = key

	putCtx, cancel := withTimeout(ctx, l.cfg.UploadTimeout)
	err = l.sink.Put(putCtx, l.cfg.Bucket, key, data)
	cancel()
	if err != nil {
		out.Err = &UploadError{Op: OpPut, Err: err}
		return out
	}
	out.Bytes = len(data)

	// Notify, only after a successful put
	out.Stage = StageNotify
	l.setState(StateNotifying)
	pubCtx, cancel := withTimeout(ctx, l.cfg.NotifyTimeout)
	err = l.notifier.Publish(pubCtx, l.cfg.Queue, key)
	cancel()
	if err != nil {
		out.Err = &UploadError{Op: OpPublish, Err: err}
		return out
	}

	out.Stage = StageDone
	return out
}

// encode runs the encoder, turning a panic or empty output into an error.
func (l *Loop) encode(f *camera.Frame) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("%w: encoder: %v", ErrPanic, r)
		}
	}()

	data, err = l.encoder.Encode(f)
	if err == nil && len(data) == 0 {
		err = ErrEmptyImage
	}
	return data, err
}

// panicError converts a panic into the failure type of the stage it hit.
func panicError(out Outcome, r any) error {
	err := fmt.Errorf("%w: %s stage: %v", ErrPanic, out.Stage, r)
	switch out.Stage {
	case StageCapture:
		return &CaptureError{Err: err}
	case StageEncode:
		return &EncodeError{Err: err}
	case StageUpload:
		if out.Key == "" {
			return &UploadError{Op: OpKey, Err: err}
		}
		return &UploadError{Op: OpPut, Err: err}
	case StageNotify:
		return &UploadError{Op: OpPublish, Err: err}
	default:
		return err
	}
}

func (l *Loop) finish(out Outcome) {
	if out.OK() {
		l.setState(StateDone)
		l.logger.Info(out.Message(),
			"cycle", out.Cycle,
			"key", out.Key,
			"bytes", out.Bytes,
			"duration", out.Duration,
		)
	} else {
		l.setState(StateFailed)
		l.logger.Warn(out.Message(),
			"cycle", out.Cycle,
			"stage", string(out.Stage),
			"kind", out.Kind(),
			"key", out.Key,
			"error", out.Err,
			"duration", out.Duration,
		)
	}

	l.stats.record(out)
	if l.onOutcome != nil {
		l.onOutcome(out)
	}
}

func (l *Loop) delayAfter(out Outcome) time.Duration {
	if !out.OK() && l.cfg.Retry == RetryImmediate {
		return 0
	}
	return l.cfg.Interval
}

func (l *Loop) setState(s State) {
	prev := State(l.state.Swap(int32(s)))
	if prev != s {
		l.logger.Debug("state", "from", prev.String(), "to", s.String())
	}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
