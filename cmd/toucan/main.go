// Toucan - camera ingestion agent.
// Captures a frame, uploads it as JPEG to object storage and publishes
// the object key on a queue, at a fixed cadence.
package main

import (
	"context"
	"flag"
	stdlog "log"
	"os/signal"
	"strings"
	"syscall"

	"github.com/teslashibe/go-toucan/internal/config"
	"github.com/teslashibe/go-toucan/internal/log"
	"github.com/teslashibe/go-toucan/pkg/agent"
	"github.com/teslashibe/go-toucan/pkg/camera"
	"github.com/teslashibe/go-toucan/pkg/ingest"
)

func main() {
	cfg := parseFlags()

	log.Init(cfg.LogLevel)
	log.Info("toucan starting",
		"bucket", cfg.Bucket,
		"queue", cfg.Queue,
		"storage", cfg.Storage,
		"queue_backend", cfg.QueueBackend,
		"interval", cfg.Interval,
	)

	app, err := agent.New(cfg)
	if err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Init(ctx); err != nil {
		stdlog.Fatalf("❌ Initialization failed: %v", err)
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		stdlog.Fatalf("❌ Runtime error: %v", err)
	}
}

// parseFlags builds the configuration.
// Priority (highest to lowest): flags > environment > config file > defaults.
func parseFlags() agent.Config {
	cfg := agent.DefaultConfig()

	configFile := flag.String("config", "", "JSON config file (overrides "+config.EnvConfigFile+" env var)")
	bucket := flag.String("bucket", "", "Object store bucket")
	queue := flag.String("queue", "", "SQS queue URL or Pub/Sub topic (projects/<p>/topics/<t>)")
	interval := flag.Duration("interval", 0, "Delay between cycles (e.g. 30s)")
	retry := flag.String("retry", "", "Retry policy after a failed cycle: steady, immediate")
	once := flag.Bool("once", false, "Run a single cycle and exit")
	cycles := flag.Int("cycles", 0, "Stop after this many cycles (0 = run until signalled)")
	storageBackend := flag.String("storage", "", "Object store backend: s3, gcs")
	queueBackend := flag.String("queue-backend", "", "Queue backend: sqs, pubsub")
	driver := flag.String("camera", "", "Camera driver: opencv, v4l2")
	device := flag.String("device", "", "Camera device index, path or URL")
	preset := flag.String("preset", "", "Camera resolution preset: "+strings.Join(camera.PresetNames(), ", "))
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	flag.Parse()

	path := *configFile
	if path == "" {
		path = config.String(config.EnvConfigFile, "")
	}
	if err := cfg.LoadFile(path); err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}
	if err := cfg.LoadEnvConfig(); err != nil {
		stdlog.Fatalf("❌ Configuration error: %v", err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["bucket"] {
		cfg.Bucket = *bucket
	}
	if set["queue"] {
		cfg.Queue = *queue
	}
	if set["interval"] {
		cfg.Interval = *interval
	}
	if set["retry"] {
		cfg.Retry = ingest.RetryPolicy(*retry)
	}
	if set["cycles"] {
		cfg.MaxCycles = *cycles
	}
	if *once {
		cfg.MaxCycles = 1
	}
	if set["storage"] {
		cfg.Storage = *storageBackend
	}
	if set["queue-backend"] {
		cfg.QueueBackend = *queueBackend
	}
	if set["camera"] {
		cfg.Camera.Driver = *driver
	}
	if set["device"] {
		cfg.Camera.Device = *device
	}
	if set["preset"] {
		cfg.Preset = *preset
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}

	if flag.NArg() > 0 {
		stdlog.Fatalf("❌ Unexpected arguments: %v", flag.Args())
	}
	return cfg
}
