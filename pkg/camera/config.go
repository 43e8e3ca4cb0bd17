package camera

import (
	"fmt"
	"time"
)

// Driver names.
const (
	DriverOpenCV = "opencv"
	DriverV4L2   = "v4l2"
)

// Limits for validation.
const (
	MaxWidth   = 7680
	MaxHeight  = 4320
	MaxWarmup  = 30
	MinQuality = 1
	MaxQuality = 100
)

// Config holds all camera configuration parameters.
type Config struct {
	// Driver selects the capture backend: "opencv" or "v4l2".
	Driver string `json:"driver"`

	// Device is a device index ("0"), a device path ("/dev/video0"),
	// or for opencv any URL VideoCapture accepts.
	Device string `json:"device"`

	// Requested resolution. Zero leaves the device default.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Warmup frames are read and discarded after opening, so
	// auto-exposure has settled on the frame we keep.
	Warmup int `json:"warmup"`

	// ReadTimeout bounds the wait for a frame (v4l2 only).
	ReadTimeout time.Duration `json:"read_timeout"`

	// Quality is the JPEG quality 1-100.
	Quality int `json:"quality"`
}

// DefaultConfig returns the first camera at its native resolution.
func DefaultConfig() Config {
	return Config{
		Driver:      DriverOpenCV,
		Device:      "0",
		Warmup:      0,
		ReadTimeout: 5 * time.Second,
		Quality:     90,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Driver != DriverOpenCV && c.Driver != DriverV4L2 {
		errors = append(errors, fmt.Sprintf("driver must be %s or %s", DriverOpenCV, DriverV4L2))
	}
	if c.Device == "" {
		errors = append(errors, "device is required")
	}

	// Resolution: both or neither
	if (c.Width == 0) != (c.Height == 0) {
		errors = append(errors, "width and height must be set together")
	}
	if c.Width < 0 || c.Width > MaxWidth {
		errors = append(errors, fmt.Sprintf("width must be between 0 and %d", MaxWidth))
	}
	if c.Height < 0 || c.Height > MaxHeight {
		errors = append(errors, fmt.Sprintf("height must be between 0 and %d", MaxHeight))
	}

	if c.Warmup < 0 || c.Warmup > MaxWarmup {
		errors = append(errors, fmt.Sprintf("warmup must be between 0 and %d", MaxWarmup))
	}
	if c.ReadTimeout < 0 {
		errors = append(errors, "read_timeout must not be negative")
	}
	if c.Quality < MinQuality || c.Quality > MaxQuality {
		errors = append(errors, "quality must be between 1 and 100")
	}

	return errors
}
