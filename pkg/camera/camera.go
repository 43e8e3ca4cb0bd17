// Package camera defines the frame source used by the ingestion loop.
//
// A Source opens a Device; a Device yields frames and must be closed.
// Capture wraps one open/read/close round so a device handle never
// outlives a single cycle.
package camera

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrDeviceUnavailable is returned when the device cannot be opened.
	ErrDeviceUnavailable = errors.New("camera: device unavailable")

	// ErrNoFrame is returned when an open device yields no frame.
	ErrNoFrame = errors.New("camera: no frame read")

	// ErrRelease is returned when a device fails to close cleanly.
	ErrRelease = errors.New("camera: release failed")

	// ErrUnsupported is returned by drivers not available on this platform.
	ErrUnsupported = errors.New("camera: driver unsupported on this platform")

	// ErrEmptyFrame is returned for frames with no pixel data.
	ErrEmptyFrame = errors.New("camera: empty frame")

	// ErrBadDimensions is returned when frame size and data disagree.
	ErrBadDimensions = errors.New("camera: bad frame dimensions")
)

// Source opens a capture device.
type Source interface {
	Open(ctx context.Context) (Device, error)
}

// Device is an open capture device.
type Device interface {
	// Read returns the next frame.
	Read(ctx context.Context) (*Frame, error)

	// Close releases the device handle.
	Close() error
}

// Capture opens src, reads one frame and closes the device on every path.
//
// If the read succeeds but the close fails, the frame is returned together
// with an error wrapping ErrRelease; callers may keep the frame.
func Capture(ctx context.Context, src Source) (frame *Frame, err error) {
	dev, err := src.Open(ctx)
	if err != nil {
		if errors.Is(err, ErrDeviceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if dev == nil {
		return nil, ErrDeviceUnavailable
	}

	defer func() {
		closeErr := dev.Close()
		if closeErr == nil {
			return
		}
		closeErr = fmt.Errorf("%w: %v", ErrRelease, closeErr)
		if err != nil {
			err = errors.Join(err, closeErr)
			return
		}
		err = closeErr
	}()

	frame, err = dev.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrNoFrame) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNoFrame, err)
	}
	if frame == nil || len(frame.Data) == 0 {
		return nil, ErrNoFrame
	}
	return frame, nil
}
