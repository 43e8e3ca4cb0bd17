package camera

import (
	"fmt"
	"time"
)

// Layout is the pixel layout of a Frame as the device produced it.
type Layout int

const (
	// LayoutBGR is 8-bit interleaved blue, green, red (OpenCV's native order).
	LayoutBGR Layout = iota
	// LayoutGray is 8-bit single channel.
	LayoutGray
	// LayoutYUYV is packed 4:2:2, two bytes per pixel.
	LayoutYUYV
	// LayoutJPEG is an already-compressed Motion-JPEG frame.
	LayoutJPEG
)

func (l Layout) String() string {
	switch l {
	case LayoutBGR:
		return "bgr"
	case LayoutGray:
		return "gray"
	case LayoutYUYV:
		return "yuyv"
	case LayoutJPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("layout(%d)", int(l))
	}
}

// BytesPerPixel returns the raw pixel size, or 0 for compressed layouts.
func (l Layout) BytesPerPixel() int {
	switch l {
	case LayoutBGR:
		return 3
	case LayoutGray:
		return 1
	case LayoutYUYV:
		return 2
	default:
		return 0
	}
}

// Frame is one still image captured from a device.
type Frame struct {
	Data       []byte
	Width      int
	Height     int
	Layout     Layout
	CapturedAt time.Time
}

// Validate reports whether the frame can be handed to an encoder.
func (f *Frame) Validate() error {
	if f == nil || len(f.Data) == 0 {
		return ErrEmptyFrame
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrBadDimensions, f.Width, f.Height)
	}
	if bpp := f.Layout.BytesPerPixel(); bpp > 0 {
		if want := f.Width * f.Height * bpp; len(f.Data) != want {
			return fmt.Errorf("%w: %s %dx%d wants %d bytes, got %d",
				ErrBadDimensions, f.Layout, f.Width, f.Height, want, len(f.Data))
		}
	}
	return nil
}
