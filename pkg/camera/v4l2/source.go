// Package v4l2 implements camera capture directly on Video4Linux2 devices.
//
// It avoids the OpenCV dependency at capture time and prefers the camera's
// Motion-JPEG stream, falling back to raw YUYV.
package v4l2

import (
	"strings"

	"github.com/teslashibe/go-toucan/pkg/camera"
)

// FourCC codes for the formats we accept.
const (
	FourCCMJPEG uint32 = 'M' | 'J'<<8 | 'P'<<16 | 'G'<<24
	FourCCYUYV  uint32 = 'Y' | 'U'<<8 | 'Y'<<16 | 'V'<<24
)

// Source opens a V4L2 device for every Open call.
type Source struct {
	cfg camera.Config
}

// NewSource creates a V4L2-backed source. cfg.Device may be an index
// ("0") or a path ("/dev/video0").
func NewSource(cfg camera.Config) *Source {
	return &Source{cfg: cfg}
}

// DevicePath maps an index to /dev/videoN and leaves paths alone.
func DevicePath(device string) string {
	if strings.HasPrefix(device, "/") {
		return device
	}
	return "/dev/video" + device
}

// pickFormat chooses MJPEG over YUYV. ok is false if neither is offered.
func pickFormat(formats map[uint32]string) (code uint32, layout camera.Layout, ok bool) {
	if _, found := formats[FourCCMJPEG]; found {
		return FourCCMJPEG, camera.LayoutJPEG, true
	}
	for c, desc := range formats {
		if strings.HasPrefix(desc, "Motion-JPEG") {
			return c, camera.LayoutJPEG, true
		}
	}
	if _, found := formats[FourCCYUYV]; found {
		return FourCCYUYV, camera.LayoutYUYV, true
	}
	return 0, 0, false
}

// packYUYV strips driver padding from a YUYV buffer so it holds exactly
// w*h*2 bytes. Rows longer than w*2 are repacked when the buffer divides
// evenly into h rows; any other excess is trailing and gets cut. Short
// buffers are returned as is for Validate to reject.
func packYUYV(data []byte, w, h int) []byte {
	row := w * 2
	want := row * h
	if w <= 0 || h <= 0 || len(data) <= want {
		return data
	}
	if len(data)%h == 0 {
		if stride := len(data) / h; stride > row {
			out := make([]byte, want)
			for y := 0; y < h; y++ {
				copy(out[y*row:(y+1)*row], data[y*stride:y*stride+row])
			}
			return out
		}
	}
	return data[:want]
}
