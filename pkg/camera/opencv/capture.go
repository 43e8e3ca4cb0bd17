// Package opencv implements camera capture and JPEG encoding on top of GoCV.
package opencv

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-toucan/pkg/camera"
)

// Source opens an OpenCV VideoCapture for every Open call.
type Source struct {
	cfg camera.Config
}

// NewSource creates a VideoCapture-backed source.
func NewSource(cfg camera.Config) *Source {
	return &Source{cfg: cfg}
}

// Open opens the configured device. The device index, path or URL is
// passed to VideoCapture as-is.
func (s *Source) Open(ctx context.Context) (camera.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vc, err := gocv.OpenVideoCapture(s.cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", camera.ErrDeviceUnavailable, s.cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %s", camera.ErrDeviceUnavailable, s.cfg.Device)
	}

	if s.cfg.Width > 0 && s.cfg.Height > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(s.cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(s.cfg.Height))
	}

	return &device{vc: vc, warmup: s.cfg.Warmup}, nil
}

type device struct {
	vc     *gocv.VideoCapture
	warmup int
}

// Read grabs warmup+1 frames and returns the last one.
func (d *device) Read(ctx context.Context) (*camera.Frame, error) {
	img := gocv.NewMat()
	defer img.Close()

	for i := 0; i <= d.warmup; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ok := d.vc.Read(&img); !ok || img.Empty() {
			return nil, camera.ErrNoFrame
		}
	}

	return frameFromMat(img)
}

func (d *device) Close() error {
	return d.vc.Close()
}

func frameFromMat(img gocv.Mat) (*camera.Frame, error) {
	var layout camera.Layout
	switch img.Channels() {
	case 3:
		layout = camera.LayoutBGR
	case 1:
		layout = camera.LayoutGray
	case 4:
		bgr := gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(img, &bgr, gocv.ColorBGRAToBGR)
		img = bgr
		layout = camera.LayoutBGR
	default:
		return nil, fmt.Errorf("%w: %d channels", camera.ErrNoFrame, img.Channels())
	}

	return &camera.Frame{
		Data:       img.ToBytes(),
		Width:      img.Cols(),
		Height:     img.Rows(),
		Layout:     layout,
		CapturedAt: time.Now(),
	}, nil
}
