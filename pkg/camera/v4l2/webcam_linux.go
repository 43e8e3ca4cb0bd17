//go:build linux

package v4l2

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blackjack/webcam"

	"github.com/teslashibe/go-toucan/pkg/camera"
)

const bufferCount = 4

// Open opens the device, negotiates a format and starts streaming.
func (s *Source) Open(ctx context.Context) (camera.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := DevicePath(s.cfg.Device)
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", camera.ErrDeviceUnavailable, path, err)
	}

	dev, err := s.start(cam)
	if err != nil {
		cam.Close()
		return nil, fmt.Errorf("%w: %s: %v", camera.ErrDeviceUnavailable, path, err)
	}
	return dev, nil
}

func (s *Source) start(cam *webcam.Webcam) (*device, error) {
	formats := make(map[uint32]string)
	for pf, desc := range cam.GetSupportedFormats() {
		formats[uint32(pf)] = desc
	}
	code, layout, ok := pickFormat(formats)
	if !ok {
		return nil, errors.New("no MJPEG or YUYV format offered")
	}
	pf := webcam.PixelFormat(code)

	w, h := uint32(s.cfg.Width), uint32(s.cfg.Height)
	if w == 0 || h == 0 {
		sizes := cam.GetSupportedFrameSizes(pf)
		if len(sizes) == 0 {
			return nil, errors.New("no frame sizes offered")
		}
		w, h = sizes[0].MaxWidth, sizes[0].MaxHeight
	}

	_, gotW, gotH, err := cam.SetImageFormat(pf, w, h)
	if err != nil {
		return nil, fmt.Errorf("set format: %w", err)
	}
	if err := cam.SetBufferCount(bufferCount); err != nil {
		return nil, fmt.Errorf("set buffers: %w", err)
	}
	if err := cam.StartStreaming(); err != nil {
		return nil, fmt.Errorf("start streaming: %w", err)
	}

	timeout := s.cfg.ReadTimeout
	if timeout <= 0 {
		timeout = camera.DefaultConfig().ReadTimeout
	}

	return &device{
		cam:     cam,
		layout:  layout,
		width:   int(gotW),
		height:  int(gotH),
		warmup:  s.cfg.Warmup,
		timeout: timeout,
	}, nil
}

type device struct {
	cam     *webcam.Webcam
	layout  camera.Layout
	width   int
	height  int
	warmup  int
	timeout time.Duration
}

// Read discards warmup frames and returns a copy of the next one.
func (d *device) Read(ctx context.Context) (*camera.Frame, error) {
	var data []byte
	for i := 0; i <= d.warmup; i++ {
		var err error
		if data, err = d.next(ctx); err != nil {
			return nil, err
		}
	}

	if d.layout == camera.LayoutYUYV {
		data = packYUYV(data, d.width, d.height)
	}

	return &camera.Frame{
		Data:       data,
		Width:      d.width,
		Height:     d.height,
		Layout:     d.layout,
		CapturedAt: time.Now(),
	}, nil
}

// next waits for one non-empty frame until the read timeout elapses.
func (d *device) next(ctx context.Context) ([]byte, error) {
	deadline := time.Now().Add(d.timeout)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		err := d.cam.WaitForFrame(waitSeconds(time.Until(deadline)))
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			return nil, fmt.Errorf("%w: timed out after %v", camera.ErrNoFrame, d.timeout)
		default:
			return nil, fmt.Errorf("%w: %v", camera.ErrNoFrame, err)
		}

		frame, err := d.cam.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", camera.ErrNoFrame, err)
		}
		if len(frame) == 0 {
			continue
		}
		// The driver reuses the mmap buffer; keep our own copy.
		out := make([]byte, len(frame))
		copy(out, frame)
		return out, nil
	}
	return nil, fmt.Errorf("%w: timed out after %v", camera.ErrNoFrame, d.timeout)
}

func (d *device) Close() error {
	stopErr := d.cam.StopStreaming()
	closeErr := d.cam.Close()
	return errors.Join(stopErr, closeErr)
}

// waitSeconds rounds up to whole seconds, the unit WaitForFrame takes.
func waitSeconds(d time.Duration) uint32 {
	s := uint32((d + time.Second - 1) / time.Second)
	if s == 0 {
		s = 1
	}
	return s
}
