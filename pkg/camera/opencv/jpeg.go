package opencv

import (
	"bytes"
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-toucan/pkg/camera"
)

// ErrEncode is returned when OpenCV reports an encode failure.
var ErrEncode = errors.New("opencv: jpeg encode failed")

// JPEGEncoder encodes frames as JPEG.
type JPEGEncoder struct {
	quality int
}

// NewJPEGEncoder creates a JPEG encoder with the given quality (1-100).
func NewJPEGEncoder(quality int) *JPEGEncoder {
	if quality < camera.MinQuality {
		quality = camera.MinQuality
	}
	if quality > camera.MaxQuality {
		quality = camera.MaxQuality
	}
	return &JPEGEncoder{quality: quality}
}

// Quality returns the configured JPEG quality.
func (e *JPEGEncoder) Quality() int {
	return e.quality
}

// Encode returns the JPEG bytes for f. The result does not alias f.Data.
func (e *JPEGEncoder) Encode(f *camera.Frame) ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	img, err := toBGR(f)
	if err != nil {
		return nil, err
	}
	defer img.Close()

	if img.Empty() {
		return nil, fmt.Errorf("%w: empty matrix", ErrEncode)
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, e.quality})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}
	defer buf.Close()

	out := bytes.Clone(buf.GetBytes())
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no output", ErrEncode)
	}
	return out, nil
}

// toBGR builds a Mat the encoder can consume. The caller closes it.
func toBGR(f *camera.Frame) (gocv.Mat, error) {
	switch f.Layout {
	case camera.LayoutBGR:
		return gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Data)
	case camera.LayoutGray:
		return gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC1, f.Data)
	case camera.LayoutYUYV:
		yuyv, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC2, f.Data)
		if err != nil {
			return gocv.NewMat(), err
		}
		defer yuyv.Close()
		bgr := gocv.NewMat()
		gocv.CvtColor(yuyv, &bgr, gocv.ColorYUVToBGRYUY2)
		return bgr, nil
	case camera.LayoutJPEG:
		img, err := gocv.IMDecode(f.Data, gocv.IMReadColor)
		if err != nil {
			return gocv.NewMat(), fmt.Errorf("%w: decode mjpeg: %v", ErrEncode, err)
		}
		return img, nil
	default:
		return gocv.NewMat(), fmt.Errorf("%w: unsupported layout %s", ErrEncode, f.Layout)
	}
}
