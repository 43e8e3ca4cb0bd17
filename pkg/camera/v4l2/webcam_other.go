//go:build !linux

package v4l2

import (
	"context"

	"github.com/teslashibe/go-toucan/pkg/camera"
)

// Open always fails: V4L2 exists only on Linux.
func (s *Source) Open(ctx context.Context) (camera.Device, error) {
	return nil, camera.ErrUnsupported
}
