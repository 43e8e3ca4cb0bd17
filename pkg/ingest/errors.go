package ingest

import (
	"errors"
	"strings"
)

// Outcome messages reported for each failure kind.
const (
	MsgUploaded      = "Image uploaded successfully."
	MsgCaptureFailed = "Failed to get frame"
	MsgEncodeFailed  = "Error encoding frame as JPEG image."
)

// Upload operations distinguished by UploadError.
const (
	OpKey     = "key"
	OpPut     = "put"
	OpPublish = "publish"
)

// Sentinel errors for common conditions.
var (
	ErrNoSource       = errors.New("ingest: frame source required")
	ErrNoEncoder      = errors.New("ingest: encoder required")
	ErrNoSink         = errors.New("ingest: object sink required")
	ErrNoNotifier     = errors.New("ingest: notifier required")
	ErrNoBucket       = errors.New("ingest: bucket required")
	ErrNoQueue        = errors.New("ingest: queue required")
	ErrBadConfig      = errors.New("ingest: invalid config")
	ErrAlreadyRunning = errors.New("ingest: loop already running")

	// ErrEmptyImage is returned when an encoder reports success with no bytes.
	ErrEmptyImage = errors.New("ingest: encoder produced no data")

	// ErrPanic wraps a panic recovered from a collaborator during a cycle.
	ErrPanic = errors.New("ingest: collaborator panicked")
)

// CaptureError means the device could not be opened or yielded no frame.
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	if e.Err == nil {
		return MsgCaptureFailed
	}
	return MsgCaptureFailed + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *CaptureError) Unwrap() error {
	return e.Err
}

// EncodeError means the frame could not be encoded as JPEG.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string {
	msg := strings.TrimSuffix(MsgEncodeFailed, ".")
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// UploadError means the object write or the notification failed.
// Op is OpPut, OpPublish, or OpKey when no key could be generated.
type UploadError struct {
	Op  string
	Err error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return "upload " + e.Op + " failed"
	}
	return "upload " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *UploadError) Unwrap() error {
	return e.Err
}
