package ingest

import (
	"errors"
	"fmt"
	"time"
)

// Stage is the step a cycle reached.
type Stage string

const (
	StageCapture Stage = "capture"
	StageEncode  Stage = "encode"
	StageUpload  Stage = "upload"
	StageNotify  Stage = "notify"
	StageDone    Stage = "done"
)

// State is the loop's position in the per-cycle state machine.
type State int32

const (
	StateIdle State = iota
	StateCapturing
	StateEncoding
	StateUploading
	StateNotifying
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateEncoding:
		return "encoding"
	case StateUploading:
		return "uploading"
	case StateNotifying:
		return "notifying"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Outcome is the result of one cycle. On failure Stage is where it stopped.
type Outcome struct {
	Cycle    uint64
	Stage    Stage
	Key      string
	Bytes    int
	Err      error
	Started  time.Time
	Duration time.Duration
}

// OK reports whether the cycle uploaded and notified.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Kind names the failure class: CaptureError, EncodeError or UploadError.
// Empty on success.
func (o Outcome) Kind() string {
	var (
		capErr *CaptureError
		encErr *EncodeError
		upErr  *UploadError
	)
	switch {
	case o.Err == nil:
		return ""
	case errors.As(o.Err, &capErr):
		return "CaptureError"
	case errors.As(o.Err, &encErr):
		return "EncodeError"
	case errors.As(o.Err, &upErr):
		return "UploadError"
	default:
		return "Error"
	}
}

// Message is the human-readable summary reported for the cycle.
func (o Outcome) Message() string {
	var upErr *UploadError
	switch {
	case o.Err == nil:
		return MsgUploaded
	case o.Kind() == "CaptureError":
		return MsgCaptureFailed
	case o.Kind() == "EncodeError":
		return MsgEncodeFailed
	case errors.As(o.Err, &upErr) && upErr.Err != nil:
		return upErr.Err.Error()
	default:
		return o.Err.Error()
	}
}
