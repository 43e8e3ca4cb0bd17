package ingest

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewKeyFunc(t *testing.T) {
	tests := []struct {
		scheme  string
		version uuid.Version
	}{
		{"", 4},
		{KeySchemeV4, 4},
		{KeySchemeV7, 7},
	}

	for _, tt := range tests {
		t.Run("scheme "+tt.scheme, func(t *testing.T) {
			fn, err := NewKeyFunc(tt.scheme)
			if err != nil {
				t.Fatalf("NewKeyFunc: %v", err)
			}
			key, err := fn()
			if err != nil {
				t.Fatalf("key: %v", err)
			}
			if !strings.HasSuffix(key, KeyExt) {
				t.Fatalf("expected %s suffix, got %q", KeyExt, key)
			}
			id, err := uuid.Parse(strings.TrimSuffix(key, KeyExt))
			if err != nil {
				t.Fatalf("key %q is not a uuid: %v", key, err)
			}
			if id.Version() != tt.version {
				t.Errorf("expected version %d, got %d", tt.version, id.Version())
			}
		})
	}
}

func TestNewKeyFuncUnknown(t *testing.T) {
	if _, err := NewKeyFunc("sha1"); !errors.Is(err, ErrBadConfig) {
		t.Errorf("expected ErrBadConfig, got %v", err)
	}
}

func TestV7KeysSortByCreation(t *testing.T) {
	fn, _ := NewKeyFunc(KeySchemeV7)

	keys := make([]string, 100)
	for i := range keys {
		k, err := fn()
		if err != nil {
			t.Fatalf("key: %v", err)
		}
		keys[i] = k
	}

	if !sort.StringsAreSorted(keys) {
		t.Error("expected v7 keys to sort in creation order")
	}
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		err  error
		want string
	}{
		{&CaptureError{}, "Failed to get frame"},
		{&CaptureError{Err: cause}, "Failed to get frame: boom"},
		{&EncodeError{}, "Error encoding frame as JPEG image"},
		{&EncodeError{Err: cause}, "Error encoding frame as JPEG image: boom"},
		{&UploadError{Op: OpPut}, "upload put failed"},
		{&UploadError{Op: OpPublish, Err: cause}, "upload publish: boom"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
		if errors.Unwrap(tt.err) != nil && !errors.Is(tt.err, cause) {
			t.Errorf("%q does not unwrap to its cause", tt.err)
		}
	}
}
