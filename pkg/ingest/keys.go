package ingest

import (
	"fmt"

	"github.com/google/uuid"
)

// KeyExt is appended to every object key.
const KeyExt = ".jpg"

// Key schemes.
const (
	KeySchemeV4 = "v4" // fully random
	KeySchemeV7 = "v7" // time-ordered prefix, random tail
)

// KeyFunc returns a fresh object key.
type KeyFunc func() (string, error)

// NewKeyFunc returns the key generator for scheme. Empty means v4.
func NewKeyFunc(scheme string) (KeyFunc, error) {
	switch scheme {
	case "", KeySchemeV4:
		return uuidKey(uuid.NewRandom), nil
	case KeySchemeV7:
		return uuidKey(uuid.NewV7), nil
	default:
		return nil, fmt.Errorf("%w: unknown key scheme %q", ErrBadConfig, scheme)
	}
}

func uuidKey(gen func() (uuid.UUID, error)) KeyFunc {
	return func() (string, error) {
		id, err := gen()
		if err != nil {
			return "", fmt.Errorf("generate key: %w", err)
		}
		return id.String() + KeyExt, nil
	}
}
