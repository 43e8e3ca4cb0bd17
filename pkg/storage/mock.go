package storage

import (
	"context"
	"sync"
)

// Object is one recorded Put.
type Object struct {
	Bucket string
	Key    string
	Data   []byte
}

// Mock implements Sink for testing.
type Mock struct {
	// PutFunc is called when Put is invoked. Nil means success.
	PutFunc func(ctx context.Context, bucket, key string, data []byte) error

	mu   sync.Mutex
	puts []Object
}

// NewMock creates a mock sink that accepts every object.
func NewMock() *Mock {
	return &Mock{}
}

// Put records the call, then defers to PutFunc.
func (m *Mock) Put(ctx context.Context, bucket, key string, data []byte) error {
	m.mu.Lock()
	m.puts = append(m.puts, Object{Bucket: bucket, Key: key, Data: append([]byte(nil), data...)})
	fn := m.PutFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, bucket, key, data)
	}
	return nil
}

// Puts returns every recorded call, successful or not.
func (m *Mock) Puts() []Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Object, len(m.puts))
	copy(out, m.puts)
	return out
}
