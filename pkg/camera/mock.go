package camera

import (
	"context"
	"sync"
	"time"
)

// Mock implements Source for testing.
type Mock struct {
	// OpenFunc is called when Open is invoked. Defaults to a working device.
	OpenFunc func(ctx context.Context) error

	// ReadFunc is called when a device's Read is invoked.
	// Defaults to a 2x2 BGR frame.
	ReadFunc func(ctx context.Context) (*Frame, error)

	// CloseFunc is called when a device's Close is invoked.
	CloseFunc func() error

	mu     sync.Mutex
	opens  int
	reads  int
	closes int
}

// NewMock creates a mock source that always yields a small BGR frame.
func NewMock() *Mock {
	return &Mock{}
}

// TestFrame returns a valid w x h BGR frame.
func TestFrame(w, h int) *Frame {
	return &Frame{
		Data:       make([]byte, w*h*3),
		Width:      w,
		Height:     h,
		Layout:     LayoutBGR,
		CapturedAt: time.Now(),
	}
}

// Open records the call and returns a mock device.
func (m *Mock) Open(ctx context.Context) (Device, error) {
	m.mu.Lock()
	m.opens++
	fn := m.OpenFunc
	m.mu.Unlock()

	if fn != nil {
		if err := fn(ctx); err != nil {
			return nil, err
		}
	}
	return &mockDevice{m: m}, nil
}

// Opens returns how many times Open was called.
func (m *Mock) Opens() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens
}

// Reads returns how many frames were requested.
func (m *Mock) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Closes returns how many devices were closed.
func (m *Mock) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// Leaked returns the number of opened devices not yet closed.
func (m *Mock) Leaked() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opens - m.closes
}

type mockDevice struct {
	m *Mock
}

func (d *mockDevice) Read(ctx context.Context) (*Frame, error) {
	d.m.mu.Lock()
	d.m.reads++
	fn := d.m.ReadFunc
	d.m.mu.Unlock()

	if fn != nil {
		return fn(ctx)
	}
	return TestFrame(2, 2), nil
}

func (d *mockDevice) Close() error {
	d.m.mu.Lock()
	d.m.closes++
	fn := d.m.CloseFunc
	d.m.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return nil
}
