package notify

import (
	"context"
	"sync"
)

// Message is one recorded Publish.
type Message struct {
	Queue string
	Body  string
}

// Mock implements Notifier for testing.
type Mock struct {
	// PublishFunc is called when Publish is invoked. Nil means success.
	PublishFunc func(ctx context.Context, queue, body string) error

	mu       sync.Mutex
	messages []Message
}

// NewMock creates a mock notifier that accepts every message.
func NewMock() *Mock {
	return &Mock{}
}

// Publish records the call, then defers to PublishFunc.
func (m *Mock) Publish(ctx context.Context, queue, body string) error {
	m.mu.Lock()
	m.messages = append(m.messages, Message{Queue: queue, Body: body})
	fn := m.PublishFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, queue, body)
	}
	return nil
}

// Messages returns every recorded call, successful or not.
func (m *Mock) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}
