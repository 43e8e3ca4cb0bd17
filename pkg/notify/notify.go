// Package notify announces uploaded objects on a message queue.
//
// The message body is the object key and nothing else; consumers fetch the
// object from the bucket they are configured with.
package notify

import (
	"context"
	"errors"
)

// Backend names.
const (
	BackendSQS    = "sqs"
	BackendPubSub = "pubsub"
)

// Sentinel errors for common conditions.
var (
	// ErrNoQueue is returned when Publish is called without a queue.
	ErrNoQueue = errors.New("notify: queue required")

	// ErrEmptyBody is returned when Publish is called with an empty body.
	ErrEmptyBody = errors.New("notify: empty message body")
)

// Notifier publishes a small message to a queue.
type Notifier interface {
	Publish(ctx context.Context, queue, body string) error
}

func checkArgs(queue, body string) error {
	if queue == "" {
		return ErrNoQueue
	}
	if body == "" {
		return ErrEmptyBody
	}
	return nil
}
