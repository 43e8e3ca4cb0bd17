package notify

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	pubsub "google.golang.org/api/pubsub/v1"
)

// PubSubNotifier publishes to a Cloud Pub/Sub topic.
type PubSubNotifier struct {
	service *pubsub.Service
}

// NewPubSubNotifier creates a notifier. Pass the options from
// cloud.GoogleClientOptions, or option.WithEndpoint/WithHTTPClient in tests.
func NewPubSubNotifier(ctx context.Context, opts ...option.ClientOption) (*PubSubNotifier, error) {
	service, err := pubsub.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub service: %w", err)
	}
	return &PubSubNotifier{service: service}, nil
}

// Publish sends body as the message data to topic queue, which must be a
// full resource name: projects/<project>/topics/<topic>.
func (n *PubSubNotifier) Publish(ctx context.Context, queue, body string) error {
	if err := checkArgs(queue, body); err != nil {
		return err
	}
	if !IsTopicName(queue) {
		return fmt.Errorf("pubsub: %q is not a topic name (projects/<p>/topics/<t>)", queue)
	}

	req := &pubsub.PublishRequest{
		Messages: []*pubsub.PubsubMessage{
			{Data: base64.StdEncoding.EncodeToString([]byte(body))},
		},
	}
	if _, err := n.service.Projects.Topics.Publish(queue, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("pubsub publish: %w", err)
	}
	return nil
}

// IsTopicName reports whether s looks like projects/<p>/topics/<t>.
func IsTopicName(s string) bool {
	parts := strings.Split(s, "/")
	return len(parts) == 4 && parts[0] == "projects" && parts[1] != "" &&
		parts[2] == "topics" && parts[3] != ""
}
