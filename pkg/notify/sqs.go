package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSOptions configures NewSQSNotifier.
type SQSOptions struct {
	// Endpoint overrides the SQS endpoint (LocalStack, ElasticMQ).
	Endpoint string
}

// SQSNotifier sends one SQS message per Publish.
type SQSNotifier struct {
	client *sqs.Client
}

// NewSQSNotifier creates a notifier from a resolved AWS config.
func NewSQSNotifier(cfg aws.Config, opts SQSOptions) *SQSNotifier {
	client := sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})
	return &SQSNotifier{client: client}
}

// Publish sends body verbatim to the queue URL.
func (n *SQSNotifier) Publish(ctx context.Context, queue, body string) error {
	if err := checkArgs(queue, body); err != nil {
		return err
	}

	_, err := n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queue),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("sqs send: %w", err)
	}
	return nil
}
