package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// API is the subset of the SQS client the queue uses.
type API interface {
	SendMessage(ctx context.Context, in *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// Message is one received queue message.
type Message struct {
	Body          string
	ReceiptHandle string
}

// Queue wraps one SQS queue URL with JSON message bodies.
type Queue struct {
	api API
	url string
}

func New(api API, url string) *Queue {
	return &Queue{api: api, url: url}
}

// NewFromConfig creates a Queue backed by a real SQS client.
func NewFromConfig(cfg aws.Config, url string) *Queue {
	return New(sqs.NewFromConfig(cfg), url)
}

// URL returns the queue URL.
func (q *Queue) URL() string { return q.url }

// Send marshals v to JSON and enqueues it.
func (q *Queue) Send(ctx context.Context, v any) error {
	if q.url == "" {
		return fmt.Errorf("queue: no queue URL configured")
	}
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("queue: failed to marshal message: %w", err)
	}
	_, err = q.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.url),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("queue: send failed: %w", err)
	}
	return nil
}

// Receive long-polls for up to max messages, waiting up to wait.
func (q *Queue) Receive(ctx context.Context, max int32, wait time.Duration) ([]Message, error) {
	out, err := q.api.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.url),
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     int32(wait / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("queue: receive failed: %w", err)
	}
	msgs := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		msgs = append(msgs, Message{
			Body:          aws.ToString(m.Body),
			ReceiptHandle: aws.ToString(m.ReceiptHandle),
		})
	}
	return msgs, nil
}

// Delete acknowledges a received message so it is never redelivered.
func (q *Queue) Delete(ctx context.Context, receiptHandle string) error {
	_, err := q.api.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.url),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("queue: delete failed: %w", err)
	}
	return nil
}
