package events

import "context"

type NoopConsumer struct{}

func NewNoopConsumer() *NoopConsumer {
	return &NoopConsumer{}
}

func (c *NoopConsumer) Poll(ctx context.Context, max int) ([]Message, error) {
	return nil, nil
}
