package dispatchservice

import (
	"context"
	"log/slog"

	"cloud.google.com/go/pubsub/v2"
)

// PubsubConsumer adapts a Pub/Sub subscriber to the EventConsumer seam.
// Redelivery of nacked events is the subscription's concern; the dispatch
// path itself stays at-most-once per attempt.
type PubsubConsumer struct {
	sub    *pubsub.Subscriber
	logger *slog.Logger
}

func NewPubsubConsumer(client *pubsub.Client, subscriptionID string, logger *slog.Logger) *PubsubConsumer {
	return &PubsubConsumer{
		sub:    client.Subscriber(subscriptionID),
		logger: logger.With("component", "PubsubConsumer"),
	}
}

func (c *PubsubConsumer) Receive(ctx context.Context, handler func(ctx context.Context, payload []byte) error) error {
	return c.sub.Receive(ctx, func(ctx context.Context, m *pubsub.Message) {
		if err := handler(ctx, m.Data); err != nil {
			c.logger.Warn("event nacked for redelivery", "pubsub_msg_id", m.ID, "err", err)
			m.Nack()
			return
		}
		m.Ack()
	})
}
