package pubsub

import (
	"context"
)

type Publisher interface {
	// Publish topic to message broker with payload.
	Publish(ctx context.Context, topic string, payload []byte) error
}

type PubSub interface {
	Publisher
	Subscribe(ctx context.Context, topic string, handler func(payload []byte) error) (Subscription, error)
}

type Subscription interface {
	Unsubscribe() error
}

// GetSummaryReadyQueue is the subject the webhook processor publishes
// the one-shot "summarized" signal on. Stream handlers subscribe here
// before the signal fires; anyone subscribing after it has fired gets
// nothing and should re-fetch via the summary read path.
func GetSummaryReadyQueue(conversationID string) string {
	return "summary-ready." + conversationID
}
