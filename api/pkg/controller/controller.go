// Package controller owns the webhook driven summarization pipeline:
// provider events come in, the perception buffer accumulates emotion
// observations, and the summary row is materialized exactly once per
// conversation when the transcript arrives. The summary insert is the
// authoritative race breaker (unique key, insert-if-absent); the
// per-conversation lock serializes the two buffer drain sites.
package controller

import (
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/lattica-health/companion-api/api/pkg/pubsub"
	"github.com/lattica-health/companion-api/api/pkg/store"
)

type Options struct {
	Store  store.Store
	PubSub pubsub.PubSub
}

type Controller struct {
	Options Options

	perceptionBuffer *PerceptionBuffer

	// one mutex per conversation so transcript-ready handling and a
	// client perception flush for the same conversation cannot drain
	// the buffer concurrently; different conversations run in parallel
	conversationLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewController(options Options) (*Controller, error) {
	if options.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if options.PubSub == nil {
		return nil, fmt.Errorf("pubsub is required")
	}

	return &Controller{
		Options:           options,
		perceptionBuffer:  NewPerceptionBuffer(),
		conversationLocks: xsync.NewMapOf[string, *sync.Mutex](),
	}, nil
}

func (c *Controller) lockConversation(conversationID string) func() {
	mu, _ := c.conversationLocks.LoadOrStore(conversationID, &sync.Mutex{})
	mu.Lock()
	return mu.Unlock
}
