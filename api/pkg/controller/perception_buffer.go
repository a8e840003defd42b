package controller

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/lattica-health/companion-api/api/pkg/types"
)

// PerceptionBuffer accumulates emotion observations per conversation
// until the summary is materialized and the buffer is drained. Entries
// are copy-on-write slices inside an xsync map, so Append and Drain
// are atomic with respect to each other: a drain sees every append
// ordered before it, and of two concurrent drains only one gets the
// buffered sequence.
type PerceptionBuffer struct {
	entries *xsync.MapOf[string, []types.PerceptionObservation]
}

func NewPerceptionBuffer() *PerceptionBuffer {
	return &PerceptionBuffer{
		entries: xsync.NewMapOf[string, []types.PerceptionObservation](),
	}
}

// Append extends the buffered sequence for the conversation,
// order-preserving. Safe for any number of concurrent producers.
func (b *PerceptionBuffer) Append(conversationID string, observations ...types.PerceptionObservation) {
	if len(observations) == 0 {
		return
	}
	b.entries.Compute(conversationID, func(old []types.PerceptionObservation, _ bool) ([]types.PerceptionObservation, bool) {
		next := make([]types.PerceptionObservation, 0, len(old)+len(observations))
		next = append(next, old...)
		next = append(next, observations...)
		return next, false
	})
}

// Drain atomically removes and returns the buffered sequence for the
// conversation. A second drain before any new append returns nil.
func (b *PerceptionBuffer) Drain(conversationID string) []types.PerceptionObservation {
	observations, _ := b.entries.LoadAndDelete(conversationID)
	return observations
}

// Len reports the number of buffered observations for a conversation.
func (b *PerceptionBuffer) Len(conversationID string) int {
	observations, _ := b.entries.Load(conversationID)
	return len(observations)
}
