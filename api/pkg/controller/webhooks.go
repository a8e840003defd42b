package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lattica-health/companion-api/api/pkg/pubsub"
	"github.com/lattica-health/companion-api/api/pkg/store"
	"github.com/lattica-health/companion-api/api/pkg/summarizer"
	"github.com/lattica-health/companion-api/api/pkg/types"
)

// ProcessWebhook classifies an inbound provider event and dispatches
// it. Unknown event types and events without a conversation id are
// dropped without error: the provider is free to introduce new kinds
// and we must not fail their delivery.
func (c *Controller) ProcessWebhook(ctx context.Context, event *types.WebhookEvent) error {
	if event.EventType == "" || event.ConversationID == "" {
		return nil
	}

	switch event.EventType {
	case types.WebhookEventShutdown:
		return c.HandleShutdown(ctx, event.ConversationID, shutdownReason(event.Properties))
	case types.WebhookEventPerceptionAnalysis:
		c.HandlePerceptionEvent(event.ConversationID, types.PerceptionObservation(event.Properties))
		return nil
	case types.WebhookEventTranscriptionReady:
		return c.HandleTranscriptReady(ctx, event.ConversationID, transcriptEntries(event.Properties))
	default:
		log.Debug().
			Str("event_type", event.EventType).
			Str("conversation_id", event.ConversationID).
			Msg("ignoring unrecognized webhook event")
		return nil
	}
}

func shutdownReason(properties map[string]interface{}) string {
	if reason, ok := properties["shutdown_reason"].(string); ok && reason != "" {
		return reason
	}
	return "unknown"
}

// transcriptEntries pulls the transcript out of the event properties.
// The provider sends it as a JSON array, we round-trip it through the
// typed entry struct. Anything missing or malformed becomes an empty
// transcript rather than an error.
func transcriptEntries(properties map[string]interface{}) []types.TranscriptEntry {
	raw, ok := properties["transcript"]
	if !ok {
		return nil
	}

	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}

	var entries []types.TranscriptEntry
	if err := json.Unmarshal(encoded, &entries); err != nil {
		return nil
	}

	return entries
}

// HandleShutdown records the provider-side end of the conversation.
// Duplicate deliveries simply overwrite, last writer wins.
func (c *Controller) HandleShutdown(ctx context.Context, conversationID string, reason string) error {
	log.Info().
		Str("conversation_id", conversationID).
		Str("shutdown_reason", reason).
		Msg("conversation shutdown")

	return c.Options.Store.UpdateConversationEnded(ctx, conversationID, time.Now(), reason)
}

// HandlePerceptionEvent buffers one observation from the provider's
// realtime perception analysis. No summary interaction here.
func (c *Controller) HandlePerceptionEvent(conversationID string, observation types.PerceptionObservation) {
	c.perceptionBuffer.Append(conversationID, observation)
}

// HandleTranscriptReady materializes the summary row for a
// conversation. This is the NoSummary to SummaryCreated transition and
// it fires exactly once: the insert is conditional on no row existing,
// so a duplicate webhook delivery drains an empty buffer, loses the
// insert race and does not notify a second time.
func (c *Controller) HandleTranscriptReady(ctx context.Context, conversationID string, transcript []types.TranscriptEntry) error {
	unlock := c.lockConversation(conversationID)
	defer unlock()

	observations := c.perceptionBuffer.Drain(conversationID)

	summary := summarizer.GenerateSummary(transcript)
	notes := summarizer.CompilePerceptionNotes(observations)

	rawTranscript, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("failed to serialize transcript: %w", err)
	}

	created, err := c.Options.Store.CreateConversationSummary(ctx, &types.ConversationSummary{
		ConversationID:  conversationID,
		RawTranscript:   rawTranscript,
		TopicsCovered:   summary.TopicsCovered,
		QuestionsAsked:  summary.QuestionsAsked,
		PerceptionNotes: notes,
	})
	if err != nil {
		// the provider retries on a non-success response, put the
		// drained observations back so the retry can compile them
		c.perceptionBuffer.Append(conversationID, observations...)
		return fmt.Errorf("failed to create summary for %s: %w", conversationID, err)
	}

	if !created {
		log.Debug().
			Str("conversation_id", conversationID).
			Msg("summary already exists, duplicate transcription_ready delivery")
		return nil
	}

	log.Info().
		Str("conversation_id", conversationID).
		Int("topics", len(summary.TopicsCovered)).
		Int("questions", len(summary.QuestionsAsked)).
		Msg("summary created")

	c.notifySummaryReady(ctx, conversationID)

	return nil
}

// BufferPerception is the client-facing ingestion path. Observations
// are appended first so they are never lost, then if the summary row
// already exists (the transcript webhook won the race) we drain and
// fold them into the perception notes right away.
func (c *Controller) BufferPerception(ctx context.Context, conversationID string, observations []types.PerceptionObservation) error {
	unlock := c.lockConversation(conversationID)
	defer unlock()

	c.perceptionBuffer.Append(conversationID, observations...)

	_, err := c.Options.Store.GetConversationSummary(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// no summary yet, the transcript-ready handler will drain
			return nil
		}
		return err
	}

	drained := c.perceptionBuffer.Drain(conversationID)
	notes := summarizer.CompilePerceptionNotes(drained)
	if notes == nil {
		return nil
	}

	if err := c.Options.Store.UpdateSummaryPerceptionNotes(ctx, conversationID, *notes); err != nil {
		c.perceptionBuffer.Append(conversationID, drained...)
		return fmt.Errorf("failed to update perception notes for %s: %w", conversationID, err)
	}

	return nil
}

func (c *Controller) notifySummaryReady(ctx context.Context, conversationID string) {
	payload, err := json.Marshal(types.SummaryReadySignal{Status: types.SummaryStatusReady})
	if err != nil {
		log.Error().Err(err).Msg("failed to encode summary ready signal")
		return
	}

	err = c.Options.PubSub.Publish(ctx, pubsub.GetSummaryReadyQueue(conversationID), payload)
	if err != nil {
		// listeners can still re-poll the summary read path
		log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("failed to publish summary ready signal")
	}
}
