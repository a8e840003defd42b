package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/lattica-health/companion-api/api/pkg/types"
)

type webhookReceipt struct {
	Received bool `json:"received"`
}

// tavusWebhook is the single inbound door for provider events. We
// always acknowledge events we can parse, even unrecognized kinds,
// because the provider retries on error responses.
func (apiServer *CompanionAPIServer) tavusWebhook(_ http.ResponseWriter, req *http.Request) (*webhookReceipt, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}

	var event types.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, err
	}

	// older provider payloads put the event fields at the top level
	// with no properties envelope
	if event.Properties == nil {
		var flat map[string]interface{}
		if err := json.Unmarshal(body, &flat); err == nil {
			event.Properties = flat
		}
	}

	log.Debug().
		Str("event_type", event.EventType).
		Str("conversation_id", event.ConversationID).
		Msg("webhook received")

	if err := apiServer.Controller.ProcessWebhook(req.Context(), &event); err != nil {
		return nil, err
	}

	return &webhookReceipt{Received: true}, nil
}
