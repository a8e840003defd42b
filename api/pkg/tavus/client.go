// Package tavus is the client for the Tavus conversational video API.
// The pipeline only needs conversation create/end; the persona and
// knowledge document bootstrap used by the setup command lives in
// setup.go.
package tavus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/lattica-health/companion-api/api/pkg/config"
	"github.com/lattica-health/companion-api/api/pkg/types"
)

type Client struct {
	cfg        config.Tavus
	httpClient *retryablehttp.Client
}

func NewClient(cfg config.Tavus) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.HTTPClient.Timeout = cfg.RequestTimeout
	retryClient.Logger = stdlog.New(io.Discard, "", stdlog.LstdFlags)

	return &Client{
		cfg:        cfg,
		httpClient: retryClient,
	}
}

type createConversationPayload struct {
	PersonaID                 string   `json:"persona_id"`
	ConversationalContext     string   `json:"conversational_context"`
	CallbackURL               string   `json:"callback_url"`
	DocumentTags              []string `json:"document_tags"`
	DocumentRetrievalStrategy string   `json:"document_retrieval_strategy"`
}

// CreateConversation starts a provider conversation for the patient.
// The returned conversation id keys everything else in the system.
func (c *Client) CreateConversation(ctx context.Context, patientName string) (*types.CreateConversationResponse, error) {
	payload := createConversationPayload{
		PersonaID:                 c.cfg.PersonaID,
		ConversationalContext:     conversationalContext(patientName),
		CallbackURL:               fmt.Sprintf("%s/api/v1/webhooks/tavus", c.cfg.WebhookURL),
		DocumentTags:              []string{DocumentTag},
		DocumentRetrievalStrategy: "quality",
	}

	var result types.CreateConversationResponse
	if err := c.post(ctx, "/v2/conversations", payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// EndConversation gracefully ends a provider conversation.
func (c *Client) EndConversation(ctx context.Context, conversationID string) error {
	return c.post(ctx, fmt.Sprintf("/v2/conversations/%s/end", conversationID), nil, nil)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, result interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tavus request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("tavus returned %d: %s", resp.StatusCode, string(responseBody))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode tavus response: %w", err)
		}
	}

	return nil
}

func conversationalContext(patientName string) string {
	return fmt.Sprintf(
		"Pre-procedure educational session for a patient preparing for egg retrieval at UCSF.\n"+
			"Patient name: %s. Address them by name throughout the conversation.\n"+
			"Your role is educational and supportive only — not diagnostic.\n\n"+
			"Clinic contacts:\n"+
			"- M-F 8am-5pm: 4 1 5, 3 5 3, 7 4 7 5 (option 2 for Nurse)\n"+
			"- After-hours / Weekends: 4 1 5, 5 6 1, 9 0 2 0\n"+
			"- UCSF ER: 4 1 5, 3 5 3, 1 2 3 8",
		patientName,
	)
}
