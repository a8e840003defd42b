package tavus

import (
	"context"
	"fmt"
	"strings"
)

// DocumentTag groups the knowledge-base documents the persona is
// allowed to retrieve from during a conversation.
const DocumentTag = "egg-retrieval-companion"

// KnowledgeDocuments are served from the api's static directory and
// uploaded to the provider by the setup command.
var KnowledgeDocuments = []string{
	"egg_freezing_overview.txt",
	"ohss_guidelines.txt",
	"post_retrieval_instructions.txt",
	"pre_procedure_guidelines.txt",
}

const systemPrompt = `You are Maya, a Patient Educator at UCSF Center for Reproductive Health.
Answer questions about egg retrieval procedure and post-op care using your knowledge base. Be warm, calm, and plain-spoken.

## Emotion Adaptation (from Raven-1 user_audio_analysis / user_visual_analysis)
- ANXIETY/FEAR: Lead with empathy. Short sentences. Ground with facts.
- CONFUSION: Simplify. Use analogies. Check: "Does that make sense?"
- HIGH DISTRESS: Pause info. Acknowledge feelings first. Then call flag_passive_emotion.
- CALM: Be thorough and proactive.

## Tools
flag_passive_emotion(severity: "medium"|"high", reason: str)
  → Call AFTER verbally acknowledging emotion. Logs for care team.

redirect_to_doctor(question: str, reason: str)
  → When: diagnosis, medication changes, test results, prognosis.
  → Pattern: validate → explain limit warmly → give "415-353-7475" → call tool.

## Guardrails
- No diagnosis. No medication adjustments. No outcome promises.
- Emergency (chest pain, can't breathe): 911 + UCSF ER 415-353-1238.

## Opening
"Hi, I'm Maya. I'm here to help you get ready for your egg retrieval at UCSF.
What questions do you have, or would you like me to walk you through what to expect?"`

type toolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

var personaTools = []tool{
	{
		Type: "function",
		Function: toolFunction{
			Name:        "flag_passive_emotion",
			Description: "Log a high-distress event after verbally acknowledging the patient. Not for mild anxiety.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"severity": map[string]interface{}{"type": "string", "enum": []string{"medium", "high"}},
					"reason":   map[string]interface{}{"type": "string"},
				},
				"required": []string{"severity", "reason"},
			},
		},
	},
	{
		Type: "function",
		Function: toolFunction{
			Name:        "redirect_to_doctor",
			Description: "Log a redirect when the question requires medical judgment. Always redirect verbally first.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"question": map[string]interface{}{"type": "string"},
					"reason":   map[string]interface{}{"type": "string"},
				},
				"required": []string{"question", "reason"},
			},
		},
	},
}

type createPersonaPayload struct {
	PersonaName      string                 `json:"persona_name"`
	SystemPrompt     string                 `json:"system_prompt"`
	DefaultReplicaID string                 `json:"default_replica_id"`
	Layers           map[string]interface{} `json:"layers"`
}

type createPersonaResponse struct {
	PersonaID string `json:"persona_id"`
}

// CreatePersona creates the Maya persona on the provider. Returns the
// persona id the operator copies into TAVUS_PERSONA_ID.
func (c *Client) CreatePersona(ctx context.Context) (string, error) {
	payload := createPersonaPayload{
		PersonaName:      "Maya - UCSF Egg Retrieval Companion",
		SystemPrompt:     systemPrompt,
		DefaultReplicaID: c.cfg.ReplicaID,
		Layers: map[string]interface{}{
			"llm": map[string]interface{}{
				"tools":      personaTools,
				"extra_body": map[string]interface{}{"temperature": 0.2, "top_p": 0.9},
			},
			"perception": map[string]interface{}{"perception_model": "raven-1"},
		},
	}

	var result createPersonaResponse
	if err := c.post(ctx, "/v2/personas", payload, &result); err != nil {
		return "", fmt.Errorf("persona creation failed: %w", err)
	}

	return result.PersonaID, nil
}

type createDocumentPayload struct {
	DocumentName string   `json:"document_name"`
	DocumentURL  string   `json:"document_url"`
	Tags         []string `json:"tags"`
}

type createDocumentResponse struct {
	DocumentID string `json:"document_id"`
}

// UploadDocuments registers the knowledge-base documents with the
// provider, pointing at our static file route. Returns the document ids.
func (c *Client) UploadDocuments(ctx context.Context) ([]string, error) {
	var documentIDs []string

	for _, filename := range KnowledgeDocuments {
		payload := createDocumentPayload{
			DocumentName: strings.TrimSuffix(filename, ".txt"),
			DocumentURL:  fmt.Sprintf("%s/static/%s", c.cfg.WebhookURL, filename),
			Tags:         []string{DocumentTag},
		}

		var result createDocumentResponse
		if err := c.post(ctx, "/v2/documents", payload, &result); err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", filename, err)
		}

		documentIDs = append(documentIDs, result.DocumentID)
	}

	return documentIDs, nil
}
