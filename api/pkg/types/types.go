package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Conversation is one end-to-end patient session with the companion
// agent. The ID is assigned by the provider when the conversation is
// created and is used as the key for every other record.
type Conversation struct {
	ID             string     `json:"conversation_id" gorm:"primaryKey"`
	PatientName    string     `json:"patient_name"`
	Created        time.Time  `json:"created"`
	Updated        time.Time  `json:"updated"`
	EndedAt        *time.Time `json:"ended_at"`
	ShutdownReason string     `json:"shutdown_reason"`
}

// ConversationSummary is the single derived artifact per conversation,
// created once the full transcript arrives. PerceptionNotes is the only
// field that may be updated after creation (late perception batches).
type ConversationSummary struct {
	ConversationID  string          `json:"conversation_id" gorm:"primaryKey"`
	RawTranscript   json.RawMessage `json:"raw_transcript" gorm:"type:text"`
	TopicsCovered   TopicList       `json:"topics_covered"`
	QuestionsAsked  QuestionList    `json:"questions_asked"`
	PerceptionNotes *string         `json:"perception_notes"`
	Created         time.Time       `json:"created"`
}

type QuestionEntry struct {
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

type TopicList []string

func (m TopicList) Value() (driver.Value, error) {
	j, err := json.Marshal(m)
	return j, err
}

func (t *TopicList) Scan(src interface{}) error {
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	case nil:
		*t = nil
		return nil
	default:
		return errors.New("unsupported source type for TopicList")
	}
	var result TopicList
	if err := json.Unmarshal(source, &result); err != nil {
		return err
	}
	*t = result
	return nil
}

func (TopicList) GormDataType() string {
	return "json"
}

type QuestionList []QuestionEntry

func (m QuestionList) Value() (driver.Value, error) {
	j, err := json.Marshal(m)
	return j, err
}

func (t *QuestionList) Scan(src interface{}) error {
	var source []byte
	switch v := src.(type) {
	case []byte:
		source = v
	case string:
		source = []byte(v)
	case nil:
		*t = nil
		return nil
	default:
		return errors.New("unsupported source type for QuestionList")
	}
	var result QuestionList
	if err := json.Unmarshal(source, &result); err != nil {
		return err
	}
	*t = result
	return nil
}

func (QuestionList) GormDataType() string {
	return "json"
}

type EscalationType string

const (
	EscalationTypePassiveEmotion EscalationType = "passive_emotion"
	EscalationTypeDoctorRedirect EscalationType = "doctor_redirect"
)

type EscalationSeverity string

const (
	EscalationSeverityMedium EscalationSeverity = "medium"
	EscalationSeverityHigh   EscalationSeverity = "high"
)

// EscalationEvent is an append-only log entry raised by the agent's
// tool calls during a session. Independent of the summary lifecycle.
type EscalationEvent struct {
	ID             string             `json:"id" gorm:"primaryKey"`
	ConversationID string             `json:"conversation_id" gorm:"index"`
	EventType      EscalationType     `json:"event_type"`
	Severity       EscalationSeverity `json:"severity"`
	QuestionText   string             `json:"question_text"`
	Reason         string             `json:"reason"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// TranscriptEntry is one utterance in the provider transcript.
type TranscriptEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

// PerceptionObservation is one emotion data point from the provider's
// audio/visual analysis. The payload shape varies so we keep the raw
// map and expose the label through an accessor.
type PerceptionObservation map[string]interface{}

// Label returns the lowercased emotion label for the observation. The
// provider uses the "emotion" key for webhook events and the frontend
// uses "label"; anything else counts as neutral.
func (o PerceptionObservation) Label() string {
	for _, key := range []string{"emotion", "label"} {
		if v, ok := o[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return strings.ToLower(s)
			}
		}
	}
	return "neutral"
}

const (
	WebhookEventShutdown           = "system.shutdown"
	WebhookEventPerceptionAnalysis = "application.perception_analysis"
	WebhookEventTranscriptionReady = "application.transcription_ready"
)

// WebhookEvent is the inbound provider envelope. Delivery is
// at-least-once and unordered; Properties varies per event type.
type WebhookEvent struct {
	EventType      string                 `json:"event_type"`
	ConversationID string                 `json:"conversation_id"`
	Properties     map[string]interface{} `json:"properties"`
}

type CreateConversationRequest struct {
	PatientName string `json:"patient_name"`
}

type CreateConversationResponse struct {
	ConversationID  string `json:"conversation_id"`
	ConversationURL string `json:"conversation_url"`
}

type BufferPerceptionRequest struct {
	Observations []PerceptionObservation `json:"observations"`
}

type LogEscalationRequest struct {
	EventType    EscalationType     `json:"event_type"`
	Severity     EscalationSeverity `json:"severity,omitempty"`
	QuestionText string             `json:"question_text,omitempty"`
	Reason       string             `json:"reason"`
}

type LogEscalationResponse struct {
	EscalationID string `json:"escalation_id"`
}

type ConversationSummaryResponse struct {
	ConversationID  string             `json:"conversation_id"`
	PatientName     string             `json:"patient_name"`
	TopicsCovered   []string           `json:"topics_covered"`
	QuestionsAsked  []QuestionEntry    `json:"questions_asked"`
	EscalationCount int                `json:"escalation_count"`
	Escalations     []*EscalationEvent `json:"escalations"`
	EndedAt         string             `json:"ended_at,omitempty"`
	PerceptionNotes *string            `json:"perception_notes"`
}

const SummaryStatusReady = "summarized"

// SummaryReadySignal is the one-shot payload delivered to stream
// listeners when a conversation's summary row is first created.
type SummaryReadySignal struct {
	Status string `json:"status"`
}
