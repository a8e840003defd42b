package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/lattica-health/companion-api/api/pkg/store"
	"github.com/lattica-health/companion-api/api/pkg/system"
	"github.com/lattica-health/companion-api/api/pkg/types"
)

// createConversation asks the provider for a new video session and
// records it locally under the provider-assigned id.
func (apiServer *CompanionAPIServer) createConversation(_ http.ResponseWriter, req *http.Request) (*types.CreateConversationResponse, *system.HTTPError) {
	var request types.CreateConversationRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		return nil, system.NewHTTPError400("invalid request body")
	}
	if request.PatientName == "" {
		return nil, system.NewHTTPError400("patient_name is required")
	}

	created, err := apiServer.tavus.CreateConversation(req.Context(), request.PatientName)
	if err != nil {
		log.Error().Err(err).Msg("provider conversation create failed")
		return nil, system.NewHTTPError502("failed to create conversation with provider")
	}

	_, err = apiServer.Store.CreateConversation(req.Context(), &types.Conversation{
		ID:          created.ConversationID,
		PatientName: request.PatientName,
	})
	if err != nil {
		return nil, system.NewHTTPError500(err.Error())
	}

	return created, nil
}

type endConversationResponse struct {
	Ended bool `json:"ended"`
}

// endConversation tells the provider to hang up the session. The
// durable ended_at record is written when the shutdown webhook lands,
// so here we only proxy the call.
func (apiServer *CompanionAPIServer) endConversation(_ http.ResponseWriter, req *http.Request) (*endConversationResponse, *system.HTTPError) {
	conversationID := mux.Vars(req)["id"]

	if err := apiServer.tavus.EndConversation(req.Context(), conversationID); err != nil {
		log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("provider conversation end failed")
		return nil, system.NewHTTPError502("failed to end conversation with provider")
	}

	return &endConversationResponse{Ended: true}, nil
}

func (apiServer *CompanionAPIServer) logEscalation(_ http.ResponseWriter, req *http.Request) (*types.LogEscalationResponse, *system.HTTPError) {
	conversationID := mux.Vars(req)["id"]

	var request types.LogEscalationRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		return nil, system.NewHTTPError400("invalid request body")
	}
	if request.EventType == "" || request.Reason == "" {
		return nil, system.NewHTTPError400("event_type and reason are required")
	}

	severity := request.Severity
	if severity == "" {
		switch request.EventType {
		case types.EscalationTypeDoctorRedirect:
			severity = types.EscalationSeverityHigh
		default:
			severity = types.EscalationSeverityMedium
		}
	}

	event, err := apiServer.Store.CreateEscalationEvent(req.Context(), &types.EscalationEvent{
		ConversationID: conversationID,
		EventType:      request.EventType,
		Severity:       severity,
		QuestionText:   request.QuestionText,
		Reason:         request.Reason,
	})
	if err != nil {
		return nil, system.NewHTTPError500(err.Error())
	}

	log.Info().
		Str("conversation_id", conversationID).
		Str("event_type", string(event.EventType)).
		Str("severity", string(event.Severity)).
		Msg("escalation logged")

	return &types.LogEscalationResponse{EscalationID: event.ID}, nil
}

type bufferPerceptionResponse struct {
	Buffered int `json:"buffered"`
}

func (apiServer *CompanionAPIServer) bufferPerception(_ http.ResponseWriter, req *http.Request) (*bufferPerceptionResponse, *system.HTTPError) {
	conversationID := mux.Vars(req)["id"]

	var request types.BufferPerceptionRequest
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		return nil, system.NewHTTPError400("invalid request body")
	}

	if err := apiServer.Controller.BufferPerception(req.Context(), conversationID, request.Observations); err != nil {
		return nil, system.NewHTTPError500(err.Error())
	}

	return &bufferPerceptionResponse{Buffered: len(request.Observations)}, nil
}

// getSummary joins the conversation, its summary and its escalation log
// into the one response the frontend renders. 404 until the transcript
// webhook has materialized the summary row.
func (apiServer *CompanionAPIServer) getSummary(_ http.ResponseWriter, req *http.Request) (*types.ConversationSummaryResponse, *system.HTTPError) {
	conversationID := mux.Vars(req)["id"]

	conversation, err := apiServer.Store.GetConversation(req.Context(), conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, system.NewHTTPError404("conversation not found")
		}
		return nil, system.NewHTTPError500(err.Error())
	}

	summary, err := apiServer.Store.GetConversationSummary(req.Context(), conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, system.NewHTTPError404("summary not ready")
		}
		return nil, system.NewHTTPError500(err.Error())
	}

	escalations, err := apiServer.Store.ListEscalationEvents(req.Context(), conversationID)
	if err != nil {
		return nil, system.NewHTTPError500(err.Error())
	}

	response := &types.ConversationSummaryResponse{
		ConversationID:  conversationID,
		PatientName:     conversation.PatientName,
		TopicsCovered:   summary.TopicsCovered,
		QuestionsAsked:  summary.QuestionsAsked,
		EscalationCount: len(escalations),
		Escalations:     escalations,
		PerceptionNotes: summary.PerceptionNotes,
	}
	if conversation.EndedAt != nil {
		response.EndedAt = conversation.EndedAt.Format(time.RFC3339)
	}

	return response, nil
}
