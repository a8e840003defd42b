package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/lattica-health/companion-api/api/pkg/config"
	"github.com/lattica-health/companion-api/api/pkg/controller"
	"github.com/lattica-health/companion-api/api/pkg/pubsub"
	"github.com/lattica-health/companion-api/api/pkg/store"
	"github.com/lattica-health/companion-api/api/pkg/types"
)

type fakeTavusClient struct {
	createErr error
	endErr    error

	endedConversations []string
}

func (f *fakeTavusClient) CreateConversation(_ context.Context, _ string) (*types.CreateConversationResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &types.CreateConversationResponse{
		ConversationID:  "c-tavus-1",
		ConversationURL: "https://tavus.daily.co/c-tavus-1",
	}, nil
}

func (f *fakeTavusClient) EndConversation(_ context.Context, conversationID string) error {
	if f.endErr != nil {
		return f.endErr
	}
	f.endedConversations = append(f.endedConversations, conversationID)
	return nil
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type ServerTestSuite struct {
	suite.Suite

	ctrl   *gomock.Controller
	store  *store.MockStore
	pubsub pubsub.PubSub
	tavus  *fakeTavusClient
	server *CompanionAPIServer
}

func (suite *ServerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.store = store.NewMockStore(suite.ctrl)

	ps, err := pubsub.NewInMemoryNats()
	suite.Require().NoError(err)
	suite.pubsub = ps
	suite.T().Cleanup(func() { ps.Close() })

	c, err := controller.NewController(controller.Options{
		Store:  suite.store,
		PubSub: suite.pubsub,
	})
	suite.Require().NoError(err)

	suite.tavus = &fakeTavusClient{}

	cfg := &config.ServerConfig{}
	cfg.WebServer.Host = "127.0.0.1"
	cfg.WebServer.CORSOrigin = "http://localhost:5173"
	cfg.WebServer.StaticDir = suite.T().TempDir()

	server, err := NewServer(Options{
		Config:     cfg,
		Store:      suite.store,
		Controller: c,
		PubSub:     suite.pubsub,
		Tavus:      suite.tavus,
	})
	suite.Require().NoError(err)
	suite.server = server

	server.registerRoutes(context.Background())
}

func (suite *ServerTestSuite) doRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	suite.server.handler.ServeHTTP(rec, req)
	return rec
}

func (suite *ServerTestSuite) TestStatus() {
	rec := suite.doRequest(http.MethodGet, "/api/v1/status", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"status": "ok"}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestCreateConversation() {
	suite.store.EXPECT().
		CreateConversation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, conversation *types.Conversation) (*types.Conversation, error) {
			suite.Equal("c-tavus-1", conversation.ID)
			suite.Equal("Dana", conversation.PatientName)
			return conversation, nil
		})

	rec := suite.doRequest(http.MethodPost, "/api/v1/conversations", types.CreateConversationRequest{
		PatientName: "Dana",
	})
	suite.Equal(http.StatusOK, rec.Code)

	var response types.CreateConversationResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	suite.Equal("c-tavus-1", response.ConversationID)
	suite.Equal("https://tavus.daily.co/c-tavus-1", response.ConversationURL)
}

func (suite *ServerTestSuite) TestCreateConversationMissingName() {
	rec := suite.doRequest(http.MethodPost, "/api/v1/conversations", types.CreateConversationRequest{})
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestCreateConversationProviderDown() {
	suite.tavus.createErr = fmt.Errorf("connection refused")

	rec := suite.doRequest(http.MethodPost, "/api/v1/conversations", types.CreateConversationRequest{
		PatientName: "Dana",
	})
	suite.Equal(http.StatusBadGateway, rec.Code)
}

func (suite *ServerTestSuite) TestEndConversation() {
	rec := suite.doRequest(http.MethodPost, "/api/v1/conversations/c1/end", nil)
	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal([]string{"c1"}, suite.tavus.endedConversations)
}

func (suite *ServerTestSuite) TestEndConversationProviderDown() {
	suite.tavus.endErr = fmt.Errorf("conversation not found")

	rec := suite.doRequest(http.MethodPost, "/api/v1/conversations/c1/end", nil)
	suite.Equal(http.StatusBadGateway, rec.Code)
}

func (suite *ServerTestSuite) TestLogEscalationDefaultSeverity() {
	suite.store.EXPECT().
		CreateEscalationEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event *types.EscalationEvent) (*types.EscalationEvent, error) {
			suite.Equal("c1", event.ConversationID)
			suite.Equal(types.EscalationTypeDoctorRedirect, event.EventType)
			suite.Equal(types.EscalationSeverityHigh, event.Severity)
			event.ID = "esc_123"
			return event, nil
		})

	rec := suite.doRequest(http.MethodPost, "/api/v1/conversations/c1/escalations", types.LogEscalationRequest{
		EventType:    types.EscalationTypeDoctorRedirect,
		QuestionText: "Can I change my trigger time?",
		Reason:       "medication question",
	})
	suite.Equal(http.StatusOK, rec.Code)

	var response types.LogEscalationResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	suite.Equal("esc_123", response.EscalationID)
}

func (suite *ServerTestSuite) TestLogEscalationMissingFields() {
	rec := suite.doRequest(http.MethodPost, "/api/v1/conversations/c1/escalations", types.LogEscalationRequest{
		EventType: types.EscalationTypePassiveEmotion,
	})
	suite.Equal(http.StatusBadRequest, rec.Code)
}

func (suite *ServerTestSuite) TestBufferPerceptionBeforeSummary() {
	suite.store.EXPECT().
		GetConversationSummary(gomock.Any(), "c1").
		Return(nil, store.ErrNotFound)

	rec := suite.doRequest(http.MethodPost, "/api/v1/conversations/c1/perception", types.BufferPerceptionRequest{
		Observations: []types.PerceptionObservation{
			{"label": "calm"},
			{"label": "anxious"},
		},
	})
	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"buffered": 2}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestGetSummaryNotReady() {
	suite.store.EXPECT().
		GetConversation(gomock.Any(), "c1").
		Return(&types.Conversation{ID: "c1", PatientName: "Dana"}, nil)
	suite.store.EXPECT().
		GetConversationSummary(gomock.Any(), "c1").
		Return(nil, store.ErrNotFound)

	rec := suite.doRequest(http.MethodGet, "/api/v1/conversations/c1/summary", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
	suite.Contains(rec.Body.String(), "summary not ready")
}

func (suite *ServerTestSuite) TestGetSummaryUnknownConversation() {
	suite.store.EXPECT().
		GetConversation(gomock.Any(), "nope").
		Return(nil, store.ErrNotFound)

	rec := suite.doRequest(http.MethodGet, "/api/v1/conversations/nope/summary", nil)
	suite.Equal(http.StatusNotFound, rec.Code)
}

func (suite *ServerTestSuite) TestGetSummary() {
	endedAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	notes := "Maya observed that you were mostly calm throughout the session."

	suite.store.EXPECT().
		GetConversation(gomock.Any(), "c1").
		Return(&types.Conversation{ID: "c1", PatientName: "Dana", EndedAt: &endedAt}, nil)
	suite.store.EXPECT().
		GetConversationSummary(gomock.Any(), "c1").
		Return(&types.ConversationSummary{
			ConversationID: "c1",
			TopicsCovered:  types.TopicList{"Pain management"},
			QuestionsAsked: types.QuestionList{
				{Text: "what should I take for cramping"},
			},
			PerceptionNotes: &notes,
		}, nil)
	suite.store.EXPECT().
		ListEscalationEvents(gomock.Any(), "c1").
		Return([]*types.EscalationEvent{
			{ID: "esc_1", ConversationID: "c1", EventType: types.EscalationTypeDoctorRedirect},
		}, nil)

	rec := suite.doRequest(http.MethodGet, "/api/v1/conversations/c1/summary", nil)
	suite.Equal(http.StatusOK, rec.Code)

	var response types.ConversationSummaryResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	suite.Equal("Dana", response.PatientName)
	suite.Equal([]string{"Pain management"}, response.TopicsCovered)
	suite.Equal(1, response.EscalationCount)
	suite.Equal("2026-03-14T10:30:00Z", response.EndedAt)
	suite.Require().NotNil(response.PerceptionNotes)
	suite.Equal(notes, *response.PerceptionNotes)
}

func (suite *ServerTestSuite) TestWebhookTranscriptionReady() {
	suite.store.EXPECT().
		CreateConversationSummary(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, summary *types.ConversationSummary) (bool, error) {
			suite.Equal("c1", summary.ConversationID)
			suite.Contains([]string(summary.TopicsCovered), "Pain management")
			return true, nil
		})

	rec := suite.doRequest(http.MethodPost, "/api/v1/webhooks/tavus", map[string]interface{}{
		"event_type":      types.WebhookEventTranscriptionReady,
		"conversation_id": "c1",
		"properties": map[string]interface{}{
			"transcript": []map[string]string{
				{"role": "user", "content": "the cramping is pretty bad"},
			},
		},
	})
	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"received": true}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestWebhookUnknownEventAcknowledged() {
	rec := suite.doRequest(http.MethodPost, "/api/v1/webhooks/tavus", map[string]interface{}{
		"event_type":      "application.recording_ready",
		"conversation_id": "c1",
	})
	suite.Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"received": true}`, rec.Body.String())
}

func (suite *ServerTestSuite) TestWebhookFlatPayload() {
	suite.store.EXPECT().
		UpdateConversationEnded(gomock.Any(), "c1", gomock.Any(), "max_call_duration").
		Return(nil)

	rec := suite.doRequest(http.MethodPost, "/api/v1/webhooks/tavus", map[string]interface{}{
		"event_type":      types.WebhookEventShutdown,
		"conversation_id": "c1",
		"shutdown_reason": "max_call_duration",
	})
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *ServerTestSuite) TestCORSPreflight() {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/conversations", nil)
	rec := httptest.NewRecorder()
	suite.server.handler.ServeHTTP(rec, req)

	suite.Equal(http.StatusOK, rec.Code)
	suite.Equal("http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStreamSummaryReady(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := store.NewMockStore(ctrl)

	ps, err := pubsub.NewInMemoryNats()
	require.NoError(t, err)
	t.Cleanup(func() { ps.Close() })

	c, err := controller.NewController(controller.Options{Store: mockStore, PubSub: ps})
	require.NoError(t, err)

	cfg := &config.ServerConfig{}
	cfg.WebServer.CORSOrigin = "*"
	cfg.WebServer.StaticDir = t.TempDir()

	apiServer, err := NewServer(Options{
		Config:     cfg,
		Store:      mockStore,
		Controller: c,
		PubSub:     ps,
		Tavus:      &fakeTavusClient{},
	})
	require.NoError(t, err)
	apiServer.registerRoutes(context.Background())

	ts := httptest.NewServer(apiServer.handler)
	t.Cleanup(ts.Close)

	resultCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		resp, err := http.Get(ts.URL + "/api/v1/conversations/c1/stream")
		if err != nil {
			errCh <- err
			return
		}
		defer resp.Body.Close()

		buf := make([]byte, 256)
		// Read can return the event bytes and io.EOF in the same call
		// once the handler writes and returns; consume the data first.
		n, err := resp.Body.Read(buf)
		if n > 0 {
			resultCh <- string(buf[:n])
			return
		}
		if err != nil {
			errCh <- err
			return
		}
	}()

	// let the listener subscribe before firing the signal
	time.Sleep(200 * time.Millisecond)

	payload, err := json.Marshal(types.SummaryReadySignal{Status: types.SummaryStatusReady})
	require.NoError(t, err)
	require.NoError(t, ps.Publish(context.Background(), pubsub.GetSummaryReadyQueue("c1"), payload))

	select {
	case event := <-resultCh:
		require.Contains(t, event, `data: {"status":"summarized"}`)
	case err := <-errCh:
		t.Fatalf("stream read failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for summary ready event")
	}
}
