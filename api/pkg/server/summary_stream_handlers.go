package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lattica-health/companion-api/api/pkg/pubsub"
)

// streamSummaryReady holds an SSE stream open until the conversation's
// summary is materialized, then emits the one ready event and returns.
// A listener that connects after the signal has already fired waits
// forever, so clients should check the summary read path first.
func (apiServer *CompanionAPIServer) streamSummaryReady(w http.ResponseWriter, r *http.Request) {
	conversationID := mux.Vars(r)["id"]

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	signal := make(chan []byte, 1)
	sub, err := apiServer.pubsub.Subscribe(r.Context(), pubsub.GetSummaryReadyQueue(conversationID), func(payload []byte) error {
		select {
		case signal <- payload:
		default:
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to summary ready signal")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Error().Msgf("failed to unsubscribe: %v", err)
		}
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	log.Trace().
		Str("conversation_id", conversationID).
		Msg("summary stream connected")

	select {
	case payload := <-signal:
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	case <-r.Context().Done():
	}
}

var summaryWebsocketUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// startSummaryWebSocketServer registers the websocket flavour of the
// summary ready stream. Same one-shot semantics as the SSE handler,
// the connection closes after the signal is delivered.
func (apiServer *CompanionAPIServer) startSummaryWebSocketServer(
	_ context.Context,
	r *mux.Router,
	path string,
) {
	r.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		conversationID := r.URL.Query().Get("conversation_id")
		if conversationID == "" {
			log.Error().Msgf("No conversation_id supplied")
			http.Error(w, "No conversation_id supplied", http.StatusBadRequest)
			return
		}

		conn, err := summaryWebsocketUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Msgf("Error upgrading websocket: %s", err.Error())
			return
		}
		defer conn.Close()

		// ping and signal writes can race on the connection
		var wsMu sync.Mutex

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go func() {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					wsMu.Lock()
					err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(5*time.Second))
					wsMu.Unlock()
					if err != nil {
						log.Debug().
							Err(err).
							Str("conversation_id", conversationID).
							Msg("summary websocket ping failed, connection closing")
						return
					}
				}
			}
		}()

		done := make(chan struct{})
		var closeOnce sync.Once

		sub, err := apiServer.pubsub.Subscribe(r.Context(), pubsub.GetSummaryReadyQueue(conversationID), func(payload []byte) error {
			wsMu.Lock()
			writeErr := conn.WriteMessage(websocket.TextMessage, payload)
			wsMu.Unlock()
			if writeErr != nil {
				log.Error().Msgf("Error writing to websocket: %s", writeErr.Error())
			}
			closeOnce.Do(func() { close(done) })
			return nil
		})
		if err != nil {
			log.Error().Msgf("Error subscribing to summary ready signal: %s", err.Error())
			return
		}

		defer func() {
			if err := sub.Unsubscribe(); err != nil {
				log.Error().Msgf("failed to unsubscribe: %v", err)
			}
		}()

		log.Trace().
			Str("conversation_id", conversationID).
			Msg("summary websocket connected")

		// detect client disconnect while we wait for the signal
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					log.Trace().Msgf("Client disconnected: %s", err.Error())
					closeOnce.Do(func() { close(done) })
					return
				}
			}
		}()

		select {
		case <-done:
		case <-r.Context().Done():
		}
	})
}
