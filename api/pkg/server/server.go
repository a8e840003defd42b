package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/lattica-health/companion-api/api/pkg/config"
	"github.com/lattica-health/companion-api/api/pkg/controller"
	"github.com/lattica-health/companion-api/api/pkg/pubsub"
	"github.com/lattica-health/companion-api/api/pkg/store"
	"github.com/lattica-health/companion-api/api/pkg/system"
	"github.com/lattica-health/companion-api/api/pkg/types"
)

const APIPrefix = "/api/v1"

// TavusClient is the slice of the provider API the server needs.
type TavusClient interface {
	CreateConversation(ctx context.Context, patientName string) (*types.CreateConversationResponse, error)
	EndConversation(ctx context.Context, conversationID string) error
}

type Options struct {
	Config     *config.ServerConfig
	Store      store.Store
	Controller *controller.Controller
	PubSub     pubsub.PubSub
	Tavus      TavusClient
}

type CompanionAPIServer struct {
	Cfg        *config.ServerConfig
	Store      store.Store
	Controller *controller.Controller

	pubsub  pubsub.PubSub
	tavus   TavusClient
	router  *mux.Router
	handler http.Handler
}

func NewServer(options Options) (*CompanionAPIServer, error) {
	if options.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if options.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if options.Controller == nil {
		return nil, fmt.Errorf("controller is required")
	}
	if options.PubSub == nil {
		return nil, fmt.Errorf("pubsub is required")
	}
	if options.Tavus == nil {
		return nil, fmt.Errorf("tavus client is required")
	}

	return &CompanionAPIServer{
		Cfg:        options.Config,
		Store:      options.Store,
		Controller: options.Controller,
		pubsub:     options.PubSub,
		tavus:      options.Tavus,
	}, nil
}

func (apiServer *CompanionAPIServer) ListenAndServe(ctx context.Context) error {
	apiRouter := apiServer.registerRoutes(ctx)

	apiServer.startSummaryWebSocketServer(
		ctx,
		apiRouter,
		APIPrefix+"/ws/summaries",
	)

	srv := &http.Server{
		Addr: fmt.Sprintf("%s:%d", apiServer.Cfg.WebServer.Host, apiServer.Cfg.WebServer.Port),
		// WriteTimeout is zero so the SSE and websocket streams can
		// wait as long as the listener stays connected
		WriteTimeout:      0,
		ReadTimeout:       0,
		ReadHeaderTimeout: time.Second * 60,
		IdleTimeout:       time.Minute * 60,
		Handler:           apiServer.handler,
	}

	log.Info().
		Str("addr", srv.Addr).
		Msg("companion api listening")

	return srv.ListenAndServe()
}

func (apiServer *CompanionAPIServer) registerRoutes(_ context.Context) *mux.Router {
	router := mux.NewRouter()

	subRouter := router.PathPrefix(APIPrefix).Subrouter()

	subRouter.HandleFunc("/status", system.DefaultWrapper(apiServer.status)).Methods(http.MethodGet)

	subRouter.HandleFunc("/conversations", system.Wrapper(apiServer.createConversation)).Methods(http.MethodPost)
	subRouter.HandleFunc("/conversations/{id}/end", system.Wrapper(apiServer.endConversation)).Methods(http.MethodPost)
	subRouter.HandleFunc("/conversations/{id}/escalations", system.Wrapper(apiServer.logEscalation)).Methods(http.MethodPost)
	subRouter.HandleFunc("/conversations/{id}/perception", system.Wrapper(apiServer.bufferPerception)).Methods(http.MethodPost)
	subRouter.HandleFunc("/conversations/{id}/summary", system.Wrapper(apiServer.getSummary)).Methods(http.MethodGet)
	subRouter.HandleFunc("/conversations/{id}/stream", apiServer.streamSummaryReady).Methods(http.MethodGet)

	subRouter.HandleFunc("/webhooks/tavus", system.DefaultWrapper(apiServer.tavusWebhook)).Methods(http.MethodPost)

	// knowledge-base documents the provider retrieves during sessions
	router.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(apiServer.Cfg.WebServer.StaticDir))))

	apiServer.router = router
	// the CORS wrapper lives outside the mux so preflight requests get
	// answered even when no route method matches
	apiServer.handler = apiServer.corsMiddleware(router)

	return router
}

func (apiServer *CompanionAPIServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", apiServer.Cfg.WebServer.CORSOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusResponse struct {
	Status string `json:"status"`
}

func (apiServer *CompanionAPIServer) status(_ http.ResponseWriter, _ *http.Request) (statusResponse, error) {
	return statusResponse{Status: "ok"}, nil
}
