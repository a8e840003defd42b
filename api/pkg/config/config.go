package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type ServerConfig struct {
	WebServer WebServer
	Store     Store
	PubSub    PubSub
	Tavus     Tavus
}

func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	err := envconfig.Process("", &cfg)
	if err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

type WebServer struct {
	URL  string `envconfig:"SERVER_URL" description:"The URL the api server is listening on."`
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0" description:"The host to bind the api server to."`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
	// Origin allowed to call the API from a browser, the dev frontend by default
	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"http://localhost:5173"`
	StaticDir  string `envconfig:"STATIC_DIR" default:"data" description:"Directory served under /static, holds the knowledge base documents."`
}

type Store struct {
	Host     string `envconfig:"POSTGRES_HOST" description:"The host to connect to the postgres server."`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432" description:"The port to connect to the postgres server."`
	Database string `envconfig:"POSTGRES_DATABASE" default:"companion" description:"The database to connect to the postgres server."`
	Username string `envconfig:"POSTGRES_USER" description:"The username to connect to the postgres server."`
	Password string `envconfig:"POSTGRES_PASSWORD" description:"The password to connect to the postgres server."`
	SSL      bool   `envconfig:"POSTGRES_SSL" default:"false"`

	AutoMigrate     bool          `envconfig:"DATABASE_AUTO_MIGRATE" default:"true" description:"Should we automatically run the migrations?"`
	MaxConns        int           `envconfig:"DATABASE_MAX_CONNS" default:"50"`
	IdleConns       int           `envconfig:"DATABASE_IDLE_CONNS" default:"25"`
	MaxConnLifetime time.Duration `envconfig:"DATABASE_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `envconfig:"DATABASE_MAX_CONN_IDLE_TIME" default:"1m"`
}

type PubSub struct {
	Host string `envconfig:"NATS_SERVER_HOST" default:"127.0.0.1" description:"The host to bind the embedded NATS server to."`
	Port int    `envconfig:"NATS_SERVER_PORT" default:"0" description:"The port to bind the embedded NATS server to, random when 0."`
}

type Tavus struct {
	BaseURL    string `envconfig:"TAVUS_BASE_URL" default:"https://tavusapi.com"`
	APIKey     string `envconfig:"TAVUS_API_KEY" description:"The api key for the Tavus API."`
	PersonaID  string `envconfig:"TAVUS_PERSONA_ID" description:"The persona the companion conversations are created with."`
	ReplicaID  string `envconfig:"TAVUS_REPLICA_ID" default:"r3f427f43c9d"`
	WebhookURL string `envconfig:"WEBHOOK_URL" description:"The public URL provider webhooks are delivered to."`

	RequestTimeout time.Duration `envconfig:"TAVUS_REQUEST_TIMEOUT" default:"30s"`
}
