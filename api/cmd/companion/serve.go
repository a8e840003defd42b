package companion

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lattica-health/companion-api/api/pkg/config"
	"github.com/lattica-health/companion-api/api/pkg/controller"
	"github.com/lattica-health/companion-api/api/pkg/pubsub"
	"github.com/lattica-health/companion-api/api/pkg/server"
	"github.com/lattica-health/companion-api/api/pkg/store"
	"github.com/lattica-health/companion-api/api/pkg/system"
	"github.com/lattica-health/companion-api/api/pkg/tavus"
)

func NewServeConfig() (*config.ServerConfig, error) {
	serverConfig, err := config.LoadServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load server config: %v", err)
	}
	return &serverConfig, nil
}

func newServeCmd() *cobra.Command {
	serveConfig, err := NewServeConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create serve options")
	}

	envHelpText := generateEnvHelpText(serveConfig, "")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the companion api server.",
		Long:  "Start the companion api server.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := serve(cmd, serveConfig)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to run server")
			}
			return nil
		},
	}

	serveCmd.Long += "\n\nEnvironment Variables:\n\n" + envHelpText

	return serveCmd
}

func serve(cmd *cobra.Command, cfg *config.ServerConfig) error {
	system.SetupLogging()

	// main goroutine waits until killed with ctrl+c
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	if cfg.Tavus.APIKey == "" {
		return fmt.Errorf("tavus api key is required")
	}
	if cfg.Tavus.PersonaID == "" {
		return fmt.Errorf("tavus persona id is required, run the setup command first")
	}

	postgresStore, err := store.NewPostgresStore(cfg.Store)
	if err != nil {
		return err
	}
	defer postgresStore.Close()

	ps, err := pubsub.NewInMemoryNats()
	if err != nil {
		return err
	}
	defer ps.Close()

	appController, err := controller.NewController(controller.Options{
		Store:  postgresStore,
		PubSub: ps,
	})
	if err != nil {
		return err
	}

	tavusClient := tavus.NewClient(cfg.Tavus)

	apiServer, err := server.NewServer(server.Options{
		Config:     cfg,
		Store:      postgresStore,
		Controller: appController,
		PubSub:     ps,
		Tavus:      tavusClient,
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		os.Exit(0)
	}()

	return apiServer.ListenAndServe(ctx)
}
