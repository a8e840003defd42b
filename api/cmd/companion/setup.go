package companion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lattica-health/companion-api/api/pkg/config"
	"github.com/lattica-health/companion-api/api/pkg/system"
	"github.com/lattica-health/companion-api/api/pkg/tavus"
)

// setup provisions the provider-side resources the serve command needs:
// the knowledge base documents and the persona that references them.
func newSetupCmd() *cobra.Command {
	setupCmd := &cobra.Command{
		Use:   "setup",
		Short: "Provision the provider persona and knowledge base.",
		Long: `Provision the provider persona and knowledge base.

Uploads the knowledge documents served from the static directory, then
creates the persona configured to retrieve from them. Prints the
persona id to put in TAVUS_PERSONA_ID.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			system.SetupLogging()

			cfg, err := config.LoadServerConfig()
			if err != nil {
				return fmt.Errorf("failed to load server config: %v", err)
			}
			if cfg.Tavus.APIKey == "" {
				return fmt.Errorf("tavus api key is required")
			}
			if cfg.Tavus.WebhookURL == "" {
				return fmt.Errorf("webhook url is required so the provider can fetch the documents")
			}

			client := tavus.NewClient(cfg.Tavus)

			documentIDs, err := client.UploadDocuments(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to upload documents: %v", err)
			}
			for _, id := range documentIDs {
				fmt.Printf("document: %s\n", id)
			}

			personaID, err := client.CreatePersona(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to create persona: %v", err)
			}
			fmt.Printf("persona: %s\n", personaID)
			fmt.Println("set TAVUS_PERSONA_ID to the persona id above")

			return nil
		},
	}

	return setupCmd
}
