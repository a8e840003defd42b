package companion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set at build time with -ldflags
var version = "dev"

func newVersionCommand() *cobra.Command {
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(*cobra.Command, []string) {
			fmt.Println(version)
		},
	}
	return versionCmd
}
