package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridable at build time with
// -ldflags "-X github.com/friendorbit/orbit/internal/cli.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the orbit version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "orbit", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
