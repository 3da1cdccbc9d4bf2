package cli

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "orbit",
	Short:         "Relationship gravity engine for Friend Orbit",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: ORBIT_CONFIG or ./orbit.yaml)")
}

func Execute() error {
	return rootCmd.Execute()
}
