package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage jira-mcp configuration",
	Long: `Provides commands to create, show and locate the configuration files and to
store secrets in the OS keyring.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
