package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize jira-mcp configuration",
	Long: `Creates the configuration directory with a default config.yaml, links.yaml,
system_prompt.txt and context.md. Existing files are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// init must work before config.yaml exists or parses, so it does not
		// go through GetProvider.
		return configInitRunE(&DefaultConfigProvider{BaseDir: configDir}, cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(initCmd)
}

// configInitRunE contains the core logic for the config init command.
func configInitRunE(configProvider ConfigProvider, writer io.Writer) error {
	log.Info().Msg("Initializing configuration...")
	dir, err := configProvider.CreateDefaultConfigFiles()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize configuration files")
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	log.Info().Str("path", dir).Msg("Configuration initialization complete.")
	fmt.Fprintf(writer, "Configuration directory and default files ensured in %s\n", dir)
	fmt.Fprintf(writer, "Set your Jira site and email in config.yaml, then run '%s config set-token'.\n", appName)
	return nil
}
