package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karolswdev/jira-mcp-server/internal/config"
)

// configLocateRunE contains the core logic for the config locate command.
func configLocateRunE(cfgProvider ConfigProvider, out io.Writer) error {
	dir, err := cfgProvider.EnsureConfigDir()
	if err != nil {
		return fmt.Errorf("error ensuring config directory: %w", err)
	}

	fmt.Fprintf(out, "Configuration directory: %s\n", dir)
	fmt.Fprintln(out, "Expected configuration files:")
	for _, name := range []string{
		config.DefaultConfigFileName,
		config.DefaultLinksFileName,
		config.DefaultPromptFileName,
		config.DefaultContextFileName,
	} {
		fmt.Fprintf(out, "- %s\n", filepath.Join(dir, name))
	}
	return nil
}

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Locate jira-mcp configuration files",
	Long:  `Displays the paths of the configuration files jira-mcp reads.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configLocateRunE(&DefaultConfigProvider{BaseDir: configDir}, cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(locateCmd)
}
