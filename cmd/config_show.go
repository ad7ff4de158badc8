package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/karolswdev/jira-mcp-server/internal/config"
)

// configShowCmd represents the show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current jira-mcp configuration",
	Long: `Displays the configuration loaded from config.yaml, the environment and the
OS keyring. Secrets are reported as set or not set, never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRunE(&DefaultConfigProvider{BaseDir: configDir}, &defaultKeyringClient{}, cmd.OutOrStdout())
	},
}

// configShowRunE contains the core logic for the 'config show' command.
func configShowRunE(cfgProvider ConfigProvider, keyringClient KeyringClient, writer io.Writer) error {
	cfg, err := cfgProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	fmt.Fprintln(writer, "Current jira-mcp Configuration:")
	fmt.Fprintf(writer, "  Jira Host:      %s\n", orNotSet(cfg.Jira.Host))
	fmt.Fprintf(writer, "  Jira Email:     %s\n", orNotSet(cfg.Jira.Email))

	tokenStatus := secretStatus(keyringClient, config.JiraTokenAccount, config.EnvJiraToken, "set-token")
	if tokenStatus == statusNotSet && cfg.Jira.APIToken != "" {
		tokenStatus = "Set (config file)"
	}
	fmt.Fprintf(writer, "  Jira API Token: %s\n", tokenStatus)

	fmt.Fprintf(writer, "  HTTP Timeout:   %s\n", cfg.HTTP.Timeout())
	fmt.Fprintf(writer, "  Rate Limit:     %g req/s (burst %d)\n", cfg.HTTP.RequestsPerSecond, cfg.HTTP.Burst)
	fmt.Fprintf(writer, "  Transport:      %s (http addr %s)\n", cfg.Server.Transport, cfg.Server.Addr)
	fmt.Fprintf(writer, "  LLM Provider:   %s\n", orNotSet(cfg.LLM.Provider))
	switch cfg.LLM.Provider {
	case "openai":
		fmt.Fprintf(writer, "    OpenAI Model: %s\n", cfg.LLM.OpenAI.ModelName)
		if cfg.LLM.OpenAI.BaseURL != "" {
			fmt.Fprintf(writer, "    OpenAI BaseURL: %s\n", cfg.LLM.OpenAI.BaseURL)
		}
		fmt.Fprintf(writer, "  LLM API Key:    %s\n",
			secretStatus(keyringClient, config.LLMKeyAccount, config.EnvLLMAPIKey, "set-key"))
	case "":
		fmt.Fprintln(writer, "    (draft_issue is disabled)")
	default:
		fmt.Fprintf(writer, "    (unsupported provider '%s')\n", cfg.LLM.Provider)
	}
	return nil
}

const statusNotSet = "Not Set"

func secretStatus(kc KeyringClient, account, envVar, setCmd string) string {
	_, err := kc.Get(account, envVar)
	switch {
	case err == nil:
		return fmt.Sprintf("Set (use '%s config %s' to change)", appName, setCmd)
	case errors.Is(err, config.ErrSecretNotFound):
		return statusNotSet
	default:
		return fmt.Sprintf("Status Unknown (error checking keychain/env: %v)", err)
	}
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
