package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set during build time (e.g., via ldflags)
// Default is "dev" for local development.
var version = "dev"

const appName = "jira-mcp"

var (
	logLevel  string
	configDir string
	// Log is the globally configured zerolog logger instance used throughout the cmd package.
	// It's initialized in rootCmd's PersistentPreRunE based on the --log-level flag.
	Log zerolog.Logger
)

// configureLogger sets up the global zerolog logger based on the logLevel flag.
// Logs always go to stderr: stdout carries the stdio protocol when serving.
func configureLogger(levelStr string) error {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		log.Warn().Msgf("Invalid log level '%s', defaulting to 'info'", levelStr)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Logger.With().Timestamp().Logger()
	Log = log.Logger

	Log.Debug().Msgf("Log level set to '%s'", level.String())
	return nil
}

// persistentPreRunLogic contains the logic for PersistentPreRunE, reusable by NewRootCmd.
func persistentPreRunLogic(cmd *cobra.Command, args []string) error {
	showVersion, _ := cmd.Flags().GetBool("version")
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), version)
		os.Exit(0)
	}
	return configureLogger(logLevel)
}

const rootShort = "Jira tools served over the Model Context Protocol"

const rootLong = `jira-mcp exposes Jira Cloud operations (projects, issues, search, updates,
project members and LLM-assisted drafting) as MCP tools. Run 'jira-mcp serve'
from an MCP client, or use 'jira-mcp call' to run a single tool from the shell.`

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               appName,
	Short:             rootShort,
	Long:              rootLong,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRunLogic,
}

// Execute is the main entry point for the Cobra CLI application. It is
// called from main.main() and exits non-zero when the command fails.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if Log.GetLevel() == zerolog.Disabled {
			_ = configureLogger("info")
		}
		Log.Error().Err(err).Msg("Command execution failed")
		os.Exit(1)
	}
}

// NewRootCmd creates a new instance of the root command, configured for testing or embedding.
// It mirrors the setup of the package-level rootCmd.
func NewRootCmd() *cobra.Command {
	newCmd := &cobra.Command{
		Use:          appName,
		Short:        rootShort,
		Long:         rootLong,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, _ := cmd.Flags().GetString("log-level")
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				os.Exit(0)
			}
			return configureLogger(lvl)
		},
	}

	var instanceLogLevel string
	newCmd.PersistentFlags().StringVar(&instanceLogLevel, "log-level", "info", "Set log level (debug, info, warn, error, fatal, panic)")
	newCmd.PersistentFlags().Bool("version", false, "Show application version")
	newCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default $JIRA_MCP_CONFIG_DIR or ~/.jira-mcp)")

	newCmd.AddCommand(serveCmd)
	newCmd.AddCommand(callCmd)
	newCmd.AddCommand(toolsCmd)
	newCmd.AddCommand(searchCmd)
	newCmd.AddCommand(createCmd)
	newCmd.AddCommand(configCmd)
	newCmd.AddCommand(contextCmd)
	newCmd.AddCommand(completionCmd)
	return newCmd
}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(jira-mcp completion bash)

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  $ jira-mcp completion zsh > "${fpath[1]}/_jira-mcp"

Fish:
  $ jira-mcp completion fish | source

PowerShell:
  PS> jira-mcp completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		root := cmd.Root()
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(out)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell type %q", args[0])
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Set log level (debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().Bool("version", false, "Show application version")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default $JIRA_MCP_CONFIG_DIR or ~/.jira-mcp)")

	rootCmd.AddCommand(completionCmd)
}
