package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/karolswdev/jira-mcp-server/internal/config"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage the drafting context file (context.md)",
	Long: `Provides subcommands to show, edit, or add entries to the context.md file
that is sent to the language model with every draft_issue request.`,
}

func contextFilePath(cfgProvider ConfigProvider) (string, error) {
	dir, err := cfgProvider.EnsureConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to ensure config directory: %w", err)
	}
	return filepath.Join(dir, config.DefaultContextFileName), nil
}

// contextShowRunE prints context.md. A missing file prints nothing.
func contextShowRunE(cfgProvider ConfigProvider, out io.Writer) error {
	contextContent, err := cfgProvider.LoadContext()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load context file")
		return fmt.Errorf("failed to read context file: %w", err)
	}
	if contextContent == "" {
		fmt.Fprintln(out, "Context file is empty or does not exist yet.")
		return nil
	}
	fmt.Fprint(out, contextContent)
	if !strings.HasSuffix(contextContent, "\n") {
		fmt.Fprintln(out)
	}
	return nil
}

// contextAddRunE appends entry as one line to context.md.
func contextAddRunE(cfgProvider ConfigProvider, out io.Writer, entry string) error {
	path, err := contextFilePath(cfgProvider)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to open context file for appending")
		return fmt.Errorf("failed to open context file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, entry); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to write entry to context file")
		return fmt.Errorf("failed to write to context file: %w", err)
	}

	log.Info().Str("path", path).Msg("Entry successfully added to context file")
	fmt.Fprintln(out, "Entry added to context file.")
	return nil
}

// editorCommand returns $EDITOR, or a platform default.
func editorCommand() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vim"
}

var contextShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the content of the context file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return contextShowRunE(&DefaultConfigProvider{BaseDir: configDir}, cmd.OutOrStdout())
	},
}

var contextEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the context file using $EDITOR",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := contextFilePath(&DefaultConfigProvider{BaseDir: configDir})
		if err != nil {
			return err
		}

		editor := editorCommand()
		log.Debug().Str("editor", editor).Str("path", path).Msg("Launching editor")
		editorCmd := exec.Command(editor, path)
		editorCmd.Stdin = os.Stdin
		editorCmd.Stdout = os.Stdout
		editorCmd.Stderr = os.Stderr
		if err := editorCmd.Run(); err != nil {
			log.Error().Err(err).Str("editor", editor).Msg("Editor command failed")
			return fmt.Errorf("failed to run editor '%s': %w", editor, err)
		}
		log.Info().Msg("Editor finished.")
		return nil
	},
}

var contextAddCmd = &cobra.Command{
	Use:   "add [entry]",
	Short: "Add a new entry (line) to the context file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return contextAddRunE(&DefaultConfigProvider{BaseDir: configDir}, cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextEditCmd)
	contextCmd.AddCommand(contextAddCmd)
}
