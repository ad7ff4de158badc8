package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/karolswdev/jira-mcp-server/internal/tools"
)

// Sentinel errors for the call command.
var (
	// ErrUnknownTool indicates the named tool is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrInvalidArgument indicates a malformed --arg or --args-json value.
	ErrInvalidArgument = errors.New("invalid tool argument")
	// ErrToolFailed indicates the tool returned an isError result.
	ErrToolFailed = errors.New("tool reported an error")
)

var callCmd = &cobra.Command{
	Use:   "call <tool>",
	Short: "Run one tool and print its Markdown result",
	Long: `Runs a single MCP tool in-process, exactly as the server would for a client.
Arguments are given as --arg name=value (values are parsed as JSON when
possible, so numbers, booleans and objects work) or as one --args-json object.
The exit status is non-zero when the tool reports an error.`,
	Example: `  jira-mcp call get_issue --arg issueKey=PROJ-123
  jira-mcp call update_issue --arg issueKey=PROJ-123 --arg status="In Progress"
  jira-mcp call search_issues --args-json '{"jql":"project = PROJ","maxResults":5}' --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		return callRunE(cmd, provider.Toolset(), cmd.OutOrStdout(), args[0])
	},
}

func callRunE(cmd *cobra.Command, ts *tools.Toolset, out io.Writer, name string) error {
	tool, ok := ts.Lookup(name)
	if !ok {
		return fmt.Errorf("%w %q; run '%s tools' to list them", ErrUnknownTool, name, appName)
	}

	argsJSON, _ := cmd.Flags().GetString("args-json")
	pairs, _ := cmd.Flags().GetStringArray("arg")
	arguments, err := parseToolArgs(argsJSON, pairs)
	if err != nil {
		return err
	}

	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = arguments
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := tool.Handle(ctx, req)
	if err != nil {
		return err
	}

	text := resultText(res)
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		rendered, renderErr := glamour.Render(text, "dark")
		if renderErr != nil {
			Log.Warn().Err(renderErr).Msg("Failed to render Markdown, printing raw text")
		} else {
			text = rendered
		}
	}
	fmt.Fprintln(out, strings.TrimRight(text, "\n"))

	if res.IsError {
		return fmt.Errorf("%w: %s", ErrToolFailed, name)
	}
	return nil
}

// parseToolArgs merges --args-json with --arg pairs; pairs win.
func parseToolArgs(argsJSON string, pairs []string) (map[string]any, error) {
	arguments := map[string]any{}
	if strings.TrimSpace(argsJSON) != "" {
		if err := json.Unmarshal([]byte(argsJSON), &arguments); err != nil {
			return nil, fmt.Errorf("%w: --args-json: %w", ErrInvalidArgument, err)
		}
	}
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("%w: %q (expected name=value)", ErrInvalidArgument, pair)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		arguments[name] = value
	}
	return arguments, nil
}

func resultText(res *mcp.CallToolResult) string {
	var parts []string
	for _, c := range res.Content {
		if text, ok := c.(mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func init() {
	callCmd.Flags().StringArray("arg", nil, "Tool argument as name=value (repeatable)")
	callCmd.Flags().String("args-json", "", "All tool arguments as a JSON object")
	callCmd.Flags().Bool("pretty", false, "Render the Markdown result for the terminal")

	rootCmd.AddCommand(callCmd)
}
