package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karolswdev/jira-mcp-server/internal/adf"
	"github.com/karolswdev/jira-mcp-server/internal/draft"
	"github.com/karolswdev/jira-mcp-server/internal/failure"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
	"github.com/karolswdev/jira-mcp-server/internal/llm"
)

// createResult is the created issue as printed by the create command.
type createResult struct {
	Key     string `json:"key"`
	Self    string `json:"self"`
	Browse  string `json:"browse,omitempty"`
	Project string `json:"project"`
	Type    string `json:"issueType"`
	Summary string `json:"summary"`
}

// --- Command Runner ---

// createCmdRunner holds the dependencies for the create command.
type createCmdRunner struct {
	drafter *draft.Drafter
	// connect opens the Jira client only once the draft is confirmed.
	connect func() (IssueCreator, error)
	// browseBase is the site URL used to build the issue link, if known.
	browseBase string
}

func newCreateCmdRunner() (*createCmdRunner, error) {
	provider, err := GetProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	return &createCmdRunner{
		drafter: provider.Drafter(),
		connect: func() (IssueCreator, error) {
			return provider.JiraClient()
		},
		browseBase: siteURL(provider.AppConfig().Jira.Host),
	}, nil
}

func siteURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" || strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}

// Run drafts the issue from args, optionally asks for confirmation and
// creates it.
func (r *createCmdRunner) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	errOut := cmd.ErrOrStderr()

	projectFlag, _ := cmd.Flags().GetString("project")
	typeFlag, _ := cmd.Flags().GetString("type")

	Log.Debug().Msg("Calling LLM client to draft the issue...")
	proposal, err := r.drafter.Draft(ctx, draft.Request{
		Prompt:     strings.Join(args, " "),
		ProjectKey: projectFlag,
		IssueType:  typeFlag,
	})
	if err != nil {
		Log.Error().Err(err).Msg("Drafting failed")
		switch {
		case errors.Is(err, draft.ErrLLMUnavailable):
			fmt.Fprintln(errOut, "Error: no LLM client is configured.")
			fmt.Fprintf(errOut, "Set llm.provider in config.yaml and store the key with '%s config set-key'.\n", appName)
		case errors.Is(err, draft.ErrProjectMappingFailed):
			suggestion := ""
			if proposal != nil {
				suggestion = proposal.ProjectSuggestion
			}
			fmt.Fprintf(errOut, "Error: Could not map the suggested project '%s' to a known project key.\n", suggestion)
			fmt.Fprintln(errOut, "Add it to links.yaml or pass --project.")
		case errors.Is(err, draft.ErrInputsLoad):
			fmt.Fprintf(errOut, "Error loading links.yaml, system_prompt.txt or context.md: %v\n", err)
			fmt.Fprintf(errOut, "You might need to run '%s config init'.\n", appName)
		case errors.Is(err, llm.ErrLLMCompletion):
			fmt.Fprintf(errOut, "Error communicating with the LLM API: %v\n", err)
		case errors.Is(err, llm.ErrLLMResponseJSONFind), errors.Is(err, llm.ErrLLMResponseJSONUnmarshal), errors.Is(err, llm.ErrLLMResponseMissingField):
			fmt.Fprintf(errOut, "Error processing the response from the LLM: %v\n", err)
		default:
			fmt.Fprintf(errOut, "An unexpected error occurred while drafting: %v\n", err)
		}
		return err
	}
	Log.Info().Str("project", proposal.ProjectKey).Str("issue_type", proposal.IssueType).Msg("Draft ready")

	proceed, err := r.confirmInteractively(cmd, proposal)
	if err != nil || !proceed {
		return err
	}

	client, err := r.connect()
	if err != nil {
		fmt.Fprint(errOut, failure.Render(failure.Classify(err)))
		return err
	}
	created, err := client.CreateIssue(ctx, jira.CreateIssueRequest{
		ProjectKey:  proposal.ProjectKey,
		Summary:     proposal.Summary,
		Description: adf.Normalize(proposal.Description),
		IssueType:   proposal.IssueType,
	})
	if err != nil {
		Log.Error().Err(err).Msg("Failed to create Jira issue")
		fmt.Fprint(errOut, failure.Render(failure.Classify(err)))
		return err
	}
	Log.Info().Str("issue_key", created.Key).Msg("Successfully created Jira issue")

	result := createResult{
		Key:     created.Key,
		Self:    created.Self,
		Project: proposal.ProjectKey,
		Type:    proposal.IssueType,
		Summary: proposal.Summary,
	}
	if r.browseBase != "" {
		result.Browse = r.browseBase + "/browse/" + created.Key
	}
	return formatOutput(cmd, result, cmd.OutOrStdout())
}

// confirmInteractively shows the draft and asks for confirmation when
// --interactive is set. It returns false when the user declines.
func (r *createCmdRunner) confirmInteractively(cmd *cobra.Command, p *draft.Proposal) (bool, error) {
	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive {
		return true, nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\n--- Issue Details ---")
	fmt.Fprintf(out, "Project Key: %s\n", p.ProjectKey)
	fmt.Fprintf(out, "Issue Type:  %s\n", p.IssueType)
	fmt.Fprintf(out, "Summary:     %s\n", p.Summary)
	fmt.Fprintf(out, "Description:\n%s\n", p.Description)
	fmt.Fprintln(out, "---------------------")
	fmt.Fprint(out, "Create this issue? [y/N]: ")

	input, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		Log.Error().Err(err).Msg("Failed to read user input for confirmation")
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, nil
	default:
		Log.Info().Msg("User aborted issue creation.")
		fmt.Fprintln(out, "Aborted.")
		return false, nil
	}
}

// formatOutput prints the created issue as text or JSON.
func formatOutput(cmd *cobra.Command, result createResult, out io.Writer) error {
	outputFormat, _ := cmd.Flags().GetString("output")
	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("issue created successfully (Key: %s), but failed to format result as JSON: %w", result.Key, err)
		}
		fmt.Fprintln(out, string(jsonData))
		return nil
	}
	fmt.Fprintf(out, "Successfully created Jira issue:\nKey: %s\n", result.Key)
	if result.Browse != "" {
		fmt.Fprintf(out, "URL: %s\n", result.Browse)
	} else {
		fmt.Fprintf(out, "URL: %s\n", result.Self)
	}
	return nil
}

// --- Cobra Command Definition ---

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create [your issue description here...]",
	Short: "Draft a Jira issue with the LLM and create it",
	Long: `Creates a Jira issue from a short description. The configured language model
drafts the summary and description and suggests a project, which is mapped to a
key through links.yaml unless --project is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newCreateCmdRunner()
		if err != nil {
			return err
		}
		return runner.Run(cmd, args)
	},
}

func addCreateFlags(c *cobra.Command) {
	c.Flags().StringP("type", "t", "", "Jira issue type (e.g., Task, Bug); overrides links.yaml and the LLM suggestion")
	c.Flags().StringP("project", "p", "", "Jira project key; skips mapping the LLM's project suggestion")
	c.Flags().BoolP("interactive", "i", false, "Prompt for confirmation before creating the issue")
	c.Flags().StringP("output", "o", "text", "Output format (text|json)")
}

func init() {
	addCreateFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}
