package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/karolswdev/jira-mcp-server/internal/adf"
	"github.com/karolswdev/jira-mcp-server/internal/draft"
	"github.com/karolswdev/jira-mcp-server/internal/failure"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

type draftIssueTool struct{ *Toolset }

type draftIssueArgs struct {
	Auth       `mapstructure:",squash"`
	Prompt     string `mapstructure:"prompt"`
	ProjectKey string `mapstructure:"projectKey"`
	IssueType  string `mapstructure:"issueType"`
	Create     bool   `mapstructure:"create"`
}

func (t *draftIssueTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Draft a Jira issue from a free-form request using the configured language model. " +
			"The project is taken from projectKey or matched against links.yaml. Set create to file the drafted issue."),
		mcp.WithTitleAnnotation("Draft issue"),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("What the issue should be about.")),
		mcp.WithString("projectKey", mcp.Description("Project key to use instead of the model's suggestion.")),
		mcp.WithString("issueType", mcp.Description("Issue type to use instead of the project or model default.")),
		mcp.WithBoolean("create", mcp.Description("Create the issue instead of only returning the draft.")),
	}
	return mcp.NewTool("draft_issue", append(opts, authOptions()...)...)
}

func (t *draftIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return invoke(ctx, "draft_issue", func(ctx context.Context) (string, error) {
		var args draftIssueArgs
		raw := req.GetArguments()
		p := decodeArgs(raw, &args)
		p.requireString(raw, "prompt", args.Prompt)
		args.ProjectKey = strings.TrimSpace(args.ProjectKey)
		p.checkProjectKey("projectKey", args.ProjectKey)
		if err := p.err(); err != nil {
			return "", err
		}

		proposal, err := t.Drafter.Draft(ctx, draft.Request{
			Prompt:     args.Prompt,
			ProjectKey: args.ProjectKey,
			IssueType:  args.IssueType,
		})
		if errors.Is(err, draft.ErrProjectMappingFailed) && proposal != nil {
			return "", failure.Validation(fmt.Sprintf(
				"the suggested project %q is not listed in links.yaml; pass projectKey explicitly",
				proposal.ProjectSuggestion))
		}
		if err != nil {
			return "", err
		}

		if !args.Create {
			return renderProposal(proposal), nil
		}
		return t.create(ctx, args.Auth, jira.CreateIssueRequest{
			ProjectKey:  proposal.ProjectKey,
			Summary:     proposal.Summary,
			Description: adf.Normalize(proposal.Description),
			IssueType:   proposal.IssueType,
		}, "")
	})
}

func renderProposal(p *draft.Proposal) string {
	var b strings.Builder
	b.WriteString("## 📝 Draft Issue\n\n")
	fmt.Fprintf(&b, "**Project:** %s\n", p.ProjectKey)
	fmt.Fprintf(&b, "**Type:** %s\n", p.IssueType)
	fmt.Fprintf(&b, "**Summary:** %s\n", p.Summary)
	b.WriteString("\n### Description\n\n")
	desc := strings.TrimSpace(p.Description)
	if desc == "" {
		desc = "_No description_"
	}
	b.WriteString(desc)
	b.WriteString("\n\nCall draft_issue again with `create: true`, or create_issue with these values, to file it.")
	return b.String()
}
