package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/karolswdev/jira-mcp-server/internal/credentials"
	"github.com/karolswdev/jira-mcp-server/internal/update"
)

type updateIssueTool struct{ *Toolset }

type updateIssueArgs struct {
	Auth         `mapstructure:",squash"`
	IssueKey     string  `mapstructure:"issueKey"`
	Summary      *string `mapstructure:"summary"`
	Description  any     `mapstructure:"description"`
	AssigneeName *string `mapstructure:"assigneeName"`
	Status       *string `mapstructure:"status"`
}

func (t *updateIssueTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Update a Jira issue's summary, description, assignee or status. " +
			"Only the fields supplied are changed. An assignee or status that cannot be resolved is reported as a warning."),
		mcp.WithTitleAnnotation("Update issue"),
		mcp.WithString("issueKey", mcp.Required(), mcp.Description("Issue key, e.g. PROJ-123.")),
		mcp.WithString("summary", mcp.Description("New summary.")),
		mcp.WithString("description", stringOrObject(), mcp.Description("New description as plain text or an ADF document.")),
		mcp.WithString("assigneeName", mcp.Description("Display name of the new assignee.")),
		mcp.WithString("status", mcp.Description("Target status name; must be reachable by one transition.")),
	}
	return mcp.NewTool("update_issue", append(opts, authOptions()...)...)
}

func (t *updateIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return invoke(ctx, "update_issue", func(ctx context.Context) (string, error) {
		var args updateIssueArgs
		raw := req.GetArguments()
		p := decodeArgs(raw, &args)
		args.IssueKey = strings.TrimSpace(args.IssueKey)
		p.requireIssueKey(raw, args.IssueKey)
		p.description(args.Description)
		if err := p.err(); err != nil {
			return "", err
		}

		o := &update.Orchestrator{
			Defaults: t.defaults(),
			Connect: func(creds credentials.Credentials) (update.Remote, error) {
				return t.NewClient(creds)
			},
		}
		out, err := o.Run(ctx, update.Request{
			IssueKey:     args.IssueKey,
			Credentials:  args.Auth.input(),
			Summary:      args.Summary,
			Description:  args.Description,
			AssigneeName: args.AssigneeName,
			Status:       args.Status,
		})
		if err != nil {
			return "", &renderedFailure{report: update.RenderFailure(out, err), err: err}
		}
		return update.Render(out), nil
	})
}
