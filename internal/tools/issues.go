package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/karolswdev/jira-mcp-server/internal/adf"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
	"github.com/karolswdev/jira-mcp-server/internal/resolve"
)

const (
	defaultSearchLimit = 20
	defaultIssueType   = "Task"
)

// summaryFields are requested for list-style results.
var summaryFields = []string{"summary", "status", "assignee", "issuetype", "priority", "updated"}

type getIssueTool struct{ *Toolset }

type getIssueArgs struct {
	Auth     `mapstructure:",squash"`
	IssueKey string `mapstructure:"issueKey"`
}

func (t *getIssueTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Get the details of a Jira issue."),
		mcp.WithTitleAnnotation("Get issue"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("issueKey", mcp.Required(), mcp.Description("Issue key, e.g. PROJ-123.")),
	}
	return mcp.NewTool("get_issue", append(opts, authOptions()...)...)
}

func (t *getIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return invoke(ctx, "get_issue", func(ctx context.Context) (string, error) {
		var args getIssueArgs
		raw := req.GetArguments()
		p := decodeArgs(raw, &args)
		args.IssueKey = strings.TrimSpace(args.IssueKey)
		p.requireIssueKey(raw, args.IssueKey)
		if err := p.err(); err != nil {
			return "", err
		}

		client, err := t.connect(args.Auth)
		if err != nil {
			return "", err
		}
		issue, err := client.GetIssue(ctx, args.IssueKey)
		if err != nil {
			return "", err
		}
		return renderIssue(issue), nil
	})
}

func renderIssue(issue *jira.Issue) string {
	f := issue.Fields
	var b strings.Builder
	fmt.Fprintf(&b, "## 🎫 %s: %s\n\n", issue.Key, f.Summary)
	fmt.Fprintf(&b, "**Status:** %s\n", f.Status.Name)
	fmt.Fprintf(&b, "**Type:** %s\n", f.IssueType.Name)
	if f.Priority != nil {
		fmt.Fprintf(&b, "**Priority:** %s\n", f.Priority.Name)
	}
	fmt.Fprintf(&b, "**Assignee:** %s\n", displayName(f.Assignee, "Unassigned"))
	fmt.Fprintf(&b, "**Reporter:** %s\n", displayName(f.Reporter, "Unknown"))
	if f.Project != nil {
		fmt.Fprintf(&b, "**Project:** %s (%s)\n", f.Project.Name, f.Project.Key)
	}
	if len(f.Labels) > 0 {
		fmt.Fprintf(&b, "**Labels:** %s\n", strings.Join(f.Labels, ", "))
	}
	if f.Created != "" {
		fmt.Fprintf(&b, "**Created:** %s\n", f.Created)
	}
	if f.Updated != "" {
		fmt.Fprintf(&b, "**Updated:** %s\n", f.Updated)
	}

	b.WriteString("\n### Description\n\n")
	text := ""
	if f.Description != nil {
		text = strings.TrimSpace(f.Description.PlainText())
	}
	if text == "" {
		text = "_No description_"
	}
	b.WriteString(text)
	return b.String()
}

func displayName(u *jira.User, fallback string) string {
	if u == nil || u.DisplayName == "" {
		return fallback
	}
	return u.DisplayName
}

type searchIssuesTool struct{ *Toolset }

type searchIssuesArgs struct {
	Auth       `mapstructure:",squash"`
	JQL        string `mapstructure:"jql"`
	MaxResults *int   `mapstructure:"maxResults"`
}

func (t *searchIssuesTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Search Jira issues with a JQL query."),
		mcp.WithTitleAnnotation("Search issues"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("jql", mcp.Required(), mcp.Description("JQL query, e.g. project = PROJ AND status = \"In Progress\".")),
		mcp.WithNumber("maxResults", mcp.Description("Maximum number of issues to return (1-100, default 20).")),
	}
	return mcp.NewTool("search_issues", append(opts, authOptions()...)...)
}

func (t *searchIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return invoke(ctx, "search_issues", func(ctx context.Context) (string, error) {
		var args searchIssuesArgs
		raw := req.GetArguments()
		p := decodeArgs(raw, &args)
		args.JQL = strings.TrimSpace(args.JQL)
		p.requireString(raw, "jql", args.JQL)
		limit := p.limit(args.MaxResults, defaultSearchLimit)
		if err := p.err(); err != nil {
			return "", err
		}

		client, err := t.connect(args.Auth)
		if err != nil {
			return "", err
		}
		resp, err := client.SearchIssues(ctx, jira.SearchRequest{JQL: args.JQL, MaxResults: limit, Fields: summaryFields})
		if err != nil {
			return "", err
		}
		return renderSearch("## 🔍 Search Results", args.JQL, resp), nil
	})
}

func renderSearch(heading, jql string, resp *jira.SearchResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d)\n\n", heading, len(resp.Issues))
	fmt.Fprintf(&b, "**JQL:** `%s`\n\n", jql)
	if len(resp.Issues) == 0 {
		b.WriteString("No issues found.")
		return b.String()
	}
	for _, issue := range resp.Issues {
		fmt.Fprintf(&b, "- **%s** [%s] %s (%s)\n", issue.Key, issue.Fields.Status.Name,
			issue.Fields.Summary, displayName(issue.Fields.Assignee, "Unassigned"))
	}
	if !resp.IsLast && resp.NextPageToken != "" {
		b.WriteString("\n_More results are available; narrow the query or raise maxResults._\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

type createIssueTool struct{ *Toolset }

type createIssueArgs struct {
	Auth         `mapstructure:",squash"`
	ProjectKey   string `mapstructure:"projectKey"`
	Summary      string `mapstructure:"summary"`
	Description  any    `mapstructure:"description"`
	IssueType    string `mapstructure:"issueType"`
	AssigneeName string `mapstructure:"assigneeName"`
}

func (t *createIssueTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a Jira issue."),
		mcp.WithTitleAnnotation("Create issue"),
		mcp.WithString("projectKey", mcp.Required(), mcp.Description("Project key, e.g. PROJ.")),
		mcp.WithString("summary", mcp.Required(), mcp.Description("Issue summary.")),
		mcp.WithString("description", stringOrObject(), mcp.Description("Plain text or an ADF document.")),
		mcp.WithString("issueType", mcp.Description("Issue type name (default Task).")),
		mcp.WithString("assigneeName", mcp.Description("Display name of the user to assign.")),
	}
	return mcp.NewTool("create_issue", append(opts, authOptions()...)...)
}

func (t *createIssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return invoke(ctx, "create_issue", func(ctx context.Context) (string, error) {
		var args createIssueArgs
		raw := req.GetArguments()
		p := decodeArgs(raw, &args)
		args.ProjectKey = strings.TrimSpace(args.ProjectKey)
		p.requireProjectKey(raw, "projectKey", args.ProjectKey)
		p.requireString(raw, "summary", args.Summary)
		p.description(args.Description)
		if err := p.err(); err != nil {
			return "", err
		}

		issueType := strings.TrimSpace(args.IssueType)
		if issueType == "" {
			issueType = defaultIssueType
		}
		return t.create(ctx, args.Auth, jira.CreateIssueRequest{
			ProjectKey:  args.ProjectKey,
			Summary:     strings.TrimSpace(args.Summary),
			Description: adf.Normalize(args.Description),
			IssueType:   issueType,
		}, strings.TrimSpace(args.AssigneeName))
	})
}

// create resolves the optional assignee and creates the issue. An assignee
// that cannot be resolved is reported as a warning and the issue is created
// unassigned.
func (ts *Toolset) create(ctx context.Context, auth Auth, in jira.CreateIssueRequest, assignee string) (string, error) {
	client, creds, err := ts.open(auth)
	if err != nil {
		return "", err
	}

	var warnings []string
	if assignee != "" {
		user, found, lookupErr := resolve.User(ctx, client, assignee)
		switch {
		case lookupErr != nil:
			warnings = append(warnings, fmt.Sprintf("Assignee '%s' could not be looked up: %v", assignee, lookupErr))
		case !found:
			warnings = append(warnings, fmt.Sprintf("Assignee '%s' not found", assignee))
		default:
			in.AssigneeID = user.AccountID
		}
	}

	created, err := client.CreateIssue(ctx, in)
	if err != nil {
		return "", err
	}
	zerolog.Ctx(ctx).Info().Str("issue", created.Key).Msg("Issue created")

	var b strings.Builder
	fmt.Fprintf(&b, "## ✅ Issue %s Created\n\n", created.Key)
	fmt.Fprintf(&b, "**Summary:** %s\n", in.Summary)
	fmt.Fprintf(&b, "**Type:** %s\n", in.IssueType)
	if in.AssigneeID != "" {
		fmt.Fprintf(&b, "**Assignee:** %s\n", assignee)
	}
	fmt.Fprintf(&b, "**Link:** %s/browse/%s\n", creds.BaseURL(), created.Key)
	if len(warnings) > 0 {
		b.WriteString("\n**Warnings:**\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

type checkUserIssuesTool struct{ *Toolset }

type checkUserIssuesArgs struct {
	Auth       `mapstructure:",squash"`
	UserName   string `mapstructure:"userName"`
	ProjectKey string `mapstructure:"projectKey"`
	Status     string `mapstructure:"status"`
	MaxResults *int   `mapstructure:"maxResults"`
}

func (t *checkUserIssuesTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List the issues assigned to a user, optionally limited to a project and status."),
		mcp.WithTitleAnnotation("Check user issues"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("userName", mcp.Required(), mcp.Description("Display name of the user.")),
		mcp.WithString("projectKey", mcp.Description("Only issues in this project.")),
		mcp.WithString("status", mcp.Description("Only issues in this status.")),
		mcp.WithNumber("maxResults", mcp.Description("Maximum number of issues to return (1-100, default 20).")),
	}
	return mcp.NewTool("check_user_issues", append(opts, authOptions()...)...)
}

func (t *checkUserIssuesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return invoke(ctx, "check_user_issues", func(ctx context.Context) (string, error) {
		var args checkUserIssuesArgs
		raw := req.GetArguments()
		p := decodeArgs(raw, &args)
		args.UserName = strings.TrimSpace(args.UserName)
		args.ProjectKey = strings.TrimSpace(args.ProjectKey)
		args.Status = strings.TrimSpace(args.Status)
		p.requireString(raw, "userName", args.UserName)
		p.checkProjectKey("projectKey", args.ProjectKey)
		limit := p.limit(args.MaxResults, defaultSearchLimit)
		if err := p.err(); err != nil {
			return "", err
		}

		client, err := t.connect(args.Auth)
		if err != nil {
			return "", err
		}
		user, found, err := resolve.User(ctx, client, args.UserName)
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("## ⚠️ User Not Found\n\nNo active user matching '%s' was found. "+
				"Check the display name and try again.", args.UserName), nil
		}

		jql := userIssuesJQL(user.AccountID, args.ProjectKey, args.Status)
		resp, err := client.SearchIssues(ctx, jira.SearchRequest{JQL: jql, MaxResults: limit, Fields: summaryFields})
		if err != nil {
			return "", err
		}
		return renderSearch("## 📋 Issues assigned to "+user.DisplayName, jql, resp), nil
	})
}

func userIssuesJQL(accountID, projectKey, status string) string {
	clauses := []string{"assignee = " + quoteJQL(accountID)}
	if projectKey != "" {
		clauses = append(clauses, "project = "+quoteJQL(projectKey))
	}
	if status != "" {
		clauses = append(clauses, "status = "+quoteJQL(status))
	}
	return strings.Join(clauses, " AND ") + " ORDER BY updated DESC"
}

var jqlEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteJQL(s string) string {
	return `"` + jqlEscaper.Replace(s) + `"`
}
