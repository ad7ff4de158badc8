package tools

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"

	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

const defaultProjectLimit = 50

type listProjectsTool struct{ *Toolset }

type listProjectsArgs struct {
	Auth       `mapstructure:",squash"`
	MaxResults *int `mapstructure:"maxResults"`
}

func (t *listProjectsTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List the Jira projects visible to the account."),
		mcp.WithTitleAnnotation("List projects"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithNumber("maxResults", mcp.Description("Maximum number of projects to return (1-100, default 50).")),
	}
	return mcp.NewTool("list_projects", append(opts, authOptions()...)...)
}

func (t *listProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return invoke(ctx, "list_projects", func(ctx context.Context) (string, error) {
		var args listProjectsArgs
		p := decodeArgs(req.GetArguments(), &args)
		limit := p.limit(args.MaxResults, defaultProjectLimit)
		if err := p.err(); err != nil {
			return "", err
		}

		client, err := t.connect(args.Auth)
		if err != nil {
			return "", err
		}
		projects, err := client.ListProjects(ctx, limit)
		if err != nil {
			return "", err
		}
		return renderProjects(projects), nil
	})
}

func renderProjects(projects []jira.Project) string {
	if len(projects) == 0 {
		return "## 📁 Projects\n\nNo projects are visible to this account."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## 📁 Projects (%d)\n\n", len(projects))
	for _, p := range projects {
		fmt.Fprintf(&b, "- **%s**: %s", p.Key, p.Name)
		if p.ProjectTypeKey != "" {
			fmt.Fprintf(&b, " (%s)", p.ProjectTypeKey)
		}
		if p.Lead != nil && p.Lead.DisplayName != "" {
			fmt.Fprintf(&b, ", lead %s", p.Lead.DisplayName)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

type listProjectMembersTool struct{ *Toolset }

type listProjectMembersArgs struct {
	Auth       `mapstructure:",squash"`
	ProjectKey string `mapstructure:"projectKey"`
}

func (t *listProjectMembersTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("List the members of a Jira project grouped by project role."),
		mcp.WithTitleAnnotation("List project members"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("projectKey", mcp.Required(), mcp.Description("Project key, e.g. PROJ.")),
	}
	return mcp.NewTool("list_project_members", append(opts, authOptions()...)...)
}

func (t *listProjectMembersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return invoke(ctx, "list_project_members", func(ctx context.Context) (string, error) {
		var args listProjectMembersArgs
		raw := req.GetArguments()
		p := decodeArgs(raw, &args)
		args.ProjectKey = strings.TrimSpace(args.ProjectKey)
		p.requireProjectKey(raw, "projectKey", args.ProjectKey)
		if err := p.err(); err != nil {
			return "", err
		}

		client, err := t.connect(args.Auth)
		if err != nil {
			return "", err
		}
		roles, err := fetchRoles(ctx, client, args.ProjectKey)
		if err != nil {
			return "", err
		}
		return renderMembers(args.ProjectKey, roles), nil
	})
}

// fetchRoles loads every role of a project concurrently. Results are sorted
// by role name.
func fetchRoles(ctx context.Context, client Jira, projectKey string) ([]*jira.ProjectRole, error) {
	ids, err := client.GetProjectRoles(ctx, projectKey)
	if err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Debug().Int("roles", len(ids)).Msg("Fetching project role details")

	p := pool.NewWithResults[*jira.ProjectRole]().WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, id := range ids {
		p.Go(func(ctx context.Context) (*jira.ProjectRole, error) {
			return client.GetProjectRole(ctx, projectKey, id)
		})
	}
	roles, err := p.Wait()
	if err != nil {
		return nil, err
	}
	slices.SortFunc(roles, func(a, b *jira.ProjectRole) int {
		return strings.Compare(a.Name, b.Name)
	})
	return roles, nil
}

func renderMembers(projectKey string, roles []*jira.ProjectRole) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## 👥 Members of %s\n", projectKey)
	total := 0
	for _, role := range roles {
		if len(role.Actors) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n", role.Name)
		for _, a := range role.Actors {
			total++
			switch {
			case a.ActorUser != nil:
				fmt.Fprintf(&b, "- %s (user, %s)\n", a.DisplayName, a.ActorUser.AccountID)
			case a.ActorGroup != nil:
				name := a.ActorGroup.DisplayName
				if name == "" {
					name = a.ActorGroup.Name
				}
				fmt.Fprintf(&b, "- %s (group)\n", name)
			default:
				fmt.Fprintf(&b, "- %s\n", a.DisplayName)
			}
		}
	}
	if total == 0 {
		b.WriteString("\nNo role members found.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
