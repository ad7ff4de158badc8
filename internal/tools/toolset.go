// Package tools exposes the Jira operations as MCP tools. Every tool returns
// Markdown text; domain failures are rendered into the result with isError
// set rather than returned as protocol errors.
package tools

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/karolswdev/jira-mcp-server/internal/credentials"
	"github.com/karolswdev/jira-mcp-server/internal/draft"
	"github.com/karolswdev/jira-mcp-server/internal/failure"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
	"github.com/karolswdev/jira-mcp-server/internal/update"
)

// Jira is the API surface the tools use. *jira.Client implements it.
type Jira interface {
	update.Remote
	ListProjects(ctx context.Context, maxResults int) ([]jira.Project, error)
	CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error)
	SearchIssues(ctx context.Context, req jira.SearchRequest) (*jira.SearchResponse, error)
	GetProjectRoles(ctx context.Context, projectKey string) (map[string]int64, error)
	GetProjectRole(ctx context.Context, projectKey string, roleID int64) (*jira.ProjectRole, error)
}

// ClientFactory opens a Jira client for resolved credentials.
type ClientFactory func(creds credentials.Credentials) (Jira, error)

// NewClientFactory returns a factory building *jira.Client values with the
// given HTTP settings. The request rate limit is built once here, so it holds
// across every tool call served by the factory.
func NewClientFactory(settings jira.Settings) ClientFactory {
	if settings.Limiter == nil {
		settings.Limiter = jira.NewLimiter(settings)
	}
	return func(creds credentials.Credentials) (Jira, error) {
		c, err := jira.New(creds, settings)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Tool is one registered MCP tool.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Toolset holds what every tool needs. Defaults is called once per
// invocation so configuration reloads apply to the next call.
type Toolset struct {
	Defaults  func() credentials.Defaults
	NewClient ClientFactory
	// Drafter enables draft_issue when non-nil.
	Drafter *draft.Drafter
}

// Tools returns every tool enabled for this toolset, in registration order.
func (ts *Toolset) Tools() []Tool {
	tools := []Tool{
		&listProjectsTool{ts},
		&getIssueTool{ts},
		&searchIssuesTool{ts},
		&createIssueTool{ts},
		&updateIssueTool{ts},
		&listProjectMembersTool{ts},
		&checkUserIssuesTool{ts},
	}
	if ts.Drafter != nil {
		tools = append(tools, &draftIssueTool{ts})
	}
	return tools
}

// Lookup returns the enabled tool with the given name.
func (ts *Toolset) Lookup(name string) (Tool, bool) {
	for _, t := range ts.Tools() {
		if t.Definition().Name == name {
			return t, true
		}
	}
	return nil, false
}

// Register adds every enabled tool to s.
func (ts *Toolset) Register(s *server.MCPServer) {
	for _, t := range ts.Tools() {
		s.AddTool(t.Definition(), t.Handle)
	}
}

// NewServer builds an MCP server exposing the toolset.
func NewServer(name, version string, ts *Toolset) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)
	ts.Register(s)
	return s
}

const serverInstructions = `Tools for reading and changing Jira Cloud issues.
Credentials default to the server configuration; pass jiraHost, email and apiToken to act as another account.
Use search_issues with JQL to find issues, get_issue to read one and update_issue to change summary, description, assignee or status.`

func (ts *Toolset) defaults() credentials.Defaults {
	if ts.Defaults == nil {
		return credentials.Defaults{}
	}
	return ts.Defaults()
}

// connect resolves credentials and opens a client.
func (ts *Toolset) connect(auth Auth) (Jira, error) {
	client, _, err := ts.open(auth)
	return client, err
}

// open is connect that also returns the resolved credentials.
func (ts *Toolset) open(auth Auth) (Jira, credentials.Credentials, error) {
	creds, err := credentials.Resolve(auth.input(), ts.defaults())
	if err != nil {
		return nil, creds, err
	}
	client, err := ts.NewClient(creds)
	return client, creds, err
}

// renderedFailure carries a failure whose report was already rendered by the
// tool, e.g. with partial progress appended.
type renderedFailure struct {
	report string
	err    error
}

func (r *renderedFailure) Error() string { return r.err.Error() }
func (r *renderedFailure) Unwrap() error { return r.err }

// invoke runs one tool call with an invocation-scoped logger, turning errors
// and panics into isError results.
func invoke(ctx context.Context, tool string, run func(ctx context.Context) (string, error)) (result *mcp.CallToolResult, err error) {
	logger := log.With().Str("tool", tool).Str("invocation_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Tool handler panicked")
			result, err = mcp.NewToolResultError(failure.Render(failure.Classify(r))), nil
		}
	}()

	logger.Debug().Msg("Tool call started")
	text, runErr := run(ctx)
	if runErr != nil {
		c := failure.Classify(runErr)
		logger.Warn().Err(runErr).Str("code", c.Code).Dur("elapsed", time.Since(start)).Msg("Tool call failed")

		var rendered *renderedFailure
		if errors.As(runErr, &rendered) {
			return mcp.NewToolResultError(rendered.report), nil
		}
		return mcp.NewToolResultError(failure.Render(c)), nil
	}

	logger.Info().Dur("elapsed", time.Since(start)).Msg("Tool call completed")
	return mcp.NewToolResultText(text), nil
}
