package cmd

import (
	"context"

	"github.com/karolswdev/jira-mcp-server/internal/config"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

// ConfigProvider loads the configuration files of the server: config.yaml,
// the project links and the drafting prompt and context. It also manages the
// configuration directory. Commands take it as a dependency so tests can
// replace file access with a mock.
type ConfigProvider interface {
	LoadConfig() (*config.AppConfig, error)
	LoadLinks() (config.LinksConfig, error)
	LoadSystemPrompt() (string, error)
	LoadContext() (string, error)
	CreateDefaultConfigFiles() (string, error)
	EnsureConfigDir() (string, error)
}

// KeyringClient stores and reads secrets kept in the OS keyring, with an
// environment variable as the read fallback.
type KeyringClient interface {
	Set(account, secret string) error
	Get(account, envVar string) (string, error)
}

// IssueSearcher runs JQL searches. *jira.Client implements it.
type IssueSearcher interface {
	SearchIssues(ctx context.Context, req jira.SearchRequest) (*jira.SearchResponse, error)
}

// IssueCreator creates issues. *jira.Client implements it.
type IssueCreator interface {
	CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error)
}
