package cmd

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/karolswdev/jira-mcp-server/internal/config"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

// --- Mock ConfigProvider ---

type MockConfigProvider struct {
	mock.Mock
}

func (m *MockConfigProvider) LoadConfig() (*config.AppConfig, error) {
	args := m.Called()
	cfg, _ := args.Get(0).(*config.AppConfig)
	return cfg, args.Error(1)
}

func (m *MockConfigProvider) LoadLinks() (config.LinksConfig, error) {
	args := m.Called()
	links, _ := args.Get(0).(config.LinksConfig)
	return links, args.Error(1)
}

func (m *MockConfigProvider) LoadSystemPrompt() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockConfigProvider) LoadContext() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockConfigProvider) CreateDefaultConfigFiles() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockConfigProvider) EnsureConfigDir() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

// --- Mock KeyringClient ---

type MockKeyringClient struct {
	mock.Mock
}

func (m *MockKeyringClient) Set(account, secret string) error {
	args := m.Called(account, secret)
	return args.Error(0)
}

func (m *MockKeyringClient) Get(account, envVar string) (string, error) {
	args := m.Called(account, envVar)
	return args.String(0), args.Error(1)
}

// --- Mock Jira operations ---

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) SearchIssues(ctx context.Context, req jira.SearchRequest) (*jira.SearchResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*jira.SearchResponse)
	return resp, args.Error(1)
}

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) CreateIssue(ctx context.Context, req jira.CreateIssueRequest) (*jira.CreatedIssue, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*jira.CreatedIssue)
	return resp, args.Error(1)
}
