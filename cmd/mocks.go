package cmd

// This file contains mock implementations shared by the cmd tests that also
// need to be reachable from outside _test.go files (the integration tests).

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/karolswdev/jira-mcp-server/internal/llm"
)

// --- Mock LLMClient ---

// MockLLMClient is a mock implementation of the llm.Client interface.
// Exported for use in integration tests.
type MockLLMClient struct {
	mock.Mock
}

// DraftIssue matches llm.Client interface
func (m *MockLLMClient) DraftIssue(ctx context.Context, userInput, systemPrompt, contextContent string) (llm.Draft, error) {
	args := m.Called(ctx, userInput, systemPrompt, contextContent)
	d, _ := args.Get(0).(llm.Draft)
	return d, args.Error(1)
}
