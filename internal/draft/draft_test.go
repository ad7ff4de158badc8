package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/jira-mcp-server/internal/config"
	"github.com/karolswdev/jira-mcp-server/internal/llm"
)

type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) DraftIssue(ctx context.Context, userInput, systemPrompt, contextContent string) (llm.Draft, error) {
	args := m.Called(ctx, userInput, systemPrompt, contextContent)
	return args.Get(0).(llm.Draft), args.Error(1)
}

var testLinks = config.LinksConfig{Projects: []config.ProjectLink{
	{Name: "Backend Team", Key: "BE", DefaultIssueType: "Story"},
	{Name: "Web", Key: "WEB"},
}}

func staticInputs() (Inputs, error) {
	return Inputs{Links: testLinks, SystemPrompt: "sys", Context: "ctx"}, nil
}

func TestMapSuggestionToKey(t *testing.T) {
	key, link, err := MapSuggestionToKey("backend team", testLinks)
	require.NoError(t, err)
	assert.Equal(t, "BE", key)
	assert.Equal(t, "Story", link.DefaultIssueType)

	key, _, err = MapSuggestionToKey("web", testLinks)
	require.NoError(t, err, "keys match as well as aliases")
	assert.Equal(t, "WEB", key)

	_, _, err = MapSuggestionToKey("Mobile", testLinks)
	assert.ErrorIs(t, err, ErrProjectMappingFailed)

	_, _, err = MapSuggestionToKey("", config.LinksConfig{})
	assert.ErrorIs(t, err, ErrProjectMappingFailed)
}

func TestResolveIssueType(t *testing.T) {
	link := &config.ProjectLink{DefaultIssueType: "Story"}
	assert.Equal(t, "Bug", ResolveIssueType("Bug", "Epic", link))
	assert.Equal(t, "Story", ResolveIssueType("", "Epic", link))
	assert.Equal(t, "Epic", ResolveIssueType("", "Epic", nil))
	assert.Equal(t, DefaultIssueType, ResolveIssueType(" ", "", &config.ProjectLink{}))
}

func TestDrafter_Draft(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps suggestion", func(t *testing.T) {
		m := new(MockLLMClient)
		m.On("DraftIssue", ctx, "fix login", "sys", "ctx").
			Return(llm.Draft{Summary: "Fix login", Description: "Details", ProjectNameSuggestion: "Backend Team"}, nil)

		d := &Drafter{LLM: m, Inputs: staticInputs}
		p, err := d.Draft(ctx, Request{Prompt: "fix login"})
		require.NoError(t, err)
		assert.Equal(t, &Proposal{ProjectKey: "BE", IssueType: "Story", Summary: "Fix login", Description: "Details", ProjectSuggestion: "Backend Team"}, p)
		m.AssertExpectations(t)
	})

	t.Run("Explicit project wins", func(t *testing.T) {
		m := new(MockLLMClient)
		m.On("DraftIssue", ctx, "x", "sys", "ctx").Return(llm.Draft{Summary: "S", ProjectNameSuggestion: "Nowhere", IssueType: "Bug"}, nil)

		d := &Drafter{LLM: m, Inputs: staticInputs}
		p, err := d.Draft(ctx, Request{Prompt: "x", ProjectKey: "OPS"})
		require.NoError(t, err)
		assert.Equal(t, "OPS", p.ProjectKey)
		assert.Equal(t, "Bug", p.IssueType)
	})

	t.Run("Unmapped suggestion", func(t *testing.T) {
		m := new(MockLLMClient)
		m.On("DraftIssue", ctx, "x", "sys", "ctx").Return(llm.Draft{Summary: "S", ProjectNameSuggestion: "Nowhere"}, nil)

		d := &Drafter{LLM: m, Inputs: staticInputs}
		p, err := d.Draft(ctx, Request{Prompt: "x"})
		assert.ErrorIs(t, err, ErrProjectMappingFailed)
		require.NotNil(t, p, "the draft is still returned for display")
		assert.Equal(t, "S", p.Summary)
	})

	t.Run("LLM error", func(t *testing.T) {
		m := new(MockLLMClient)
		m.On("DraftIssue", ctx, "x", "sys", "ctx").Return(llm.Draft{}, llm.ErrLLMEmptyResponse)

		d := &Drafter{LLM: m, Inputs: staticInputs}
		_, err := d.Draft(ctx, Request{Prompt: "x"})
		assert.ErrorIs(t, err, llm.ErrLLMEmptyResponse)
	})

	t.Run("No model", func(t *testing.T) {
		_, err := (&Drafter{Inputs: staticInputs}).Draft(ctx, Request{Prompt: "x"})
		assert.ErrorIs(t, err, ErrLLMUnavailable)
	})

	t.Run("Inputs error", func(t *testing.T) {
		boom := errors.New("boom")
		d := &Drafter{LLM: new(MockLLMClient), Inputs: func() (Inputs, error) { return Inputs{}, boom }}
		_, err := d.Draft(ctx, Request{Prompt: "x"})
		assert.ErrorIs(t, err, boom)
	})
}
