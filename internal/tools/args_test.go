package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/jira-mcp-server/internal/failure"
)

func TestDecodeArgs_TypeErrorsAreCollected(t *testing.T) {
	var args searchIssuesArgs
	p := decodeArgs(map[string]any{"jql": 42, "maxResults": "ten", "email": "dev@example.com"}, &args)

	require.Len(t, p, 2, "both mistyped arguments are reported")
	assert.Contains(t, p[0]+p[1], "jql")
	assert.Contains(t, p[0]+p[1], "maxResults")
	assert.Equal(t, "dev@example.com", args.Email, "well-typed arguments still decode")
}

func TestDecodeArgs_NumbersAndSquashedAuth(t *testing.T) {
	var args listProjectsArgs
	p := decodeArgs(map[string]any{"maxResults": float64(5), "jiraHost": "x.atlassian.net", "apiToken": "tok"}, &args)

	assert.Empty(t, p)
	require.NotNil(t, args.MaxResults)
	assert.Equal(t, 5, *args.MaxResults)
	assert.Equal(t, "x.atlassian.net", args.JiraHost)
	assert.Equal(t, "tok", args.input().Token)
}

func TestDecodeArgs_FractionalNumbersRejected(t *testing.T) {
	for _, v := range []float64{0.5, 2.5} {
		var args searchIssuesArgs
		p := decodeArgs(map[string]any{"jql": "project = A", "maxResults": v}, &args)

		require.Len(t, p, 1)
		assert.Contains(t, p[0], "maxResults")
		assert.Contains(t, p[0], "whole number")
	}

	var args searchIssuesArgs
	assert.Empty(t, decodeArgs(map[string]any{"maxResults": float64(7)}, &args))
	require.NotNil(t, args.MaxResults)
	assert.Equal(t, 7, *args.MaxResults)
}

func TestRequireIssueKey(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]any
		value    string
		problems int
	}{
		{name: "valid", args: map[string]any{"issueKey": "TEST-123"}, value: "TEST-123"},
		{name: "lower case project", args: map[string]any{"issueKey": "abc_1-9"}, value: "abc_1-9"},
		{name: "missing", args: map[string]any{}, problems: 1},
		{name: "blank", args: map[string]any{"issueKey": "  "}, problems: 1},
		{name: "no number", args: map[string]any{"issueKey": "TEST"}, value: "TEST", problems: 1},
		{name: "zero", args: map[string]any{"issueKey": "TEST-0"}, value: "TEST-0", problems: 1},
		{name: "wrong type is left to decode", args: map[string]any{"issueKey": 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p problems
			p.requireIssueKey(tt.args, tt.value)
			assert.Len(t, p, tt.problems)
		})
	}
}

func TestLimit(t *testing.T) {
	var p problems
	assert.Equal(t, 20, p.limit(nil, 20))
	v := 100
	assert.Equal(t, 100, p.limit(&v, 20))
	assert.Empty(t, p)

	v = 0
	assert.Equal(t, 20, p.limit(&v, 20))
	v = 101
	p.limit(&v, 20)
	assert.Equal(t, problems{
		"maxResults must be between 1 and 100, got 0",
		"maxResults must be between 1 and 100, got 101",
	}, p)
}

func TestDescriptionValidation(t *testing.T) {
	var p problems
	p.description(nil)
	p.description("plain")
	p.description(map[string]any{"type": "doc", "version": float64(1), "content": []any{}})
	assert.Empty(t, p)

	p.description(map[string]any{"type": "paragraph"})
	p.description([]any{"x"})
	require.Len(t, p, 2)
	assert.Contains(t, p[1], "[]interface {}")
}

func TestProblemsErr(t *testing.T) {
	assert.NoError(t, problems(nil).err())

	err := problems{"a is required", "b is required"}.err()
	var fe *failure.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, failure.KindValidation, fe.Kind)
	assert.Equal(t, []string{"a is required", "b is required"}, fe.Messages)
}

func TestQuoteJQL(t *testing.T) {
	assert.Equal(t, `"In \"Review\""`, quoteJQL(`In "Review"`))
	assert.Equal(t, `"a\\b"`, quoteJQL(`a\b`))
	assert.Equal(t,
		`assignee = "acc-1" AND project = "PROJ" AND status = "Done" ORDER BY updated DESC`,
		userIssuesJQL("acc-1", "PROJ", "Done"))
	assert.Equal(t, `assignee = "acc-1" ORDER BY updated DESC`, userIssuesJQL("acc-1", "", ""))
}
