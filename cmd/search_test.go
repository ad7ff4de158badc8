package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/karolswdev/jira-mcp-server/internal/failure"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

func createMockSearchResponse() *jira.SearchResponse {
	return &jira.SearchResponse{
		IsLast: true,
		Issues: []jira.Issue{
			{
				Key:  "TEST-1",
				ID:   "10001",
				Self: "https://jira.example.com/rest/api/3/issue/10001",
				Fields: jira.IssueFields{
					Summary:   "Found issue 1 with details",
					Status:    jira.Status{Name: "Open"},
					IssueType: jira.IssueType{Name: "Bug"},
					Assignee:  &jira.User{AccountID: "a1", DisplayName: "Ada"},
				},
			},
			{
				Key:  "TEST-2",
				ID:   "10002",
				Self: "https://jira.example.com/rest/api/3/issue/10002",
				Fields: jira.IssueFields{
					Summary:   "Second\tissue\nwith newline",
					Status:    jira.Status{Name: "In Progress"},
					IssueType: jira.IssueType{Name: "Task"},
				},
			},
		},
	}
}

// newSearchTestCmd builds a command carrying the search flags.
func newSearchTestCmd(t *testing.T, flags map[string]string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	Log = zerolog.Nop()
	cmd := &cobra.Command{}
	cmd.Flags().String("jql", "", "JQL query string")
	cmd.Flags().Int("max-results", 20, "Maximum number of results to return")
	cmd.Flags().StringP("output", "o", "text", "Output format")
	cmd.Flags().StringP("output-fields", "f", "", "Comma-separated fields")
	for k, v := range flags {
		require.NoError(t, cmd.Flags().Set(k, v))
	}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)
	return cmd, &errOut
}

func TestSearchCmd_Text(t *testing.T) {
	mockSearcher := new(MockSearcher)
	var out bytes.Buffer

	mockSearcher.On("SearchIssues", mock.Anything, mock.MatchedBy(func(req jira.SearchRequest) bool {
		return req.JQL == "project = TEST order by created" && req.MaxResults == 20 && len(req.Fields) > 0
	})).Return(createMockSearchResponse(), nil).Once()

	cmd, _ := newSearchTestCmd(t, nil)
	err := searchRunE(mockSearcher, &out, cmd, []string{"project", "=", "TEST", "order", "by", "created"})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Found 2 issues:")
	assert.Contains(t, out.String(), "- TEST-1 - Open - Found issue 1 with details")
	assert.NotContains(t, out.String(), "more results")
	mockSearcher.AssertExpectations(t)
}

func TestSearchCmd_TextMoreResults(t *testing.T) {
	mockSearcher := new(MockSearcher)
	var out bytes.Buffer

	resp := createMockSearchResponse()
	resp.IsLast = false
	resp.NextPageToken = "next"
	mockSearcher.On("SearchIssues", mock.Anything, mock.Anything).Return(resp, nil)

	cmd, _ := newSearchTestCmd(t, map[string]string{"jql": "assignee = currentUser()", "max-results": "2"})
	require.NoError(t, searchRunE(mockSearcher, &out, cmd, nil))

	assert.Contains(t, out.String(), "more results available")
	mockSearcher.AssertCalled(t, "SearchIssues", mock.Anything, mock.MatchedBy(func(req jira.SearchRequest) bool {
		return req.JQL == "assignee = currentUser()" && req.MaxResults == 2
	}))
}

func TestSearchCmd_NoResults(t *testing.T) {
	mockSearcher := new(MockSearcher)
	var out bytes.Buffer
	mockSearcher.On("SearchIssues", mock.Anything, mock.Anything).Return(&jira.SearchResponse{IsLast: true}, nil)

	cmd, _ := newSearchTestCmd(t, nil)
	require.NoError(t, searchRunE(mockSearcher, &out, cmd, []string{"project = NONE"}))

	assert.Equal(t, "No issues found.\n", out.String())
}

func TestSearchCmd_JSON(t *testing.T) {
	mockSearcher := new(MockSearcher)
	var out bytes.Buffer
	mockSearcher.On("SearchIssues", mock.Anything, mock.Anything).Return(createMockSearchResponse(), nil)

	cmd, _ := newSearchTestCmd(t, map[string]string{"output": "json"})
	require.NoError(t, searchRunE(mockSearcher, &out, cmd, []string{"project = TEST"}))

	var decoded jira.SearchResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded.Issues, 2)
	assert.Equal(t, "TEST-1", decoded.Issues[0].Key)
	assert.Equal(t, "Ada", decoded.Issues[0].Fields.Assignee.DisplayName)
}

func TestSearchCmd_JSONFields(t *testing.T) {
	mockSearcher := new(MockSearcher)
	var out bytes.Buffer
	mockSearcher.On("SearchIssues", mock.Anything, mock.Anything).Return(createMockSearchResponse(), nil)

	cmd, _ := newSearchTestCmd(t, map[string]string{"output": "json", "output-fields": "key, fields.status.name,fields.assignee.displayName"})
	require.NoError(t, searchRunE(mockSearcher, &out, cmd, []string{"project = TEST"}))

	assert.JSONEq(t, `[
		{"key": "TEST-1", "fields.status.name": "Open", "fields.assignee.displayName": "Ada"},
		{"key": "TEST-2", "fields.status.name": "In Progress", "fields.assignee.displayName": null}
	]`, out.String())
}

func TestSearchCmd_YAMLFields(t *testing.T) {
	mockSearcher := new(MockSearcher)
	var out bytes.Buffer
	mockSearcher.On("SearchIssues", mock.Anything, mock.Anything).Return(createMockSearchResponse(), nil)

	cmd, _ := newSearchTestCmd(t, map[string]string{"output": "yaml", "output-fields": "key,fields.issuetype.name"})
	require.NoError(t, searchRunE(mockSearcher, &out, cmd, []string{"project = TEST"}))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "TEST-2", decoded[1]["key"])
	assert.Equal(t, "Task", decoded[1]["fields.issuetype.name"])
}

func TestSearchCmd_TSV(t *testing.T) {
	mockSearcher := new(MockSearcher)
	var out bytes.Buffer
	mockSearcher.On("SearchIssues", mock.Anything, mock.Anything).Return(createMockSearchResponse(), nil)

	cmd, _ := newSearchTestCmd(t, map[string]string{"output": "tsv"})
	require.NoError(t, searchRunE(mockSearcher, &out, cmd, []string{"project = TEST"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "key\tfields.summary\tfields.status.name\tfields.issuetype.name", lines[0])
	assert.Equal(t, "TEST-1\tFound issue 1 with details\tOpen\tBug", lines[1])
	assert.Equal(t, "TEST-2\tSecond issue with newline\tIn Progress\tTask", lines[2])
}

func TestSearchCmd_Errors(t *testing.T) {
	t.Run("no query", func(t *testing.T) {
		mockSearcher := new(MockSearcher)
		cmd, errOut := newSearchTestCmd(t, nil)

		err := searchRunE(mockSearcher, &bytes.Buffer{}, cmd, nil)

		assert.ErrorIs(t, err, ErrNoJQL)
		assert.Contains(t, errOut.String(), "No JQL query provided")
		mockSearcher.AssertNotCalled(t, "SearchIssues", mock.Anything, mock.Anything)
	})

	t.Run("max results out of range", func(t *testing.T) {
		mockSearcher := new(MockSearcher)
		cmd, _ := newSearchTestCmd(t, map[string]string{"max-results": "101"})

		err := searchRunE(mockSearcher, &bytes.Buffer{}, cmd, []string{"x"})

		assert.ErrorIs(t, err, ErrMaxResultsRange)
	})

	t.Run("jira error", func(t *testing.T) {
		mockSearcher := new(MockSearcher)
		remoteErr := failure.Remote("search issues", "", 400, []string{"Error in the JQL Query"}, "")
		mockSearcher.On("SearchIssues", mock.Anything, mock.Anything).Return(nil, remoteErr)
		cmd, errOut := newSearchTestCmd(t, nil)

		err := searchRunE(mockSearcher, &bytes.Buffer{}, cmd, []string{"bad jql"})

		assert.ErrorIs(t, err, remoteErr)
		assert.Contains(t, errOut.String(), failure.CodeBadRequest)
		assert.Contains(t, errOut.String(), "Error in the JQL Query")
	})
}

func TestGetValueByPath(t *testing.T) {
	issue := createMockSearchResponse().Issues[0]

	tests := []struct {
		path  string
		want  any
		found bool
	}{
		{"key", "TEST-1", true},
		{"Key", "TEST-1", true},
		{"fields.status.name", "Open", true},
		{"fields.issuetype.name", "Bug", true},
		{"fields.assignee.accountId", "a1", true},
		{"fields.priority.name", nil, false},
		{"fields.nonexistent", nil, false},
		{"key.extra", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, found := getValueByPath(issue, tt.path)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}

	got, found := getValueByPath(map[string]any{"Outer": map[string]any{"inner": 1}}, "outer.INNER")
	assert.True(t, found)
	assert.Equal(t, 1, got)
}
