//go:build integration

package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchResponseJSON = `{
  "isLast": true,
  "issues": [
    {"id": "10001", "key": "PROJ-456", "fields": {"summary": "Fix urgent bug in login", "status": {"name": "Open"}, "issuetype": {"name": "Bug"}, "assignee": {"accountId": "a1", "displayName": "Ada"}}},
    {"id": "10002", "key": "PROJ-457", "fields": {"summary": "Another urgent\tbug report", "status": {"name": "Open"}, "issuetype": {"name": "Task"}}}
  ]
}`

func mockJiraSearch(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/api/3/search/jql", func(w http.ResponseWriter, r *http.Request) {
		user, token, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "dev@example.com", user)
		assert.Equal(t, "file-token", token)
		assert.Equal(t, "text ~ urgent", r.URL.Query().Get("jql"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, searchResponseJSON)
	})
	mux.HandleFunc("GET /rest/api/3/issue/PROJ-456", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"key":"PROJ-456","fields":{"summary":"Fix urgent bug in login","status":{"name":"Open"},"issuetype":{"name":"Bug"}}}`)
	})
	return mux
}

func TestSearchWorkflow(t *testing.T) {
	jira := mockServer(t, mockJiraSearch(t))
	dir := setupTestEnvironment(t, jira.URL, "")

	t.Run("text", func(t *testing.T) {
		stdout, _, err := executeCommand(t, dir, "", "search", "--jql", "text ~ urgent", "-o", "text")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Found 2 issues:")
		assert.Contains(t, stdout, "- PROJ-456 - Open - Fix urgent bug in login")
	})

	t.Run("json with fields", func(t *testing.T) {
		stdout, _, err := executeCommand(t, dir, "", "search", "--jql", "text ~ urgent", "-o", "json", "-f", "key,fields.assignee.displayName")
		require.NoError(t, err)
		var rows []map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "Ada", rows[0]["fields.assignee.displayName"])
		assert.Nil(t, rows[1]["fields.assignee.displayName"])
	})

	t.Run("tsv", func(t *testing.T) {
		stdout, _, err := executeCommand(t, dir, "", "search", "--jql", "text ~ urgent", "-o", "tsv", "-f", "key,fields.summary")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "PROJ-457\tAnother urgent bug report", lines[2])
	})

	t.Run("call tool", func(t *testing.T) {
		stdout, _, err := executeCommand(t, dir, "", "call", "search_issues", "--args-json", `{"jql":"text ~ urgent","maxResults":5}`)
		require.NoError(t, err)
		assert.Contains(t, stdout, "**PROJ-456** [Open] Fix urgent bug in login (Ada)")
	})

	t.Run("call tool failure exits non-zero", func(t *testing.T) {
		stdout, _, err := executeCommand(t, dir, "", "call", "get_issue", "--args-json", `{"issueKey":"PROJ-999"}`)
		require.Error(t, err)
		assert.Contains(t, stdout, "JIRA_ISSUE_NOT_FOUND")
	})
}

func TestToolsListing(t *testing.T) {
	dir := setupTestEnvironment(t, "https://unused.example.com", "")

	stdout, _, err := executeCommand(t, dir, "", "tools", "-o", "json")
	require.NoError(t, err)

	var tools []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &tools))
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_projects", "get_issue", "search_issues", "create_issue",
		"update_issue", "list_project_members", "check_user_issues",
	}, names)
}
