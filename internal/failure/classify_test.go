package failure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Remote(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		wantCode  string
		wantTitle string
	}{
		{"BadRequest", http.StatusBadRequest, CodeBadRequest, "Invalid Request"},
		{"Unauthorized", http.StatusUnauthorized, CodeUnauthorized, "Authentication Failed"},
		{"Forbidden", http.StatusForbidden, CodeForbidden, "Permission Denied"},
		{"NotFound", http.StatusNotFound, CodeNotFound, "Issue Not Found"},
		{"ServerError", http.StatusInternalServerError, CodeAPI, "Jira API Error"},
		{"Conflict", http.StatusConflict, CodeAPI, "Jira API Error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Remote("update issue", "issue TEST-123", tc.status, []string{"something went wrong"}, `{"errorMessages":["something went wrong"]}`)
			c := Classify(err)
			assert.Equal(t, KindRemote, c.Kind)
			assert.Equal(t, tc.wantCode, c.Code)
			assert.Equal(t, tc.wantTitle, c.Title)
			assert.Contains(t, c.Message, "something went wrong")
			assert.Contains(t, c.Message, fmt.Sprintf("HTTP %d", tc.status))
			assert.NotEmpty(t, c.Suggestion)
			assert.Contains(t, c.Details, "errorMessages")
		})
	}
}

func TestClassify_DetailsCutOnRuneBoundary(t *testing.T) {
	// "é" is two bytes, so the limit lands inside a rune.
	body := "x" + strings.Repeat("é", maxDetailsLen)
	c := Classify(Remote("get issue", "issue TEST-1", http.StatusInternalServerError, nil, body))

	assert.True(t, utf8.ValidString(c.Details))
	assert.True(t, strings.HasSuffix(c.Details, "…"))
	assert.Equal(t, "x"+strings.Repeat("é", (maxDetailsLen-2)/2)+"…", c.Details)
}

func TestClassify_NotFoundSuggestionNamesIssue(t *testing.T) {
	c := Classify(Remote("update issue", "issue TEST-123", http.StatusNotFound, nil, ""))
	assert.Equal(t, CodeNotFound, c.Code)
	assert.Contains(t, c.Suggestion, "TEST-123")
}

func TestClassify_NotFoundOtherResource(t *testing.T) {
	c := Classify(Remote("list project roles", "project ABC", http.StatusNotFound, nil, ""))
	assert.Equal(t, CodeNotFound, c.Code)
	assert.Equal(t, "Resource Not Found", c.Title)
	assert.Contains(t, c.Suggestion, "project ABC")
}

func TestClassify_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("updating fields: %w", Remote("update issue", "issue TEST-1", http.StatusForbidden, nil, ""))
	c := Classify(wrapped)
	assert.Equal(t, CodeForbidden, c.Code)
}

func TestClassify_Validation(t *testing.T) {
	c := Classify(Validation("issueKey is required", "maxResults must be between 1 and 100"))
	assert.Equal(t, CodeValidation, c.Code)
	assert.Contains(t, c.Message, "issueKey is required")
	assert.Contains(t, c.Message, "maxResults must be between 1 and 100")
}

func TestClassify_Credentials(t *testing.T) {
	c := Classify(Credentials("email", "token"))
	assert.Equal(t, CodeCredentials, c.Code)
	assert.Equal(t, "Missing required credentials: email, token", c.Message)
	assert.Contains(t, c.Suggestion, "JIRA_EMAIL")
	assert.Contains(t, c.Suggestion, "JIRA_API_TOKEN")
	assert.NotContains(t, c.Suggestion, "JIRA_HOST")
}

func TestClassify_NetworkAndTransport(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	n := Classify(Network("get issue", cause))
	assert.Equal(t, CodeNetwork, n.Code)
	assert.Contains(t, n.Message, "connection refused")

	tr := Classify(Transport("get issue", "REQUEST_SETUP", cause))
	assert.Equal(t, "REQUEST_SETUP_ERROR", tr.Code)
	assert.Equal(t, KindTransport, tr.Kind)
}

func TestClassify_Unknown(t *testing.T) {
	c := Classify(errors.New("boom"))
	assert.Equal(t, CodeUnknown, c.Code)
	assert.Equal(t, "boom", c.Message)

	nonErr := Classify("a string was thrown")
	assert.Equal(t, CodeUnknownType, nonErr.Code)
	assert.Contains(t, nonErr.Message, "a string was thrown")

	nilValue := Classify(nil)
	assert.Equal(t, CodeUnknownType, nilValue.Code)
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Network("search users", cause)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "search users")
}

func TestRender(t *testing.T) {
	out := Render(Classify(Remote("update issue", "issue TEST-123", http.StatusNotFound, []string{"Issue does not exist"}, `{"errorMessages":["Issue does not exist"]}`)))

	assert.Contains(t, out, "## ❌ Issue Not Found")
	assert.Contains(t, out, "**Error Code:** `JIRA_ISSUE_NOT_FOUND`")
	assert.Contains(t, out, "Issue does not exist")
	assert.Contains(t, out, "**Details:**")
	assert.Contains(t, out, "**Suggestion:** Verify that issue TEST-123 exists")
}

func TestRender_OmitsEmptyDetails(t *testing.T) {
	out := Render(Classify(Validation("summary must be a string")))
	assert.NotContains(t, out, "**Details:**")
}
