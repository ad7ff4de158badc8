package failure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

// Error codes surfaced to tool callers.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeCredentials     = "CREDENTIALS_MISSING"
	CodeBadRequest      = "JIRA_BAD_REQUEST"
	CodeUnauthorized    = "JIRA_UNAUTHORIZED"
	CodeForbidden       = "JIRA_FORBIDDEN"
	CodeNotFound        = "JIRA_ISSUE_NOT_FOUND"
	CodeAPI             = "JIRA_API_ERROR"
	CodeNetwork         = "NETWORK_ERROR"
	CodeUnknown         = "UNKNOWN_ERROR"
	CodeUnknownType     = "UNKNOWN_ERROR_TYPE"
	transportCodeSuffix = "_ERROR"
)

const maxDetailsLen = 2000

// credentialHints maps a credential field to where the caller can supply it.
var credentialHints = map[string]string{
	"host":  "the `jiraHost` argument or JIRA_HOST",
	"email": "the `email` argument or JIRA_EMAIL",
	"token": "the `apiToken` argument, JIRA_API_TOKEN or `jira-mcp config set-token`",
}

// Classification is the rendered view of a fatal failure.
type Classification struct {
	Kind       Kind
	Title      string
	Code       string
	Message    string
	Details    string
	Suggestion string
}

// Classify maps any value, including recovered panic values that are not
// errors, onto exactly one Classification.
func Classify(v any) Classification {
	err, isErr := v.(error)
	if !isErr {
		return Classification{
			Kind:       KindUnknown,
			Title:      "Unexpected Error",
			Code:       CodeUnknownType,
			Message:    fmt.Sprintf("An unexpected value was raised: %v", v),
			Suggestion: "This is likely a bug in the tool server. Check the server logs and report it.",
		}
	}

	var fe *Error
	if !errors.As(err, &fe) {
		return Classification{
			Kind:       KindUnknown,
			Title:      "Unexpected Error",
			Code:       CodeUnknown,
			Message:    err.Error(),
			Suggestion: "Try again. If the problem persists, check the server logs.",
		}
	}

	switch fe.Kind {
	case KindValidation:
		return Classification{
			Kind:       KindValidation,
			Title:      "Invalid Input",
			Code:       CodeValidation,
			Message:    strings.Join(fe.Messages, "; "),
			Suggestion: "Correct the arguments listed above and call the tool again.",
		}
	case KindCredentials:
		hints := make([]string, 0, len(fe.Messages))
		for _, field := range fe.Messages {
			hints = append(hints, fmt.Sprintf("%s via %s", field, credentialHints[field]))
		}
		return Classification{
			Kind:       KindCredentials,
			Title:      "Missing Jira Credentials",
			Code:       CodeCredentials,
			Message:    "Missing required credentials: " + strings.Join(fe.Messages, ", "),
			Suggestion: "Provide " + strings.Join(hints, "; ") + ".",
		}
	case KindRemote:
		return classifyRemote(fe)
	case KindNetwork:
		return Classification{
			Kind:       KindNetwork,
			Title:      "Network Error",
			Code:       CodeNetwork,
			Message:    fmt.Sprintf("No response received from Jira while trying to %s: %v", fe.Op, fe.Err),
			Suggestion: "Check that the Jira host is correct and reachable, then try again.",
		}
	case KindTransport:
		return Classification{
			Kind:       KindTransport,
			Title:      "Request Could Not Be Sent",
			Code:       strings.ToUpper(fe.Stage) + transportCodeSuffix,
			Message:    fmt.Sprintf("The %s request could not be prepared: %v", fe.Op, fe.Err),
			Suggestion: "Check the Jira host format (e.g. your-domain.atlassian.net) and the request arguments.",
		}
	default:
		return Classification{
			Kind:       KindUnknown,
			Title:      "Unexpected Error",
			Code:       CodeUnknown,
			Message:    fe.Error(),
			Suggestion: "Try again. If the problem persists, check the server logs.",
		}
	}
}

func classifyRemote(fe *Error) Classification {
	c := Classification{
		Kind:    KindRemote,
		Message: fmt.Sprintf("Jira returned HTTP %d while trying to %s.", fe.StatusCode, fe.Op),
		Details: truncate(fe.Body, maxDetailsLen),
	}
	if len(fe.Messages) > 0 {
		c.Message += " " + strings.Join(fe.Messages, "; ")
	}
	target := fe.Resource
	if target == "" {
		target = "the requested resource"
	}

	switch fe.StatusCode {
	case http.StatusBadRequest:
		c.Title = "Invalid Request"
		c.Code = CodeBadRequest
		c.Suggestion = "Check the values sent for " + target + "; Jira's messages above name the rejected fields."
	case http.StatusUnauthorized:
		c.Title = "Authentication Failed"
		c.Code = CodeUnauthorized
		c.Suggestion = "Verify the email and API token. Tokens are managed at https://id.atlassian.com/manage-profile/security/api-tokens."
	case http.StatusForbidden:
		c.Title = "Permission Denied"
		c.Code = CodeForbidden
		c.Suggestion = "Your account lacks permission for this operation on " + target + ". Ask a Jira administrator for access."
	case http.StatusNotFound:
		c.Title = "Resource Not Found"
		if strings.HasPrefix(target, "issue ") {
			c.Title = "Issue Not Found"
		}
		c.Code = CodeNotFound
		c.Suggestion = "Verify that " + target + " exists and that your account can view it."
	default:
		c.Title = "Jira API Error"
		c.Code = CodeAPI
		c.Suggestion = "Try again later. If the problem persists, check the Jira status page and the request details."
	}
	return c
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	// Back off to the start of the rune straddling the limit.
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
