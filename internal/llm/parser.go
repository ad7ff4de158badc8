package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Draft is the issue proposed by the model.
type Draft struct {
	Summary               string `json:"summary"`
	Description           string `json:"description"`
	ProjectNameSuggestion string `json:"project_name_suggestion"`
	IssueType             string `json:"issue_type,omitempty"`
}

// jsonFence matches a JSON object inside a ``` or ```json code fence.
var jsonFence = regexp.MustCompile(`(?s)\x60{3}(?:[jJ][sS][oO][nN])?\s*(\{.*\})\s*\x60{3}`)

// ParseDraft extracts the JSON object from a model reply, fenced or bare, and
// checks that a summary is present. The project suggestion may be empty when
// the caller names the project explicitly.
func ParseDraft(raw string) (Draft, error) {
	var jsonStr string
	if match := jsonFence.FindStringSubmatch(raw); len(match) == 2 {
		jsonStr = match[1]
	} else {
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
			return Draft{}, ErrLLMResponseJSONFind
		}
		jsonStr = trimmed
	}

	var draft Draft
	if err := json.Unmarshal([]byte(strings.TrimSpace(jsonStr)), &draft); err != nil {
		return Draft{}, fmt.Errorf("%w: %w", ErrLLMResponseJSONUnmarshal, err)
	}
	draft.Summary = strings.TrimSpace(draft.Summary)
	if draft.Summary == "" {
		return draft, fmt.Errorf("%w: summary", ErrLLMResponseMissingField)
	}
	return draft, nil
}
