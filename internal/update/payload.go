// Package update applies a partial change to one Jira issue: field edits, an
// assignee change and a workflow transition, reporting what happened.
package update

import (
	"github.com/karolswdev/jira-mcp-server/internal/adf"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

// BuildFields assembles the sparse field document. summary is kept even when
// empty; description is normalized to ADF when non-nil; the assignee is only
// set for a resolved account id.
func BuildFields(summary *string, description any, assigneeID string) jira.UpdateFields {
	var fields jira.UpdateFields
	if summary != nil {
		s := *summary
		fields.Summary = &s
	}
	if description != nil {
		doc := adf.Normalize(description)
		fields.Description = &doc
	}
	if assigneeID != "" {
		fields.Assignee = &jira.AccountRef{AccountID: assigneeID}
	}
	return fields
}
