package update

import (
	"fmt"
	"strings"

	"github.com/karolswdev/jira-mcp-server/internal/failure"
)

// NoChangesMessage is the whole report for an update that requested nothing.
func NoChangesMessage(issueKey string) string {
	return fmt.Sprintf("## ℹ️ No Changes Requested\n\n"+
		"No updates were specified for issue %s. Provide at least one of "+
		"`summary`, `description`, `assigneeName` or `status`.", issueKey)
}

// Render formats a completed Outcome as Markdown.
func Render(out *Outcome) string {
	if out.NoOp {
		return NoChangesMessage(out.IssueKey)
	}

	var b strings.Builder
	if out.Mutated() {
		fmt.Fprintf(&b, "## ✅ Issue %s Updated\n\n", out.IssueKey)
		b.WriteString("**Changed fields:**\n")
		writeBullets(&b, out.Changes)
	} else {
		b.WriteString("## ⚠️ No Changes Applied\n\n")
		fmt.Fprintf(&b, "None of the requested changes could be applied to issue %s.\n", out.IssueKey)
	}

	if len(out.Warnings) > 0 {
		b.WriteString("\n**Warnings:**\n")
		writeBullets(&b, out.Warnings)
	}

	if out.Issue != nil {
		assignee := "Unassigned"
		if a := out.Issue.Fields.Assignee; a != nil && a.DisplayName != "" {
			assignee = a.DisplayName
		}
		fmt.Fprintf(&b, "\n**Current Status:** %s\n", out.Issue.Fields.Status.Name)
		fmt.Fprintf(&b, "**Current Assignee:** %s\n", assignee)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderFailure formats a fatal error. Changes applied before the failure are
// listed so the caller knows the issue was partially modified.
func RenderFailure(out *Outcome, err error) string {
	report := failure.Render(failure.Classify(err))
	if out == nil || !out.Mutated() {
		return report
	}
	var b strings.Builder
	b.WriteString(strings.TrimRight(report, "\n"))
	b.WriteString("\n\n**Changes applied before the failure:**\n")
	writeBullets(&b, out.Changes)
	return strings.TrimRight(b.String(), "\n")
}

func writeBullets(b *strings.Builder, lines []string) {
	for _, line := range lines {
		b.WriteString("- ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
}
