package update

import "github.com/karolswdev/jira-mcp-server/internal/jira"

// Outcome accumulates what one update invocation did, in order.
type Outcome struct {
	IssueKey string
	// NoOp is set when the caller requested nothing.
	NoOp bool
	// Changes are the applied mutations, rendered as bullet lines.
	Changes []string
	// Warnings are the non-fatal problems met along the way.
	Warnings []string
	// Issue is the snapshot fetched after the last mutation.
	Issue *jira.Issue
}

func (o *Outcome) change(line string) { o.Changes = append(o.Changes, line) }

func (o *Outcome) warn(line string) { o.Warnings = append(o.Warnings, line) }

// Mutated reports whether at least one remote change was applied.
func (o *Outcome) Mutated() bool { return len(o.Changes) > 0 }
