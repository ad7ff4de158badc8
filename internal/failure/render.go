package failure

import (
	"fmt"
	"strings"
)

// Render formats a classification as the Markdown error report returned to
// tool callers.
func Render(c Classification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## ❌ %s\n\n", c.Title)
	fmt.Fprintf(&b, "**Error Code:** `%s`\n\n", c.Code)
	fmt.Fprintf(&b, "**Message:** %s\n", c.Message)
	if c.Details != "" {
		fmt.Fprintf(&b, "\n**Details:**\n```\n%s\n```\n", c.Details)
	}
	if c.Suggestion != "" {
		fmt.Fprintf(&b, "\n**Suggestion:** %s\n", c.Suggestion)
	}
	return b.String()
}
