package resolve

import (
	"strings"

	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

// NoTransitions is listed when an issue has no available transitions.
const NoTransitions = "None available"

// Transition returns the first transition whose target status name equals
// target, ignoring case.
func Transition(transitions []jira.Transition, target string) (jira.Transition, bool) {
	for _, t := range transitions {
		if strings.EqualFold(t.To.Name, target) {
			return t, true
		}
	}
	return jira.Transition{}, false
}

// AvailableNames lists every target status name, comma-joined, for telling
// the caller what they could have asked for.
func AvailableNames(transitions []jira.Transition) string {
	if len(transitions) == 0 {
		return NoTransitions
	}
	names := make([]string, 0, len(transitions))
	for _, t := range transitions {
		names = append(names, t.To.Name)
	}
	return strings.Join(names, ", ")
}
