// Package resolve turns the loose names a caller supplies into the ids Jira
// needs: users by display name and workflow transitions by target status.
package resolve

import (
	"context"
	"strings"

	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

// UserDirectory searches Jira users.
type UserDirectory interface {
	SearchUsers(ctx context.Context, query string) ([]jira.User, error)
}

// PickUser chooses one user from search results. An active user whose display
// name equals query (ignoring case) wins; otherwise the first active user in
// the order given. ok is false when no candidate is active.
func PickUser(query string, candidates []jira.User) (jira.User, bool) {
	for _, u := range candidates {
		if u.Active && strings.EqualFold(u.DisplayName, query) {
			return u, true
		}
	}
	for _, u := range candidates {
		if u.Active {
			return u, true
		}
	}
	return jira.User{}, false
}

// User searches dir for query and applies PickUser. Zero results is reported
// as not found, never as an error; err is only the search call failing.
func User(ctx context.Context, dir UserDirectory, query string) (jira.User, bool, error) {
	candidates, err := dir.SearchUsers(ctx, query)
	if err != nil {
		return jira.User{}, false, err
	}
	u, ok := PickUser(query, candidates)
	return u, ok, nil
}
