package update

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/karolswdev/jira-mcp-server/internal/credentials"
	"github.com/karolswdev/jira-mcp-server/internal/failure"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
	"github.com/karolswdev/jira-mcp-server/internal/resolve"
)

// Remote is the subset of the Jira API an update needs.
type Remote interface {
	resolve.UserDirectory
	UpdateIssue(ctx context.Context, key string, fields jira.UpdateFields) error
	GetTransitions(ctx context.Context, key string) ([]jira.Transition, error)
	TransitionIssue(ctx context.Context, key, transitionID string) error
	GetIssue(ctx context.Context, key string) (*jira.Issue, error)
}

// Connector opens a Remote for resolved credentials.
type Connector func(creds credentials.Credentials) (Remote, error)

// Request is a validated update. Nil pointers mean "not requested"; an empty
// AssigneeName or Status is treated the same way. Description is a string or
// an ADF document and nil when absent.
type Request struct {
	IssueKey     string
	Credentials  credentials.Input
	Summary      *string
	Description  any
	AssigneeName *string
	Status       *string
}

func (r Request) assignee() string { return deref(r.AssigneeName) }
func (r Request) status() string   { return deref(r.Status) }

func (r Request) requested() bool {
	return r.Summary != nil || r.Description != nil || r.assignee() != "" || r.status() != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// Orchestrator sequences one update. Defaults is the configuration snapshot
// used to fill in credentials the caller left out.
type Orchestrator struct {
	Defaults credentials.Defaults
	Connect  Connector
}

// Run performs the update. Resolver misses become warnings on the Outcome;
// any other failure aborts and is returned as the error, together with the
// Outcome accumulated so far.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Outcome, error) {
	logger := zerolog.Ctx(ctx).With().Str("issue", req.IssueKey).Logger()
	out := &Outcome{IssueKey: req.IssueKey}

	if strings.TrimSpace(req.IssueKey) == "" {
		return out, failure.Validation("issueKey is required")
	}

	creds, err := credentials.Resolve(req.Credentials, o.Defaults)
	if err != nil {
		return out, err
	}

	if !req.requested() {
		logger.Debug().Msg("No changes requested")
		out.NoOp = true
		return out, nil
	}

	remote, err := o.Connect(creds)
	if err != nil {
		return out, err
	}

	var assignee jira.User
	if name := req.assignee(); name != "" {
		u, found, err := resolve.User(ctx, remote, name)
		switch {
		case err != nil:
			logger.Warn().Err(err).Str("assignee", name).Msg("Assignee lookup failed")
			out.warn(fmt.Sprintf("Assignee '%s' could not be looked up: %v", name, err))
		case !found:
			logger.Info().Str("assignee", name).Msg("Assignee not found")
			out.warn(fmt.Sprintf("Assignee '%s' not found", name))
		default:
			assignee = u
		}
	}

	fields := BuildFields(req.Summary, req.Description, assignee.AccountID)
	if !fields.IsEmpty() {
		if err := remote.UpdateIssue(ctx, req.IssueKey, fields); err != nil {
			return out, err
		}
		if fields.Summary != nil {
			out.change("Summary updated")
		}
		if fields.Description != nil {
			out.change("Description updated")
		}
		if fields.Assignee != nil {
			out.change(fmt.Sprintf("Assignee set to %s", assignee.DisplayName))
		}
		logger.Info().Int("fields", len(out.Changes)).Msg("Issue fields updated")
	}

	if target := req.status(); target != "" {
		if err := o.transition(ctx, logger, remote, out, target); err != nil {
			return out, err
		}
	}

	if !out.Mutated() {
		return out, nil
	}

	issue, err := remote.GetIssue(ctx, req.IssueKey)
	if err != nil {
		return out, err
	}
	out.Issue = issue
	return out, nil
}

func (o *Orchestrator) transition(ctx context.Context, logger zerolog.Logger, remote Remote, out *Outcome, target string) error {
	transitions, err := remote.GetTransitions(ctx, out.IssueKey)
	if err != nil {
		logger.Warn().Err(err).Str("status", target).Msg("Transition lookup failed")
		out.warn(fmt.Sprintf("Status transition to %q could not be looked up: %v", target, err))
		return nil
	}

	t, found := resolve.Transition(transitions, target)
	if !found {
		out.warn(fmt.Sprintf("Status transition to %q not available. Available transitions: %s",
			target, resolve.AvailableNames(transitions)))
		return nil
	}

	if err := remote.TransitionIssue(ctx, out.IssueKey, t.ID); err != nil {
		return err
	}
	out.change(fmt.Sprintf("Status changed to %s", t.To.Name))
	logger.Info().Str("transition", t.ID).Str("status", t.To.Name).Msg("Issue transitioned")
	return nil
}
