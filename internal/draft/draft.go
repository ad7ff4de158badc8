// Package draft turns a free-form request into a proposed Jira issue using a
// language model and the project links from links.yaml.
package draft

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/karolswdev/jira-mcp-server/internal/config"
	"github.com/karolswdev/jira-mcp-server/internal/llm"
)

// DefaultIssueType is used when neither the caller, the model nor the matched
// project link names an issue type.
const DefaultIssueType = "Task"

// Inputs are the files that steer drafting.
type Inputs struct {
	Links        config.LinksConfig
	SystemPrompt string
	Context      string
}

// Request asks for a draft. ProjectKey and IssueType override what the model
// suggests.
type Request struct {
	Prompt     string
	ProjectKey string
	IssueType  string
}

// Proposal is a drafted issue ready to be created.
type Proposal struct {
	ProjectKey        string
	IssueType         string
	Summary           string
	Description       string
	ProjectSuggestion string
}

// Drafter produces proposals. Inputs is called once per draft so edits to
// the files apply without a restart.
type Drafter struct {
	LLM    llm.Client
	Inputs func() (Inputs, error)
}

// Draft asks the model for an issue and settles its project and type.
func (d *Drafter) Draft(ctx context.Context, req Request) (*Proposal, error) {
	logger := zerolog.Ctx(ctx)
	if d == nil || d.LLM == nil {
		return nil, ErrLLMUnavailable
	}

	in, err := d.Inputs()
	if err != nil {
		return nil, err
	}

	result, err := d.LLM.DraftIssue(ctx, req.Prompt, in.SystemPrompt, in.Context)
	if err != nil {
		return nil, err
	}

	p := &Proposal{
		Summary:           result.Summary,
		Description:       result.Description,
		ProjectSuggestion: result.ProjectNameSuggestion,
	}

	var link *config.ProjectLink
	if key := strings.TrimSpace(req.ProjectKey); key != "" {
		p.ProjectKey = key
		_, link, _ = MapSuggestionToKey(key, in.Links)
	} else {
		p.ProjectKey, link, err = MapSuggestionToKey(result.ProjectNameSuggestion, in.Links)
		if err != nil {
			logger.Warn().Str("suggestion", result.ProjectNameSuggestion).Msg("Project suggestion did not match links.yaml")
			return p, err
		}
	}

	p.IssueType = ResolveIssueType(req.IssueType, result.IssueType, link)
	logger.Debug().Str("project", p.ProjectKey).Str("issue_type", p.IssueType).Msg("Drafted issue")
	return p, nil
}

// MapSuggestionToKey finds the link whose alias or key equals suggestion,
// ignoring case.
func MapSuggestionToKey(suggestion string, links config.LinksConfig) (string, *config.ProjectLink, error) {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion != "" {
		for i := range links.Projects {
			link := &links.Projects[i]
			if strings.EqualFold(suggestion, link.Name) || strings.EqualFold(suggestion, link.Key) {
				return link.Key, link, nil
			}
		}
	}
	return "", nil, fmt.Errorf("%w: %q", ErrProjectMappingFailed, suggestion)
}

// ResolveIssueType picks the explicit type, then the project link default,
// then the model's suggestion, then DefaultIssueType.
func ResolveIssueType(explicit, suggested string, link *config.ProjectLink) string {
	if t := strings.TrimSpace(explicit); t != "" {
		return t
	}
	if link != nil && link.DefaultIssueType != "" {
		return link.DefaultIssueType
	}
	if t := strings.TrimSpace(suggested); t != "" {
		return t
	}
	return DefaultIssueType
}
