// Package jira is a small client for the Jira Cloud REST API v3 covering the
// endpoints the tool server needs.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/karolswdev/jira-mcp-server/internal/credentials"
	"github.com/karolswdev/jira-mcp-server/internal/failure"
)

// Transport stages reported when a request never leaves the client.
const (
	StageRequestSetup = "REQUEST_SETUP"
	StageRateLimit    = "RATE_LIMIT"
)

const apiPrefix = "/rest/api/3"

// Settings tune the HTTP behaviour of a Client. Zero values select defaults.
type Settings struct {
	Timeout time.Duration
	// RequestsPerSecond caps outgoing requests. Zero or negative disables
	// pacing.
	RequestsPerSecond float64
	Burst             int
	// Limiter, when set, paces every Client built with these settings and
	// takes precedence over RequestsPerSecond and Burst.
	Limiter *rate.Limiter
}

// NewLimiter builds the limiter described by RequestsPerSecond and Burst, or
// nil when pacing is disabled. A burst below one is raised to one.
func NewLimiter(settings Settings) *rate.Limiter {
	if settings.RequestsPerSecond <= 0 {
		return nil
	}
	burst := settings.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), burst)
}

// DefaultTimeout is used when Settings.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Client sends authenticated requests to one Jira site. A Client is built per
// tool invocation from the resolved credentials and is safe for concurrent use.
// Clients only pace each other when they share Settings.Limiter.
type Client struct {
	BaseURL    *url.URL
	HTTPClient *http.Client

	authHeader string
	limiter    *rate.Limiter
}

// New creates a Client for the site and account described by creds.
func New(creds credentials.Credentials, settings Settings) (*Client, error) {
	baseURL, err := url.Parse(creds.BaseURL())
	if err != nil {
		return nil, failure.Transport("connect to jira", StageRequestSetup, fmt.Errorf("%w: %w", ErrBaseURLParse, err))
	}
	if baseURL.Host == "" {
		return nil, failure.Transport("connect to jira", StageRequestSetup,
			fmt.Errorf("%w: no host in %q", ErrBaseURLParse, creds.Host))
	}

	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		authHeader: creds.AuthHeader(),
	}
	c.limiter = settings.Limiter
	if c.limiter == nil {
		c.limiter = NewLimiter(settings)
	}
	return c, nil
}

// call describes one REST request.
type call struct {
	op       string
	resource string
	method   string
	path     string
	query    url.Values
	body     any
}

// do sends the request and decodes a 2xx response into out (when non-nil).
// Every failure is returned as a *failure.Error.
func (c *Client) do(ctx context.Context, rc call, out any) error {
	endpointURL := c.BaseURL.JoinPath(apiPrefix, rc.path)
	if len(rc.query) > 0 {
		endpointURL.RawQuery = rc.query.Encode()
	}

	var body io.Reader
	var jsonData []byte
	if rc.body != nil {
		var err error
		jsonData, err = json.Marshal(rc.body)
		if err != nil {
			return failure.Transport(rc.op, StageRequestSetup, fmt.Errorf("%w: %w", ErrRequestMarshal, err))
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, rc.method, endpointURL.String(), body)
	if err != nil {
		return failure.Transport(rc.op, StageRequestSetup, fmt.Errorf("%w: %w", ErrRequestCreate, err))
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return failure.Transport(rc.op, StageRateLimit, fmt.Errorf("%w: %w", ErrRateLimitWait, err))
		}
	}

	logEvent := log.Debug().Str("method", rc.method).Str("url", endpointURL.String())
	if jsonData != nil {
		logEvent = logEvent.RawJSON("request_body", jsonData)
	}
	logEvent.Msg("Sending Jira request")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return failure.Network(rc.op, fmt.Errorf("%w: %w", ErrRequestExecute, err))
	}
	defer resp.Body.Close()

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure.Network(rc.op, fmt.Errorf("%w: %w", ErrResponseRead, err))
	}
	if json.Valid(respBodyBytes) {
		log.Debug().Int("status_code", resp.StatusCode).RawJSON("response_body", respBodyBytes).Msg("Received Jira response")
	} else {
		log.Debug().Int("status_code", resp.StatusCode).Int("response_bytes", len(respBodyBytes)).Msg("Received Jira response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure.Remote(rc.op, rc.resource, resp.StatusCode, errorMessages(respBodyBytes), string(respBodyBytes))
	}

	if out == nil || len(bytes.TrimSpace(respBodyBytes)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBodyBytes, out); err != nil {
		return fmt.Errorf("%w: %w", ErrResponseDecode, err)
	}
	return nil
}

// errorMessages extracts the human-readable strings from a Jira error body.
// Field errors are rendered as "field: message" in field order.
func errorMessages(body []byte) []string {
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return nil
	}
	msgs := append([]string(nil), errResp.ErrorMessages...)
	fields := make([]string, 0, len(errResp.Errors))
	for field := range errResp.Errors {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	for _, field := range fields {
		msgs = append(msgs, field+": "+errResp.Errors[field])
	}
	return msgs
}

// SearchUsers finds users whose name or email matches query.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	var users []User
	err := c.do(ctx, call{
		op:       "search users",
		resource: fmt.Sprintf("user %q", query),
		method:   http.MethodGet,
		path:     "/user/search",
		query:    url.Values{"query": {query}},
	}, &users)
	return users, err
}

// GetIssue fetches a single issue.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	var issue Issue
	err := c.do(ctx, call{
		op:       "get issue",
		resource: "issue " + key,
		method:   http.MethodGet,
		path:     "/issue/" + url.PathEscape(key),
	}, &issue)
	if err != nil {
		return nil, err
	}
	return &issue, nil
}

// UpdateIssue applies a sparse field update. Callers must not send an empty
// update.
func (c *Client) UpdateIssue(ctx context.Context, key string, fields UpdateFields) error {
	return c.do(ctx, call{
		op:       "update issue",
		resource: "issue " + key,
		method:   http.MethodPut,
		path:     "/issue/" + url.PathEscape(key),
		body:     updateIssueRequest{Fields: fields},
	}, nil)
}

// GetTransitions lists the transitions currently available for an issue.
func (c *Client) GetTransitions(ctx context.Context, key string) ([]Transition, error) {
	var resp transitionsResponse
	err := c.do(ctx, call{
		op:       "get transitions",
		resource: "issue " + key,
		method:   http.MethodGet,
		path:     "/issue/" + url.PathEscape(key) + "/transitions",
	}, &resp)
	return resp.Transitions, err
}

// TransitionIssue moves an issue through the transition with the given id.
func (c *Client) TransitionIssue(ctx context.Context, key, transitionID string) error {
	var body transitionRequest
	body.Transition.ID = transitionID
	return c.do(ctx, call{
		op:       "transition issue",
		resource: "issue " + key,
		method:   http.MethodPost,
		path:     "/issue/" + url.PathEscape(key) + "/transitions",
		body:     body,
	}, nil)
}

// ListProjects returns up to maxResults projects visible to the account.
func (c *Client) ListProjects(ctx context.Context, maxResults int) ([]Project, error) {
	q := url.Values{}
	if maxResults > 0 {
		q.Set("maxResults", strconv.Itoa(maxResults))
	}
	var page projectPage
	err := c.do(ctx, call{
		op:       "list projects",
		resource: "projects",
		method:   http.MethodGet,
		path:     "/project/search",
		query:    q,
	}, &page)
	return page.Values, err
}

// CreateIssue creates an issue and returns its key.
func (c *Client) CreateIssue(ctx context.Context, reqBody CreateIssueRequest) (*CreatedIssue, error) {
	body := createIssueBody{Fields: createFields{
		Project:     ProjectRef{Key: reqBody.ProjectKey},
		Summary:     reqBody.Summary,
		Description: reqBody.Description,
		IssueType:   IssueType{Name: reqBody.IssueType},
	}}
	if reqBody.AssigneeID != "" {
		body.Fields.Assignee = &AccountRef{AccountID: reqBody.AssigneeID}
	}
	var created CreatedIssue
	err := c.do(ctx, call{
		op:       "create issue",
		resource: "project " + reqBody.ProjectKey,
		method:   http.MethodPost,
		path:     "/issue",
		body:     body,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// SearchIssues runs a JQL query and returns the first page of results.
func (c *Client) SearchIssues(ctx context.Context, reqBody SearchRequest) (*SearchResponse, error) {
	q := url.Values{"jql": {reqBody.JQL}}
	if reqBody.MaxResults > 0 {
		q.Set("maxResults", strconv.Itoa(reqBody.MaxResults))
	}
	if len(reqBody.Fields) > 0 {
		q.Set("fields", strings.Join(reqBody.Fields, ","))
	}
	var resp SearchResponse
	err := c.do(ctx, call{
		op:       "search issues",
		resource: "issues",
		method:   http.MethodGet,
		path:     "/search/jql",
		query:    q,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetProjectRoles returns the role names of a project mapped to their ids.
func (c *Client) GetProjectRoles(ctx context.Context, projectKey string) (map[string]int64, error) {
	var links map[string]string
	err := c.do(ctx, call{
		op:       "list project roles",
		resource: "project " + projectKey,
		method:   http.MethodGet,
		path:     "/project/" + url.PathEscape(projectKey) + "/role",
	}, &links)
	if err != nil {
		return nil, err
	}

	roles := make(map[string]int64, len(links))
	for name, link := range links {
		idx := strings.LastIndex(link, "/")
		id, convErr := strconv.ParseInt(link[idx+1:], 10, 64)
		if convErr != nil {
			log.Warn().Str("role", name).Str("url", link).Msg("Skipping project role with unparseable id")
			continue
		}
		roles[name] = id
	}
	return roles, nil
}

// GetProjectRole fetches a project role with its actors.
func (c *Client) GetProjectRole(ctx context.Context, projectKey string, roleID int64) (*ProjectRole, error) {
	var role ProjectRole
	err := c.do(ctx, call{
		op:       "get project role",
		resource: "project " + projectKey,
		method:   http.MethodGet,
		path:     "/project/" + url.PathEscape(projectKey) + "/role/" + strconv.FormatInt(roleID, 10),
	}, &role)
	if err != nil {
		return nil, err
	}
	return &role, nil
}
