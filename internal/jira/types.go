package jira

import (
	"github.com/karolswdev/jira-mcp-server/internal/adf"
)

// User is a Jira account as returned by the user search endpoint.
type User struct {
	AccountID    string `json:"accountId" yaml:"accountId"`
	AccountType  string `json:"accountType,omitempty" yaml:"accountType,omitempty"`
	DisplayName  string `json:"displayName" yaml:"displayName"`
	EmailAddress string `json:"emailAddress,omitempty" yaml:"emailAddress,omitempty"`
	Active       bool   `json:"active" yaml:"active"`
}

// AccountRef identifies a user in write payloads.
type AccountRef struct {
	AccountID string `json:"accountId"`
}

// Issue is the read-only snapshot of a Jira issue.
type Issue struct {
	ID     string      `json:"id" yaml:"id"`
	Key    string      `json:"key" yaml:"key"`
	Self   string      `json:"self" yaml:"self"`
	Fields IssueFields `json:"fields" yaml:"fields"`
}

// IssueFields holds the issue fields the tools read.
type IssueFields struct {
	Summary     string        `json:"summary" yaml:"summary"`
	Description *adf.Document `json:"description,omitempty" yaml:"description,omitempty"`
	Status      Status        `json:"status" yaml:"status"`
	IssueType   IssueType     `json:"issuetype" yaml:"issuetype"`
	Priority    *Priority     `json:"priority,omitempty" yaml:"priority,omitempty"`
	Assignee    *User         `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Reporter    *User         `json:"reporter,omitempty" yaml:"reporter,omitempty"`
	Project     *ProjectRef   `json:"project,omitempty" yaml:"project,omitempty"`
	Labels      []string      `json:"labels,omitempty" yaml:"labels,omitempty"`
	Created     string        `json:"created,omitempty" yaml:"created,omitempty"`
	Updated     string        `json:"updated,omitempty" yaml:"updated,omitempty"`
}

// Status is an issue's workflow status.
type Status struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// IssueType is the issue's type, e.g. Task or Bug.
type IssueType struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// Priority is the issue's priority.
type Priority struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Name string `json:"name" yaml:"name"`
}

// ProjectRef is the project summary embedded in issues.
type ProjectRef struct {
	ID   string `json:"id,omitempty" yaml:"id,omitempty"`
	Key  string `json:"key" yaml:"key"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// Transition is a workflow move currently available for an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   Status `json:"to"`
}

type transitionsResponse struct {
	Transitions []Transition `json:"transitions"`
}

// UpdateFields is the sparse field document sent with PUT /issue/{key}. A nil
// field is left out of the request; a non-nil empty Summary clears it.
type UpdateFields struct {
	Summary     *string       `json:"summary,omitempty"`
	Description *adf.Document `json:"description,omitempty"`
	Assignee    *AccountRef   `json:"assignee,omitempty"`
}

// IsEmpty reports whether no field is set.
func (f UpdateFields) IsEmpty() bool {
	return f.Summary == nil && f.Description == nil && f.Assignee == nil
}

type updateIssueRequest struct {
	Fields UpdateFields `json:"fields"`
}

type transitionRequest struct {
	Transition struct {
		ID string `json:"id"`
	} `json:"transition"`
}

// CreateIssueRequest describes a new issue.
type CreateIssueRequest struct {
	ProjectKey  string
	Summary     string
	Description adf.Document
	IssueType   string
	AssigneeID  string
}

type createFields struct {
	Project     ProjectRef   `json:"project"`
	Summary     string       `json:"summary"`
	Description adf.Document `json:"description"`
	IssueType   IssueType    `json:"issuetype"`
	Assignee    *AccountRef  `json:"assignee,omitempty"`
}

type createIssueBody struct {
	Fields createFields `json:"fields"`
}

// CreatedIssue is returned by POST /issue.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// SearchRequest is a JQL search.
type SearchRequest struct {
	JQL        string
	MaxResults int
	Fields     []string
}

// SearchResponse is a page of JQL search results.
type SearchResponse struct {
	Issues        []Issue `json:"issues" yaml:"issues"`
	NextPageToken string  `json:"nextPageToken,omitempty" yaml:"nextPageToken,omitempty"`
	IsLast        bool    `json:"isLast" yaml:"isLast"`
}

// Project is a Jira project.
type Project struct {
	ID             string `json:"id" yaml:"id"`
	Key            string `json:"key" yaml:"key"`
	Name           string `json:"name" yaml:"name"`
	ProjectTypeKey string `json:"projectTypeKey,omitempty" yaml:"projectTypeKey,omitempty"`
	Lead           *User  `json:"lead,omitempty" yaml:"lead,omitempty"`
}

type projectPage struct {
	Values []Project `json:"values"`
	Total  int       `json:"total"`
	IsLast bool      `json:"isLast"`
}

// RoleActor is a user or group assigned to a project role.
type RoleActor struct {
	ID          int64           `json:"id"`
	DisplayName string          `json:"displayName"`
	Type        string          `json:"type"`
	ActorUser   *RoleActorUser  `json:"actorUser,omitempty"`
	ActorGroup  *RoleActorGroup `json:"actorGroup,omitempty"`
}

// RoleActorUser carries the account of a user actor.
type RoleActorUser struct {
	AccountID string `json:"accountId"`
}

// RoleActorGroup carries the group of a group actor.
type RoleActorGroup struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// ProjectRole is a role with its current actors.
type ProjectRole struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Actors []RoleActor `json:"actors"`
}

// ErrorResponse is the error body Jira returns with non-2xx responses.
type ErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}
