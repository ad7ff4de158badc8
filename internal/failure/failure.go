// Package failure defines the closed set of fatal error variants produced by the
// Jira tools and maps any failure onto a user-facing classification.
package failure

import (
	"fmt"
	"strings"
)

// Kind identifies which variant of the taxonomy an Error belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindCredentials
	KindRemote
	KindNetwork
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindCredentials:
		return "credentials"
	case KindRemote:
		return "remote"
	case KindNetwork:
		return "network"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is constructed at the point of failure. Only the fields relevant to
// its Kind are populated.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "update issue".
	Op string
	// Resource names what the operation targeted, e.g. "issue TEST-123".
	Resource string
	// StatusCode is the HTTP status for KindRemote.
	StatusCode int
	// Messages holds validation problems, missing credential fields or the
	// error strings returned by Jira.
	Messages []string
	// Stage names where a KindTransport error happened, e.g. "REQUEST_SETUP".
	Stage string
	// Body is the raw response body for KindRemote.
	Body string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		return "invalid arguments: " + strings.Join(e.Messages, "; ")
	case KindCredentials:
		return "missing Jira credentials: " + strings.Join(e.Messages, ", ")
	case KindRemote:
		msg := fmt.Sprintf("jira returned %d for %s", e.StatusCode, e.Op)
		if e.Resource != "" {
			msg += " (" + e.Resource + ")"
		}
		if len(e.Messages) > 0 {
			msg += ": " + strings.Join(e.Messages, "; ")
		}
		return msg
	case KindNetwork:
		return fmt.Sprintf("no response from jira for %s: %v", e.Op, e.Err)
	case KindTransport:
		return fmt.Sprintf("failed to send %s request (%s): %v", e.Op, e.Stage, e.Err)
	default:
		if e.Err != nil {
			return e.Err.Error()
		}
		return "unknown error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed caller input. Every problem found is listed.
func Validation(problems ...string) *Error {
	return &Error{Kind: KindValidation, Messages: problems}
}

// Credentials reports the credential fields that could not be resolved.
func Credentials(missing ...string) *Error {
	return &Error{Kind: KindCredentials, Messages: missing}
}

// Remote reports a non-2xx response from Jira.
func Remote(op, resource string, status int, messages []string, body string) *Error {
	return &Error{Kind: KindRemote, Op: op, Resource: resource, StatusCode: status, Messages: messages, Body: body}
}

// Network reports a request that was sent but never answered.
func Network(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// Transport reports a request that never left the client.
func Transport(op, stage string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Stage: stage, Err: err}
}
