package jira

import "errors"

// Sentinel errors for Jira client operations. Failures that reach a caller are
// wrapped in a *failure.Error; these identify the underlying cause.

// ErrBaseURLParse indicates the configured Jira host could not be parsed.
var ErrBaseURLParse = errors.New("failed to parse Jira base URL")

// ErrRequestMarshal indicates an error occurred while marshaling the request body.
var ErrRequestMarshal = errors.New("failed to marshal request body")

// ErrRequestCreate indicates an error occurred while creating the HTTP request.
var ErrRequestCreate = errors.New("failed to create HTTP request")

// ErrRateLimitWait indicates the client gave up waiting for a request slot.
var ErrRateLimitWait = errors.New("rate limiter wait aborted")

// ErrRequestExecute indicates an error occurred while executing the HTTP request.
var ErrRequestExecute = errors.New("failed to execute HTTP request")

// ErrResponseRead indicates the response body could not be read.
var ErrResponseRead = errors.New("failed to read response body")

// ErrResponseDecode indicates an error occurred while decoding the response body.
var ErrResponseDecode = errors.New("failed to decode response body")
