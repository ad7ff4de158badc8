// Package credentials resolves the Jira host, email and API token used by a
// single tool invocation.
package credentials

import (
	"encoding/base64"
	"strings"

	"github.com/karolswdev/jira-mcp-server/internal/failure"
)

// Field names reported when a credential cannot be resolved.
const (
	FieldHost  = "host"
	FieldEmail = "email"
	FieldToken = "token"
)

// Defaults are the process-wide fallbacks, typically loaded from config or the
// environment. They are passed in explicitly so Resolve stays pure.
type Defaults struct {
	Host  string
	Email string
	Token string
}

// Input holds the values a caller supplied for one invocation. Empty means
// not supplied.
type Input struct {
	Host  string
	Email string
	Token string
}

// Credentials is a fully resolved triple.
type Credentials struct {
	Host  string
	Email string
	Token string
}

// Resolve prefers each caller value over its default. Whitespace-only values
// count as missing. When anything is missing the returned error names every
// missing field.
func Resolve(in Input, defaults Defaults) (Credentials, error) {
	var missing []string
	pick := func(field, explicit, fallback string) string {
		if v := strings.TrimSpace(explicit); v != "" {
			return v
		}
		if v := strings.TrimSpace(fallback); v != "" {
			return v
		}
		missing = append(missing, field)
		return ""
	}

	creds := Credentials{
		Host:  pick(FieldHost, in.Host, defaults.Host),
		Email: pick(FieldEmail, in.Email, defaults.Email),
		Token: pick(FieldToken, in.Token, defaults.Token),
	}
	if len(missing) > 0 {
		return Credentials{}, failure.Credentials(missing...)
	}
	return creds, nil
}

// AuthHeader returns the Basic authorization header value for c.
func (c Credentials) AuthHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Email+":"+c.Token))
}

// BaseURL returns the host as an absolute URL without a trailing slash. A bare
// host name is assumed to be served over https.
func (c Credentials) BaseURL() string {
	host := strings.TrimRight(c.Host, "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "https://" + host
}
