package tools

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/karolswdev/jira-mcp-server/internal/adf"
	"github.com/karolswdev/jira-mcp-server/internal/credentials"
	"github.com/karolswdev/jira-mcp-server/internal/failure"
)

// Auth holds the optional per-call credential overrides every tool accepts.
type Auth struct {
	JiraHost string `mapstructure:"jiraHost"`
	Email    string `mapstructure:"email"`
	APIToken string `mapstructure:"apiToken"`
}

func (a Auth) input() credentials.Input {
	return credentials.Input{Host: a.JiraHost, Email: a.Email, Token: a.APIToken}
}

// authOptions declares the credential override parameters.
func authOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("jiraHost", mcp.Description("Jira site, e.g. your-domain.atlassian.net. Defaults to the server configuration.")),
		mcp.WithString("email", mcp.Description("Atlassian account email. Defaults to the server configuration.")),
		mcp.WithString("apiToken", mcp.Description("Atlassian API token. Defaults to the server configuration.")),
	}
}

// stringOrObject declares a parameter that accepts a string or an object.
func stringOrObject() mcp.PropertyOption {
	return func(schema map[string]any) {
		delete(schema, "type")
		schema["oneOf"] = []any{
			map[string]any{"type": "string"},
			map[string]any{"type": "object"},
		}
	}
}

var issueKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*-[1-9][0-9]*$`)

var projectKeyPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Bounds for maxResults arguments.
const (
	minResults = 1
	maxResults = 100
)

// problems collects validation failures so all of them are reported at once.
type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

func (p problems) err() error {
	if len(p) == 0 {
		return nil
	}
	return failure.Validation(p...)
}

// decodeArgs decodes the argument bag into out. Type mismatches are returned
// as problems; unknown keys are ignored.
func decodeArgs(args map[string]any, out any) problems {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "mapstructure",
		DecodeHook: mapstructure.DecodeHookFuncType(wholeNumbers),
	})
	if err != nil {
		return problems{err.Error()}
	}
	if err := dec.Decode(args); err != nil {
		return flattenErrors(err)
	}
	return nil
}

// wholeNumbers rejects fractional JSON numbers bound to integer fields, which
// mapstructure would otherwise truncate.
func wholeNumbers(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.Pointer {
		to = to.Elem()
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	if f, ok := data.(float64); ok && f != math.Trunc(f) {
		return nil, fmt.Errorf("expected a whole number, got %v", f)
	}
	return data, nil
}

func flattenErrors(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

// present reports whether name was supplied with a string value. Wrongly
// typed values are already reported by decodeArgs.
func present(args map[string]any, name string) (isString bool, supplied bool) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return false, false
	}
	_, isString = raw.(string)
	return isString, true
}

func (p *problems) requireString(args map[string]any, name, value string) {
	isString, supplied := present(args, name)
	if supplied && !isString {
		return
	}
	if strings.TrimSpace(value) == "" {
		p.addf("%s is required", name)
	}
}

func (p *problems) requireIssueKey(args map[string]any, value string) {
	p.requireString(args, "issueKey", value)
	if value != "" && !issueKeyPattern.MatchString(value) {
		p.addf("issueKey %q is not a valid issue key (expected e.g. PROJ-123)", value)
	}
}

func (p *problems) requireProjectKey(args map[string]any, name, value string) {
	p.requireString(args, name, value)
	p.checkProjectKey(name, value)
}

func (p *problems) checkProjectKey(name, value string) {
	if value != "" && !projectKeyPattern.MatchString(value) {
		p.addf("%s %q is not a valid project key", name, value)
	}
}

// limit validates an optional maxResults and applies the default.
func (p *problems) limit(value *int, def int) int {
	if value == nil {
		return def
	}
	if *value < minResults || *value > maxResults {
		p.addf("maxResults must be between %d and %d, got %d", minResults, maxResults, *value)
		return def
	}
	return *value
}

// description validates an optional description. Objects are accepted here
// and normalized to ADF later; anything else is rejected.
func (p *problems) description(value any) {
	switch v := value.(type) {
	case nil, string:
	case map[string]any:
		if !adf.IsValidDocument(v) {
			p.addf("description object must be an ADF document (type \"doc\", version 1, content array)")
		}
	default:
		p.addf("description must be a string or an ADF document object, got %T", v)
	}
}
