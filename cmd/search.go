package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/karolswdev/jira-mcp-server/internal/config"
	"github.com/karolswdev/jira-mcp-server/internal/failure"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
)

// Sentinel errors for the search command.
var (
	// ErrNoJQL indicates no query was given as arguments or --jql.
	ErrNoJQL = errors.New("no JQL query provided")
	// ErrMaxResultsRange indicates --max-results is outside 1..100.
	ErrMaxResultsRange = errors.New("max-results must be between 1 and 100")
)

// searchRunE holds the logic for the search command, accepting dependencies.
func searchRunE(searcher IssueSearcher, out io.Writer, cmd *cobra.Command, args []string) error {
	jqlFlag, _ := cmd.Flags().GetString("jql")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	outputFormat, _ := cmd.Flags().GetString("output")
	outputFieldsStr, _ := cmd.Flags().GetString("output-fields")

	var jqlQuery string
	switch {
	case jqlFlag != "":
		jqlQuery = jqlFlag
	case len(args) > 0:
		jqlQuery = strings.Join(args, " ")
	default:
		log.Error().Err(ErrNoJQL).Msg("JQL query missing")
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: No JQL query provided.")
		fmt.Fprintln(cmd.ErrOrStderr(), "Please provide the query as arguments or use the --jql flag.")
		return ErrNoJQL
	}
	if maxResults < 1 || maxResults > 100 {
		return fmt.Errorf("%w: got %d", ErrMaxResultsRange, maxResults)
	}

	request := jira.SearchRequest{
		JQL:        jqlQuery,
		MaxResults: maxResults,
		Fields:     []string{"summary", "status", "issuetype", "assignee", "priority", "labels", "created", "updated"},
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := searcher.SearchIssues(ctx, request)
	if err != nil {
		log.Error().Err(err).Msg("Failed to search issues")
		fmt.Fprint(cmd.ErrOrStderr(), failure.Render(failure.Classify(err)))
		return err
	}

	// Parse fields only if the flag string is not empty
	var fields []string
	if outputFieldsStr != "" {
		for _, field := range strings.Split(outputFieldsStr, ",") {
			if trimmedField := strings.TrimSpace(field); trimmedField != "" {
				fields = append(fields, trimmedField)
			}
		}
	}

	switch outputFormat {
	case "json":
		var outputData any = resp
		if len(fields) > 0 {
			outputData = filterIssues(resp.Issues, fields)
		}
		jsonData, err := json.MarshalIndent(outputData, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal search results to JSON")
			return fmt.Errorf("failed to format search results as JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonData))

	case "yaml":
		var outputData any = resp.Issues
		if len(fields) > 0 {
			outputData = filterIssues(resp.Issues, fields)
		}
		yamlData, err := yaml.Marshal(outputData)
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal search results to YAML")
			return fmt.Errorf("failed to format search results as YAML: %w", err)
		}
		fmt.Fprint(out, string(yamlData))

	case "tsv":
		if len(resp.Issues) == 0 {
			log.Info().Msg("No issues found matching the query.")
			fmt.Fprintln(out, "No issues found.")
			return nil
		}
		tsvFields := fields
		if len(tsvFields) == 0 {
			if outputFieldsStr != "" {
				log.Warn().Str("flag_value", outputFieldsStr).Msg("Invalid value for --output-fields, using default TSV fields.")
			}
			tsvFields = defaultTSVFields
		}

		fmt.Fprintln(out, strings.Join(tsvFields, "\t"))
		for _, issue := range resp.Issues {
			values := make([]string, 0, len(tsvFields))
			for _, fieldPath := range tsvFields {
				var formattedValue string
				if value, found := getValueByPath(issue, fieldPath); found && value != nil {
					formattedValue = tsvSanitizer.Replace(fmt.Sprintf("%v", value))
				}
				values = append(values, formattedValue)
			}
			fmt.Fprintln(out, strings.Join(values, "\t"))
		}

	default:
		if len(resp.Issues) == 0 {
			log.Info().Msg("No issues found matching the query.")
			fmt.Fprintln(out, "No issues found.")
			return nil
		}
		log.Info().Int("count", len(resp.Issues)).Msg("Found issues")
		fmt.Fprintf(out, "Found %d issues:\n", len(resp.Issues))
		for _, issue := range resp.Issues {
			fmt.Fprintf(out, "- %s - %s - %s\n", issue.Key, issue.Fields.Status.Name, issue.Fields.Summary)
		}
		if !resp.IsLast && resp.NextPageToken != "" {
			fmt.Fprintln(out, "(more results available; raise --max-results or narrow the query)")
		}
	}

	return nil
}

var defaultTSVFields = []string{"key", "fields.summary", "fields.status.name", "fields.issuetype.name"}

var tsvSanitizer = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// getValueByPath resolves a dotted path such as fields.status.name against
// an issue, matching struct fields by name or JSON tag and map keys
// case-insensitively.
func getValueByPath(data any, path string) (any, bool) {
	val, found := getValueRecursive(reflect.ValueOf(data), strings.Split(path, "."))
	if !found || !val.IsValid() || !val.CanInterface() {
		return nil, false
	}
	return val.Interface(), true
}

func getValueRecursive(current reflect.Value, pathParts []string) (reflect.Value, bool) {
	if len(pathParts) == 0 {
		return current, true
	}
	part := pathParts[0]
	remainingParts := pathParts[1:]

	for current.Kind() == reflect.Ptr || current.Kind() == reflect.Interface {
		if current.IsNil() {
			return reflect.Value{}, false
		}
		current = current.Elem()
	}

	switch current.Kind() {
	case reflect.Struct:
		t := current.Type()
		for i := 0; i < current.NumField(); i++ {
			structField := t.Field(i)
			if !structField.IsExported() {
				continue
			}
			jsonTag := structField.Tag.Get("json")
			if jsonTag == "-" {
				continue
			}
			tagName, _, _ := strings.Cut(jsonTag, ",")
			if tagName == part || strings.EqualFold(structField.Name, part) {
				return getValueRecursive(current.Field(i), remainingParts)
			}
		}
		return reflect.Value{}, false

	case reflect.Map:
		if current.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		mapValue := current.MapIndex(reflect.ValueOf(part).Convert(current.Type().Key()))
		if !mapValue.IsValid() {
			iter := current.MapRange()
			for iter.Next() {
				if strings.EqualFold(iter.Key().String(), part) {
					mapValue = iter.Value()
					break
				}
			}
		}
		if !mapValue.IsValid() {
			return reflect.Value{}, false
		}
		return getValueRecursive(mapValue, remainingParts)

	default:
		return reflect.Value{}, false
	}
}

// filterIssues keeps only the requested field paths of each issue. Missing
// paths are included as null.
func filterIssues(issues []jira.Issue, fields []string) []map[string]any {
	filtered := make([]map[string]any, 0, len(issues))
	for _, issue := range issues {
		result := make(map[string]any, len(fields))
		for _, fieldPath := range fields {
			value, _ := getValueByPath(issue, fieldPath)
			result[fieldPath] = value
		}
		filtered = append(filtered, result)
	}
	return filtered
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [JQL Query]",
	Short: "Search for Jira issues using JQL",
	Long: `Searches Jira directly with a JQL query using the configured credentials.
You can provide the JQL query directly as arguments or use the --jql flag.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load configuration for search command setup")
			if errors.Is(err, config.ErrConfigRead) || errors.Is(err, config.ErrConfigParse) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error reading or parsing config.yaml. Please check its format and permissions.")
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "You might need to run '%s config init'.\n", appName)
			return err
		}

		client, err := provider.JiraClient()
		if err != nil {
			fmt.Fprint(cmd.ErrOrStderr(), failure.Render(failure.Classify(err)))
			return err
		}
		return searchRunE(client, cmd.OutOrStdout(), cmd, args)
	},
}

func init() {
	searchCmd.Flags().String("jql", "", "JQL query string")
	searchCmd.Flags().Int("max-results", 20, "Maximum number of results to return (1-100)")
	searchCmd.Flags().StringP("output", "o", "text", "Output format (text|json|yaml|tsv)")
	searchCmd.Flags().StringP("output-fields", "f", "", "Comma-separated fields to include in JSON/YAML/TSV output (e.g., key,fields.summary,fields.status.name)")

	rootCmd.AddCommand(searchCmd)
}
