package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/karolswdev/jira-mcp-server/internal/tools"
)

// toolInfo is the listing shape of one tool.
type toolInfo struct {
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	ReadOnly    bool        `json:"readOnly" yaml:"readOnly"`
	Parameters  []paramInfo `json:"parameters" yaml:"parameters"`
}

type paramInfo struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools the server exposes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, err := GetProvider()
		if err != nil {
			return fmt.Errorf("failed to get service provider: %w", err)
		}
		format, _ := cmd.Flags().GetString("output")
		return toolsRunE(provider.Toolset(), cmd.OutOrStdout(), format)
	},
}

func describeTools(ts *tools.Toolset) []toolInfo {
	var infos []toolInfo
	for _, t := range ts.Tools() {
		def := t.Definition()
		info := toolInfo{Name: def.Name, Description: def.Description}
		if hint := def.Annotations.ReadOnlyHint; hint != nil {
			info.ReadOnly = *hint
		}
		for name, raw := range def.InputSchema.Properties {
			prop, _ := raw.(map[string]any)
			p := paramInfo{Name: name, Required: slices.Contains(def.InputSchema.Required, name)}
			p.Type, _ = prop["type"].(string)
			if p.Type == "" {
				p.Type = "string|object"
			}
			p.Description, _ = prop["description"].(string)
			info.Parameters = append(info.Parameters, p)
		}
		slices.SortFunc(info.Parameters, func(a, b paramInfo) int {
			if a.Required != b.Required {
				if a.Required {
					return -1
				}
				return 1
			}
			return strings.Compare(a.Name, b.Name)
		})
		infos = append(infos, info)
	}
	return infos
}

func toolsRunE(ts *tools.Toolset, out io.Writer, format string) error {
	infos := describeTools(ts)
	switch format {
	case "json":
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format tools as JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(infos)
		if err != nil {
			return fmt.Errorf("failed to format tools as YAML: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		for _, info := range infos {
			fmt.Fprintf(out, "%s\n  %s\n", info.Name, info.Description)
			for _, p := range info.Parameters {
				marker := ""
				if p.Required {
					marker = " (required)"
				}
				fmt.Fprintf(out, "    - %s: %s%s\n", p.Name, p.Type, marker)
			}
		}
	}
	return nil
}

func init() {
	toolsCmd.Flags().StringP("output", "o", "text", "Output format (text|json|yaml)")
	rootCmd.AddCommand(toolsCmd)
}
