package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ProjectLink maps a user-friendly project alias to a Jira project key.
type ProjectLink struct {
	Name             string `yaml:"name"`
	Key              string `yaml:"key"`
	DefaultIssueType string `yaml:"default_issue_type,omitempty"`
}

// LinksConfig holds the list of project links.
type LinksConfig struct {
	Projects []ProjectLink `yaml:"projects"`
}

// LoadLinks loads links.yaml from the configuration directory. A missing file
// yields an empty LinksConfig.
func LoadLinks(baseDir string) (LinksConfig, error) {
	cfg := LinksConfig{Projects: []ProjectLink{}}

	fileBytes, found, err := readConfigFile(baseDir, DefaultLinksFileName)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrLinksRead, err)
	}
	if !found {
		return cfg, nil
	}

	if err := yaml.Unmarshal(fileBytes, &cfg); err != nil {
		log.Error().Err(err).Str("file", DefaultLinksFileName).Msg("Failed to parse links file")
		return cfg, fmt.Errorf("%w: %w", ErrLinksParse, err)
	}
	if cfg.Projects == nil {
		cfg.Projects = []ProjectLink{}
	}
	return cfg, nil
}

// LoadSystemPrompt loads system_prompt.txt. A missing file yields "".
func LoadSystemPrompt(baseDir string) (string, error) {
	fileBytes, _, err := readConfigFile(baseDir, DefaultPromptFileName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSystemPromptRead, err)
	}
	return string(fileBytes), nil
}

// LoadContext loads context.md. A missing file yields "".
func LoadContext(baseDir string) (string, error) {
	fileBytes, _, err := readConfigFile(baseDir, DefaultContextFileName)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContextRead, err)
	}
	return string(fileBytes), nil
}

// readConfigFile reads name from the configuration directory. found is false
// when the file does not exist.
func readConfigFile(baseDir, name string) (content []byte, found bool, err error) {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return nil, false, err
	}
	path := filepath.Join(configDir, name)
	content, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("Optional config file not found")
			return nil, false, nil
		}
		log.Error().Err(err).Str("path", path).Msg("Failed to read config file")
		return nil, false, err
	}
	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("Read config file")
	return content, true, nil
}

const defaultConfigYAML = `# Configuration for the Jira MCP server (jira-mcp)
# Located at ~/.jira-mcp/config.yaml

# Defaults used when a tool call does not pass jiraHost, email or apiToken.
# JIRA_HOST, JIRA_EMAIL and JIRA_API_TOKEN override these. Prefer
# 'jira-mcp config set-token' over storing the token here.
jira:
  host: "" # e.g. your-domain.atlassian.net
  email: ""
  # api_token: ""

# Jira HTTP client settings.
http:
  timeout_seconds: 30
  requests_per_second: 10 # 0 disables client-side pacing
  burst: 5

# How 'jira-mcp serve' exposes the tools: "stdio" or "http".
server:
  transport: "stdio"
  addr: ":8080"

# Optional language model for the draft_issue tool. Leave provider empty to
# disable drafting.
llm:
  provider: ""
  openai:
    model_name: "gpt-4o"
    # base_url: ""
`

const defaultLinksYAML = `# ~/.jira-mcp/links.yaml
# Maps project aliases used in draft requests to Jira project keys, with an
# optional default issue type per project.
projects:
  - name: "My Project Alias" # matched case-insensitively
    key: "PROJ"
    default_issue_type: "Task"
  - name: "Backend Team"
    key: "BE"
`

const defaultSystemPromptTXT = `You are an expert assistant specialized in writing Jira issues from user requests.
Process the user's request and any additional context, and produce a single well-formed Jira issue.

Output ONLY a JSON object with these fields:
- "summary": a concise, informative one-line summary.
- "description": a detailed description, with acceptance criteria where it helps.
- "project_name_suggestion": the project the issue belongs to, matching an alias from links.yaml when possible.
- "issue_type": the issue type, e.g. "Task", "Bug" or "Story".

Do not include any text outside the JSON object.
`

const defaultContextMD = `# Context for Jira issue drafting
# ------------------------------
# Optional, persistent context passed to the language model by draft_issue.

## Current Focus / Active Projects
# - Example: finishing the "User Authentication" epic (PROJ-123).

## Key Technologies / Components
# - Example: Go services, PostgreSQL, React frontend.

## Common Acronyms / Jargon
# - Example: SSO: Single Sign-On.
`

// writeFileIfNotExists writes content to filePath unless the file already exists.
func writeFileIfNotExists(filePath string, content string, perm os.FileMode) error {
	_, err := os.Stat(filePath)
	if err == nil {
		log.Debug().Str("path", filePath).Msg("File already exists, no action needed")
		return nil
	}
	if !os.IsNotExist(err) {
		log.Error().Err(err).Str("path", filePath).Msg("Failed to stat file path")
		return fmt.Errorf("%w: %w", ErrDefaultFileStat, err)
	}
	if err := os.WriteFile(filePath, []byte(content), perm); err != nil {
		log.Error().Err(err).Str("path", filePath).Msg("Failed to write default file content")
		return fmt.Errorf("%w: %w", ErrDefaultFileWrite, err)
	}
	log.Info().Str("path", filePath).Msg("Wrote default file")
	return nil
}

// CreateDefaultConfigFiles writes config.yaml, links.yaml, system_prompt.txt
// and context.md into the configuration directory, leaving existing files
// untouched. It returns the directory used.
func CreateDefaultConfigFiles(baseDir string) (string, error) {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to ensure config directory: %w", err)
	}

	filesToCreate := []struct {
		name    string
		content string
		perm    os.FileMode
	}{
		{DefaultConfigFileName, defaultConfigYAML, 0600},
		{DefaultLinksFileName, defaultLinksYAML, 0600},
		{DefaultPromptFileName, defaultSystemPromptTXT, 0644},
		{DefaultContextFileName, defaultContextMD, 0644},
	}
	for _, file := range filesToCreate {
		if err := writeFileIfNotExists(filepath.Join(configDir, file.name), file.content, file.perm); err != nil {
			return "", err
		}
	}
	return configDir, nil
}
