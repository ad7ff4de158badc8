// Package config loads the server configuration from ~/.jira-mcp (or
// $JIRA_MCP_CONFIG_DIR), the environment and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/karolswdev/jira-mcp-server/internal/credentials"
)

const (
	// DefaultConfigFileName is the standard name for the main configuration file.
	DefaultConfigFileName = "config.yaml"
	// DefaultLinksFileName is the standard name for the project links file.
	DefaultLinksFileName = "links.yaml"
	// DefaultPromptFileName is the standard name for the drafting system prompt.
	DefaultPromptFileName = "system_prompt.txt"
	// DefaultContextFileName is the standard name for the drafting context file.
	DefaultContextFileName = "context.md"
	// DefaultConfigDirName is the configuration directory inside the user's home.
	DefaultConfigDirName = ".jira-mcp"
	// ConfigDirEnvVar overrides the configuration directory.
	ConfigDirEnvVar = "JIRA_MCP_CONFIG_DIR"
	// EnvPrefix is the prefix for environment overrides of config keys,
	// e.g. JIRA_MCP_HTTP_TIMEOUT_SECONDS.
	EnvPrefix = "JIRA_MCP"
)

// Environment variables holding the Jira credential defaults.
const (
	EnvJiraHost  = "JIRA_HOST"
	EnvJiraEmail = "JIRA_EMAIL"
	EnvJiraToken = "JIRA_API_TOKEN"
)

// EnsureConfigDir returns the configuration directory, creating it (0700) when
// missing. baseDir wins over JIRA_MCP_CONFIG_DIR, which wins over ~/.jira-mcp.
func EnsureConfigDir(baseDir string) (string, error) {
	configDirPath := baseDir
	if configDirPath == "" {
		configDirPath = os.Getenv(ConfigDirEnvVar)
	}
	if configDirPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDirPath = filepath.Join(homeDir, DefaultConfigDirName)
	}

	info, err := os.Stat(configDirPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Error().Err(err).Str("path", configDirPath).Msg("Failed to stat config directory path")
			return "", fmt.Errorf("%w: %w", ErrConfigDirStat, err)
		}
		log.Info().Str("path", configDirPath).Msg("Config directory does not exist, attempting to create")
		if mkdirErr := os.MkdirAll(configDirPath, 0700); mkdirErr != nil {
			log.Error().Err(mkdirErr).Str("path", configDirPath).Msg("Failed to create config directory")
			return "", fmt.Errorf("%w: %w", ErrConfigDirCreate, mkdirErr)
		}
		return configDirPath, nil
	}

	if !info.IsDir() {
		log.Error().Str("path", configDirPath).Msg("Config path exists but is not a directory")
		return "", ErrConfigDirNotDir
	}
	log.Debug().Str("path", configDirPath).Msg("Using config directory")
	return configDirPath, nil
}

// JiraConfig holds the credential defaults used when a tool call omits them.
type JiraConfig struct {
	Host     string `mapstructure:"host"`
	Email    string `mapstructure:"email"`
	APIToken string `mapstructure:"api_token"`
}

// HTTPConfig tunes the Jira HTTP client. The request rate is shared by all
// tool calls made through one server.
type HTTPConfig struct {
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// Timeout returns TimeoutSeconds as a duration.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// ServerConfig selects how the tool server is exposed.
type ServerConfig struct {
	Transport string `mapstructure:"transport"` // "stdio" or "http"
	Addr      string `mapstructure:"addr"`
}

// OpenAIConfig holds configuration specific to the OpenAI provider.
type OpenAIConfig struct {
	ModelName string `mapstructure:"model_name"`
	BaseURL   string `mapstructure:"base_url"`
}

// LLMConfig configures the optional drafting model. An empty Provider
// disables the draft_issue tool.
type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

// AppConfig holds the overall application configuration.
type AppConfig struct {
	Jira   JiraConfig   `mapstructure:"jira"`
	HTTP   HTTPConfig   `mapstructure:"http"`
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
}

// CredentialDefaults returns the configured Jira fallbacks.
func (c *AppConfig) CredentialDefaults() credentials.Defaults {
	return credentials.Defaults{Host: c.Jira.Host, Email: c.Jira.Email, Token: c.Jira.APIToken}
}

func newViper(configDir string) *viper.Viper {
	v := viper.New()

	v.SetDefault("jira.host", "")
	v.SetDefault("jira.email", "")
	v.SetDefault("jira.api_token", "")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.requests_per_second", 10)
	v.SetDefault("http.burst", 5)
	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.openai.model_name", "gpt-4o")
	v.SetDefault("llm.openai.base_url", "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The credential defaults also answer to the conventional unprefixed names.
	_ = v.BindEnv("jira.host", EnvPrefix+"_JIRA_HOST", EnvJiraHost)
	_ = v.BindEnv("jira.email", EnvPrefix+"_JIRA_EMAIL", EnvJiraEmail)
	_ = v.BindEnv("jira.api_token", EnvPrefix+"_JIRA_API_TOKEN", EnvJiraToken)
	return v
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	cfg.Jira.Host = strings.TrimSpace(cfg.Jira.Host)
	cfg.Jira.Email = strings.TrimSpace(cfg.Jira.Email)
	cfg.Server.Transport = strings.ToLower(strings.TrimSpace(cfg.Server.Transport))
	return &cfg, nil
}

// LoadConfig reads config.yaml from the configuration directory, applies
// JIRA_MCP_* and JIRA_* environment overrides and fills in defaults. A missing
// config file is not an error.
func LoadConfig(baseDir string) (*AppConfig, error) {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure config directory: %w", err)
	}

	v := newViper(configDir)
	configPath := filepath.Join(configDir, DefaultConfigFileName)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Error().Err(err).Str("path", configPath).Msg("Failed to read config file")
			return nil, fmt.Errorf("%w: %w", ErrConfigRead, err)
		}
		log.Debug().Str("path", configPath).Msg("Config file not found. Using defaults and environment variables.")
	}

	return decode(v)
}

// Watch re-reads config.yaml whenever it changes and passes the new
// configuration to onChange. Reloads that fail to decode are logged and
// skipped. The config file must exist.
func Watch(baseDir string, onChange func(*AppConfig)) error {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}

	v := newViper(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, filepath.Join(configDir, DefaultConfigFileName))
		}
		return fmt.Errorf("%w: %w", ErrConfigRead, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Str("path", e.Name).Str("op", e.Op.String()).Msg("Config file changed, reloading")
		cfg, err := decode(v)
		if err != nil {
			log.Error().Err(err).Msg("Ignoring config reload")
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
