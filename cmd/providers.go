package cmd

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/karolswdev/jira-mcp-server/internal/config"
	"github.com/karolswdev/jira-mcp-server/internal/credentials"
	"github.com/karolswdev/jira-mcp-server/internal/draft"
	"github.com/karolswdev/jira-mcp-server/internal/jira"
	"github.com/karolswdev/jira-mcp-server/internal/llm"
	"github.com/karolswdev/jira-mcp-server/internal/tools"
)

// --- Concrete Implementations of Shared Interfaces ---

// DefaultConfigProvider implements ConfigProvider with the config package.
// BaseDir overrides the configuration directory when set.
type DefaultConfigProvider struct {
	BaseDir string
}

func (p *DefaultConfigProvider) LoadConfig() (*config.AppConfig, error) {
	return config.LoadConfig(p.BaseDir)
}

func (p *DefaultConfigProvider) LoadLinks() (config.LinksConfig, error) {
	return config.LoadLinks(p.BaseDir)
}

func (p *DefaultConfigProvider) LoadSystemPrompt() (string, error) {
	return config.LoadSystemPrompt(p.BaseDir)
}

func (p *DefaultConfigProvider) LoadContext() (string, error) {
	return config.LoadContext(p.BaseDir)
}

// CreateDefaultConfigFiles writes the default files and returns the directory.
func (p *DefaultConfigProvider) CreateDefaultConfigFiles() (string, error) {
	return config.CreateDefaultConfigFiles(p.BaseDir)
}

// EnsureConfigDir returns the configuration directory, creating it if needed.
func (p *DefaultConfigProvider) EnsureConfigDir() (string, error) {
	return config.EnsureConfigDir(p.BaseDir)
}

// defaultKeyringClient implements KeyringClient with the OS keyring.
type defaultKeyringClient struct{}

func (k *defaultKeyringClient) Set(account, secret string) error {
	return config.SetSecret(account, secret)
}

func (k *defaultKeyringClient) Get(account, envVar string) (string, error) {
	return config.GetSecret(account, envVar)
}

// --- Central Provider ---

// Provider is the dependency container shared by the commands. The Jira
// credential defaults are held behind an atomic pointer so a configuration
// reload can swap them while tool calls are running.
type Provider struct {
	Config  ConfigProvider
	Keyring KeyringClient
	LLM     llm.Client // nil when no provider is configured

	settings atomic.Pointer[config.AppConfig]
}

// GetProvider loads the configuration and builds the Provider. A missing or
// unusable LLM setup is logged and leaves LLM nil; only commands that draft
// issues need it.
func GetProvider() (*Provider, error) {
	return newProvider(&DefaultConfigProvider{BaseDir: configDir}, &defaultKeyringClient{})
}

func newProvider(cfgProvider ConfigProvider, keyringClient KeyringClient) (*Provider, error) {
	appCfg, err := cfgProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load application config: %w", err)
	}

	p := &Provider{Config: cfgProvider, Keyring: keyringClient}
	p.SetConfig(appCfg)

	switch appCfg.LLM.Provider {
	case "":
		Log.Debug().Msg("No LLM provider configured. Drafting is disabled.")
	case "openai":
		apiKey, keyErr := keyringClient.Get(config.LLMKeyAccount, config.EnvLLMAPIKey)
		if keyErr != nil {
			Log.Warn().Err(keyErr).Msg("OpenAI provider selected but the API key is not available. Drafting is disabled.")
			break
		}
		client, clientErr := llm.NewOpenAIClientFromKey(apiKey, appCfg.LLM.OpenAI.BaseURL, appCfg.LLM.OpenAI.ModelName)
		if clientErr != nil {
			Log.Warn().Err(clientErr).Msg("Failed to initialize OpenAI client. Drafting is disabled.")
			break
		}
		p.LLM = client
	default:
		Log.Warn().Str("provider", appCfg.LLM.Provider).Msg("Unsupported LLM provider specified in config. Drafting is disabled.")
	}

	Log.Debug().Msg("Service Provider initialized successfully.")
	return p, nil
}

// SetConfig installs cfg, letting a keyring token override the configured one.
// Keyring failures are logged and leave the configured token in place.
func (p *Provider) SetConfig(cfg *config.AppConfig) {
	if p.Keyring != nil {
		token, err := p.Keyring.Get(config.JiraTokenAccount, "")
		switch {
		case err == nil && token != "":
			cfg.Jira.APIToken = token
		case err != nil && !errors.Is(err, config.ErrSecretNotFound):
			Log.Warn().Err(err).Msg("Could not read Jira API token from keyring")
		}
	}
	p.settings.Store(cfg)
}

// AppConfig returns the current configuration snapshot.
func (p *Provider) AppConfig() *config.AppConfig {
	return p.settings.Load()
}

func (p *Provider) credentialDefaults() credentials.Defaults {
	return p.AppConfig().CredentialDefaults()
}

func (p *Provider) clientFactory() tools.ClientFactory {
	httpCfg := p.AppConfig().HTTP
	return tools.NewClientFactory(jira.Settings{
		Timeout:           httpCfg.Timeout(),
		RequestsPerSecond: httpCfg.RequestsPerSecond,
		Burst:             httpCfg.Burst,
	})
}

// Toolset builds the MCP toolset. draft_issue is enabled when an LLM client
// is available.
func (p *Provider) Toolset() *tools.Toolset {
	ts := &tools.Toolset{
		Defaults:  p.credentialDefaults,
		NewClient: p.clientFactory(),
	}
	if p.LLM != nil {
		ts.Drafter = p.Drafter()
	}
	return ts
}

// Drafter returns a drafter that reads its inputs through the ConfigProvider
// on every draft.
func (p *Provider) Drafter() *draft.Drafter {
	return &draft.Drafter{LLM: p.LLM, Inputs: p.draftInputs}
}

func (p *Provider) draftInputs() (draft.Inputs, error) {
	links, err := p.Config.LoadLinks()
	if err != nil {
		return draft.Inputs{}, fmt.Errorf("%w: %w", draft.ErrInputsLoad, err)
	}
	prompt, err := p.Config.LoadSystemPrompt()
	if err != nil {
		return draft.Inputs{}, fmt.Errorf("%w: %w", draft.ErrInputsLoad, err)
	}
	contextContent, err := p.Config.LoadContext()
	if err != nil {
		return draft.Inputs{}, fmt.Errorf("%w: %w", draft.ErrInputsLoad, err)
	}
	return draft.Inputs{Links: links, SystemPrompt: prompt, Context: contextContent}, nil
}

// JiraClient connects to Jira with the configured credentials.
func (p *Provider) JiraClient() (tools.Jira, error) {
	creds, err := credentials.Resolve(credentials.Input{}, p.credentialDefaults())
	if err != nil {
		return nil, err
	}
	return p.clientFactory()(creds)
}
