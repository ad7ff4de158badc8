package cmd

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/jira-mcp-server/internal/config"
	"github.com/karolswdev/jira-mcp-server/internal/draft"
)

func TestNewProvider_NoLLM(t *testing.T) {
	Log = zerolog.Nop()
	mockProvider := new(MockConfigProvider)
	mockKeyring := new(MockKeyringClient)
	mockKeyring.On("Get", config.JiraTokenAccount, "").Return("", config.ErrSecretNotFound)

	cfg := testAppConfig()
	cfg.LLM = config.LLMConfig{}
	mockProvider.On("LoadConfig").Return(cfg, nil)

	p, err := newProvider(mockProvider, mockKeyring)

	require.NoError(t, err)
	assert.Nil(t, p.LLM)
	assert.Nil(t, p.Toolset().Drafter)
	assert.Equal(t, "acme.atlassian.net", p.credentialDefaults().Host)
	mockKeyring.AssertNotCalled(t, "Get", config.LLMKeyAccount, config.EnvLLMAPIKey)
}

func TestNewProvider_OpenAI(t *testing.T) {
	Log = zerolog.Nop()
	mockProvider := new(MockConfigProvider)
	mockKeyring := new(MockKeyringClient)
	mockKeyring.On("Get", config.JiraTokenAccount, "").Return("", config.ErrSecretNotFound)

	mockProvider.On("LoadConfig").Return(testAppConfig(), nil)
	mockKeyring.On("Get", config.LLMKeyAccount, config.EnvLLMAPIKey).Return("sk-test", nil)

	p, err := newProvider(mockProvider, mockKeyring)

	require.NoError(t, err)
	assert.NotNil(t, p.LLM)
	assert.NotNil(t, p.Toolset().Drafter)
	mockKeyring.AssertExpectations(t)
}

func TestNewProvider_MissingKeyDisablesDrafting(t *testing.T) {
	Log = zerolog.Nop()
	mockProvider := new(MockConfigProvider)
	mockKeyring := new(MockKeyringClient)
	mockKeyring.On("Get", config.JiraTokenAccount, "").Return("", config.ErrSecretNotFound)

	mockProvider.On("LoadConfig").Return(testAppConfig(), nil)
	mockKeyring.On("Get", config.LLMKeyAccount, config.EnvLLMAPIKey).Return("", config.ErrSecretNotFound)

	p, err := newProvider(mockProvider, mockKeyring)

	require.NoError(t, err)
	assert.Nil(t, p.LLM)
}

func TestNewProvider_ConfigError(t *testing.T) {
	Log = zerolog.Nop()
	mockProvider := new(MockConfigProvider)
	loadErr := errors.New("bad yaml")
	mockProvider.On("LoadConfig").Return((*config.AppConfig)(nil), loadErr)

	mockKeyring := new(MockKeyringClient)

	_, err := newProvider(mockProvider, mockKeyring)

	assert.ErrorIs(t, err, loadErr)
	mockKeyring.AssertNotCalled(t, "Get", config.JiraTokenAccount, "")
}

func TestProvider_SetConfigPrefersKeyringToken(t *testing.T) {
	Log = zerolog.Nop()
	mockKeyring := new(MockKeyringClient)
	mockKeyring.On("Get", config.JiraTokenAccount, "").Return("from-keyring", nil)

	p := &Provider{Keyring: mockKeyring}
	cfg := testAppConfig()
	cfg.Jira.APIToken = "from-file"
	p.SetConfig(cfg)

	assert.Equal(t, "from-keyring", p.credentialDefaults().Token)

	next := testAppConfig()
	next.Jira.Host = "other.atlassian.net"
	p.SetConfig(next)
	assert.Equal(t, "other.atlassian.net", p.AppConfig().Jira.Host)
	assert.Equal(t, "from-keyring", p.credentialDefaults().Token, "a reload reads the keyring again")
	mockKeyring.AssertNumberOfCalls(t, "Get", 2)
}

func TestProvider_SetConfigKeepsTokenWithoutKeyringEntry(t *testing.T) {
	Log = zerolog.Nop()
	testCases := []struct {
		name string
		err  error
	}{
		{"NotFound", config.ErrSecretNotFound},
		{"KeyringFailure", config.ErrKeyringGet},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockKeyring := new(MockKeyringClient)
			mockKeyring.On("Get", config.JiraTokenAccount, "").Return("", tc.err)

			p := &Provider{Keyring: mockKeyring}
			cfg := testAppConfig()
			cfg.Jira.APIToken = "from-file"
			p.SetConfig(cfg)

			assert.Equal(t, "from-file", p.credentialDefaults().Token)
			mockKeyring.AssertExpectations(t)
		})
	}
}

func TestProvider_DraftInputs(t *testing.T) {
	mockProvider := new(MockConfigProvider)
	p := &Provider{Config: mockProvider}

	links := config.LinksConfig{Projects: []config.ProjectLink{{Name: "Web", Key: "WEB"}}}
	mockProvider.On("LoadLinks").Return(links, nil)
	mockProvider.On("LoadSystemPrompt").Return("prompt", nil)
	mockProvider.On("LoadContext").Return("", errors.New("unreadable"))

	_, err := p.draftInputs()
	assert.ErrorIs(t, err, draft.ErrInputsLoad)

	mockProvider.ExpectedCalls = nil
	mockProvider.On("LoadLinks").Return(links, nil)
	mockProvider.On("LoadSystemPrompt").Return("prompt", nil)
	mockProvider.On("LoadContext").Return("ctx", nil)

	in, err := p.draftInputs()
	require.NoError(t, err)
	assert.Equal(t, draft.Inputs{Links: links, SystemPrompt: "prompt", Context: "ctx"}, in)
}
