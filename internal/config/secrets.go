package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/zalando/go-keyring"
)

const keyringServiceName = "jira-mcp"

// Keyring accounts under the jira-mcp service.
const (
	JiraTokenAccount = "jira_api_token"
	LLMKeyAccount    = "openai_api_key"
)

// EnvLLMAPIKey is the environment fallback for the LLM API key.
const EnvLLMAPIKey = "JIRA_MCP_LLM_API_KEY"

// GetSecret reads account from the OS keyring, falling back to the envVar
// environment variable unless envVar is empty. ErrSecretNotFound is returned
// when neither has it.
func GetSecret(account, envVar string) (string, error) {
	secret, err := keyring.Get(keyringServiceName, account)
	if err == nil {
		log.Debug().Str("account", account).Msg("Secret retrieved from keyring")
		return secret, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		log.Error().Err(err).Str("service", keyringServiceName).Str("account", account).Msg("Error reading keyring")
		return "", fmt.Errorf("%w: %w", ErrKeyringGet, err)
	}

	if envVar == "" {
		return "", fmt.Errorf("%w: %s", ErrSecretNotFound, account)
	}
	if secret = os.Getenv(envVar); secret != "" {
		log.Debug().Str("env_var", envVar).Msg("Secret retrieved from environment")
		return secret, nil
	}
	return "", fmt.Errorf("%w: %s (or %s)", ErrSecretNotFound, account, envVar)
}

// SetSecret stores a secret in the OS keyring.
func SetSecret(account, secret string) error {
	if err := keyring.Set(keyringServiceName, account, secret); err != nil {
		log.Error().Err(err).Str("service", keyringServiceName).Str("account", account).Msg("Failed to set secret in keyring")
		return fmt.Errorf("%w: %w", ErrKeyringSet, err)
	}
	log.Info().Str("service", keyringServiceName).Str("account", account).Msg("Secret stored in keyring")
	return nil
}
