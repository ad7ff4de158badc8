package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/karolswdev/jira-mcp-server/internal/config"
)

// ErrEmptySecret indicates an empty secret was given to a set command.
var ErrEmptySecret = errors.New("secret cannot be empty")

// secretTarget describes one secret the set commands manage.
type secretTarget struct {
	label   string
	account string
}

var (
	jiraTokenTarget = secretTarget{label: "Jira API token", account: config.JiraTokenAccount}
	llmKeyTarget    = secretTarget{label: "LLM API key", account: config.LLMKeyAccount}
)

// configSetSecretRun stores secret in the keyring under target's account.
func configSetSecretRun(kc KeyringClient, writer io.Writer, target secretTarget, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return fmt.Errorf("%w: %s", ErrEmptySecret, target.label)
	}

	log.Info().Str("account", target.account).Msgf("Storing %s in the OS keyring", target.label)
	if err := kc.Set(target.account, secret); err != nil {
		return fmt.Errorf("failed to store %s in keychain: %w", target.label, err)
	}
	fmt.Fprintf(writer, "%s stored successfully.\n", target.label)
	return nil
}

// readSecret returns the argument if given, otherwise the first line of in.
func readSecret(args []string, in io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	return line, nil
}

func newSetSecretCmd(use, short string, target secretTarget) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [secret]",
		Short: short,
		Long: fmt.Sprintf(`Stores the %s in the OS keychain under the service 'jira-mcp'.
Without an argument the secret is read from the first line of stdin, which keeps
it out of shell history.`, target.label),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret, err := readSecret(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return configSetSecretRun(&defaultKeyringClient{}, cmd.OutOrStdout(), target, secret)
		},
	}
}

var (
	setTokenCmd = newSetSecretCmd("set-token", "Store the Jira API token in the OS keychain", jiraTokenTarget)
	setKeyCmd   = newSetSecretCmd("set-key", "Store the LLM API key in the OS keychain", llmKeyTarget)
)

func init() {
	configCmd.AddCommand(setTokenCmd)
	configCmd.AddCommand(setKeyCmd)
}
