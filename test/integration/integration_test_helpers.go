//go:build integration

package integration

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/karolswdev/jira-mcp-server/cmd"
	"github.com/karolswdev/jira-mcp-server/internal/config"
)

// mockServer starts an httptest server closed at the end of the test.
func mockServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// setupTestEnvironment writes a config.yaml pointing at the mock Jira (and
// the mock LLM when llmURL is set) into a temporary directory and returns it.
// The OS keyring is replaced with an in-memory one.
func setupTestEnvironment(t *testing.T, jiraURL, llmURL string) string {
	t.Helper()
	keyring.MockInit()
	for _, env := range []string{config.EnvJiraHost, config.EnvJiraEmail, config.EnvJiraToken, config.EnvLLMAPIKey} {
		t.Setenv(env, "")
	}

	provider := ""
	if llmURL != "" {
		provider = "openai"
	}
	configContent := fmt.Sprintf(`
jira:
  host: %q
  email: "dev@example.com"
  api_token: "file-token"
http:
  timeout_seconds: 5
  requests_per_second: 0
llm:
  provider: %q
  openai:
    model_name: "test-model"
    base_url: %q
`, jiraURL, provider, llmURL)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFileName), []byte(configContent), 0600))
	return dir
}

// executeCommand runs the jira-mcp root command in-process against the
// configuration in dir and captures its output.
func executeCommand(t *testing.T, dir string, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	originalLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	var outBuf, errBuf bytes.Buffer
	rootCmd := cmd.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(append([]string{"--config-dir", dir, "--log-level", "warn"}, args...))

	err = rootCmd.ExecuteContext(context.Background())
	return outBuf.String(), errBuf.String(), err
}
