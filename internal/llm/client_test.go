package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIClient(t *testing.T) {
	t.Run("Nil_OpenAI_Client", func(t *testing.T) {
		_, err := NewOpenAIClient(nil, "test-model")
		assert.ErrorIs(t, err, ErrLLMClientNil)
	})

	t.Run("Empty_ModelName_Defaults", func(t *testing.T) {
		llmClient, err := NewOpenAIClient(openai.NewClient("dummy-key"), "")
		require.NoError(t, err)
		assert.Equal(t, openai.GPT4o, llmClient.modelName)
	})

	t.Run("From_Key", func(t *testing.T) {
		_, err := NewOpenAIClientFromKey("", "", "m")
		assert.ErrorIs(t, err, ErrLLMAPIKeyMissing)

		llmClient, err := NewOpenAIClientFromKey("key", "http://localhost:1234/v1", "m")
		require.NoError(t, err)
		assert.Equal(t, "m", llmClient.modelName)
	})
}

func completion(content string) string {
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o",
		"choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, content)
}

func TestOpenAIClient_DraftIssue(t *testing.T) {
	testCases := []struct {
		name           string
		userInput      string
		mockResponse   string
		mockStatusCode int
		expected       Draft
		expectedErr    error
		expectedErrMsg string
	}{
		{
			name:           "Successful_Draft",
			userInput:      "Create a task for refactoring the auth module.",
			mockResponse:   completion(`{"summary":"Refactor auth module","description":"Legacy code.","project_name_suggestion":"Backend","issue_type":"Task"}`),
			mockStatusCode: http.StatusOK,
			expected:       Draft{Summary: "Refactor auth module", Description: "Legacy code.", ProjectNameSuggestion: "Backend", IssueType: "Task"},
		},
		{
			name:           "API_Error_Response",
			userInput:      "Another prompt",
			mockResponse:   `{"error":{"message":"Invalid API key.","type":"invalid_request_error","code":"invalid_api_key"}}`,
			mockStatusCode: http.StatusUnauthorized,
			expectedErr:    ErrLLMCompletion,
		},
		{
			name:           "Empty_Choices",
			userInput:      "Prompt",
			mockResponse:   `{"id":"chatcmpl-2","object":"chat.completion","created":1,"model":"gpt-4o","choices":[]}`,
			mockStatusCode: http.StatusOK,
			expectedErr:    ErrLLMEmptyResponse,
		},
		{
			name:           "Malformed_JSON",
			userInput:      "Create task",
			mockResponse:   completion(`{ "summary": "Test", "description": "Missing quote }`),
			mockStatusCode: http.StatusOK,
			expectedErr:    ErrLLMResponseJSONUnmarshal,
		},
		{
			name:           "Missing_Summary",
			userInput:      "Create task",
			mockResponse:   completion(`{"description":"Only description"}`),
			mockStatusCode: http.StatusOK,
			expectedErr:    ErrLLMResponseMissingField,
			expectedErrMsg: "summary",
		},
		{
			name:        "Empty_Input",
			userInput:   "",
			expectedErr: ErrLLMPromptEmpty,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/chat/completions" {
					http.Error(w, "Not Found", http.StatusNotFound)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.mockStatusCode)
				fmt.Fprintln(w, tc.mockResponse)
			}))
			defer server.Close()

			config := openai.DefaultConfig("dummy-api-key")
			config.BaseURL = server.URL + "/v1"
			llmClient, err := NewOpenAIClient(openai.NewClientWithConfig(config), "test-model")
			require.NoError(t, err)

			draft, err := llmClient.DraftIssue(context.Background(), tc.userInput, "You are a Jira bot.", "")
			if tc.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.expectedErr)
				if tc.expectedErrMsg != "" {
					assert.Contains(t, err.Error(), tc.expectedErrMsg)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, draft)
		})
	}
}
