// Package llm drafts Jira issues from free-form requests with a chat
// completion model.
package llm

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// Client drafts an issue from a user's request.
type Client interface {
	// DraftIssue sends the request with the system prompt and optional context
	// to the model and returns the parsed draft.
	DraftIssue(ctx context.Context, userInput, systemPrompt, contextContent string) (Draft, error)
}

// OpenAIClient implements Client with the OpenAI chat completion API or any
// endpoint compatible with it.
type OpenAIClient struct {
	client    *openai.Client
	modelName string
}

// NewOpenAIClient wraps a configured go-openai client. An empty modelName
// selects gpt-4o.
func NewOpenAIClient(client *openai.Client, modelName string) (*OpenAIClient, error) {
	if client == nil {
		return nil, ErrLLMClientNil
	}
	if modelName == "" {
		log.Warn().Msg("modelName is empty for OpenAIClient, defaulting to gpt-4o")
		modelName = openai.GPT4o
	}
	return &OpenAIClient{client: client, modelName: modelName}, nil
}

// NewOpenAIClientFromKey builds the go-openai client itself. baseURL is only
// set when non-empty, for OpenAI-compatible gateways.
func NewOpenAIClientFromKey(apiKey, baseURL, modelName string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrLLMAPIKeyMissing
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return NewOpenAIClient(openai.NewClientWithConfig(cfg), modelName)
}

// DraftIssue implements Client.
func (o *OpenAIClient) DraftIssue(ctx context.Context, userInput, systemPrompt, contextContent string) (Draft, error) {
	if o.client == nil {
		return Draft{}, ErrLLMClientNil
	}
	if userInput == "" {
		return Draft{}, ErrLLMPromptEmpty
	}

	fullPrompt := ConstructPrompt(userInput, systemPrompt, contextContent)
	log.Debug().Str("model", o.modelName).Int("prompt_chars", len(fullPrompt)).Msg("Sending draft request to OpenAI")

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: fullPrompt},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("OpenAI API call failed")
		return Draft{}, fmt.Errorf("%w: %w", ErrLLMCompletion, err)
	}
	if len(resp.Choices) == 0 {
		return Draft{}, ErrLLMEmptyResponse
	}

	raw := resp.Choices[0].Message.Content
	log.Debug().Str("raw_response", raw).Msg("Received draft from OpenAI")

	draft, err := ParseDraft(raw)
	if err != nil {
		return Draft{}, err
	}
	log.Info().Str("summary", draft.Summary).Msg("Drafted issue")
	return draft, nil
}
