package llm

import "errors"

// Sentinel errors for LLM client and parsing operations.

// ErrLLMClientNil indicates the underlying OpenAI client was nil when used.
var ErrLLMClientNil = errors.New("LLM client cannot be nil")

// ErrLLMAPIKeyMissing indicates no API key was configured for the LLM provider.
var ErrLLMAPIKeyMissing = errors.New("LLM API key is not configured")

// ErrLLMPromptEmpty indicates the drafting request was empty.
var ErrLLMPromptEmpty = errors.New("prompt cannot be empty")

// ErrLLMCompletion indicates the completion call failed. The SDK error is wrapped.
var ErrLLMCompletion = errors.New("failed to create LLM completion")

// ErrLLMEmptyResponse indicates the LLM returned no choices.
var ErrLLMEmptyResponse = errors.New("received an empty response from LLM")

// ErrLLMResponseJSONFind indicates no JSON object could be found in the LLM response.
var ErrLLMResponseJSONFind = errors.New("failed to find JSON object in LLM response")

// ErrLLMResponseJSONUnmarshal indicates the JSON in the LLM response could not be decoded.
var ErrLLMResponseJSONUnmarshal = errors.New("failed to unmarshal LLM response JSON")

// ErrLLMResponseMissingField indicates a required field was absent from the draft.
// The field name follows in the wrapping message.
var ErrLLMResponseMissingField = errors.New("LLM draft is missing a required field")
