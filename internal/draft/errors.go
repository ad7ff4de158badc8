package draft

import "errors"

// ErrLLMUnavailable indicates drafting was requested without a configured model.
var ErrLLMUnavailable = errors.New("no language model is configured for drafting")

// ErrProjectMappingFailed indicates a project suggestion matched no link in links.yaml.
var ErrProjectMappingFailed = errors.New("could not map project name suggestion to a known project key")

// ErrInputsLoad indicates links.yaml, the system prompt or the context could not be loaded.
var ErrInputsLoad = errors.New("failed to load drafting inputs")
