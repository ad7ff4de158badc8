package config

import "errors"

// Sentinel errors for configuration loading and processing.

// ErrConfigNotFound indicates the main config file (config.yaml) was not found.
var ErrConfigNotFound = errors.New("configuration file not found")

// ErrConfigRead indicates an error occurred while reading the config file.
var ErrConfigRead = errors.New("failed to read configuration file")

// ErrConfigParse indicates an error occurred while parsing the config file.
var ErrConfigParse = errors.New("failed to parse configuration file")

// ErrLinksRead indicates an error occurred while reading the links file.
var ErrLinksRead = errors.New("failed to read links file")

// ErrLinksParse indicates an error occurred while parsing the links file.
var ErrLinksParse = errors.New("failed to parse links file")

// ErrSystemPromptRead indicates an error occurred while reading the system prompt file.
var ErrSystemPromptRead = errors.New("failed to read system prompt file")

// ErrContextRead indicates an error occurred while reading the context file.
var ErrContextRead = errors.New("failed to read context file")

// ErrConfigDirCreate indicates an error occurred while creating the config directory.
var ErrConfigDirCreate = errors.New("failed to create config directory")

// ErrConfigDirStat indicates an error occurred while checking the config directory.
var ErrConfigDirStat = errors.New("failed to check config directory")

// ErrConfigDirNotDir indicates the config path exists but is not a directory.
var ErrConfigDirNotDir = errors.New("config path exists but is not a directory")

// ErrDefaultFileWrite indicates an error occurred while writing a default config file.
var ErrDefaultFileWrite = errors.New("failed to write default config file")

// ErrDefaultFileStat indicates an error occurred while checking a default config file.
var ErrDefaultFileStat = errors.New("failed to check default config file")

// ErrKeyringSet indicates an error occurred while setting a secret in the OS keyring.
var ErrKeyringSet = errors.New("failed to set secret in OS keyring")

// ErrKeyringGet indicates an error occurred while reading the OS keyring (excluding 'not found').
var ErrKeyringGet = errors.New("failed to get secret from OS keyring")

// ErrSecretNotFound indicates a secret is in neither the keyring nor the environment.
var ErrSecretNotFound = errors.New("secret not found in OS keyring or environment")
