package config

import "errors"

// Domain errors for configuration.
var (
	// ErrMissingCredential indicates CHECKLY_API_KEY is not set.
	ErrMissingCredential = errors.New("CHECKLY_API_KEY is required")

	// ErrMissingAccount indicates CHECKLY_ACCOUNT_ID is not set.
	ErrMissingAccount = errors.New("CHECKLY_ACCOUNT_ID is required")

	// ErrConfigNotFound indicates the configuration file was not found.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidFormat indicates the configuration file could not be parsed.
	ErrInvalidFormat = errors.New("invalid configuration format")

	// ErrUnsupportedFormat indicates the file extension is not supported.
	ErrUnsupportedFormat = errors.New("unsupported configuration format")

	// ErrValidationFailed indicates configuration validation failed.
	ErrValidationFailed = errors.New("configuration validation failed")

	// ErrMissingEnvVar indicates a required environment variable is not set.
	ErrMissingEnvVar = errors.New("required environment variable not set")
)
