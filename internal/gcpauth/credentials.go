// Package gcpauth resolves Google Cloud credentials from the environment.
//
// GOOGLE_CREDENTIALS (inline JSON) wins over GOOGLE_APPLICATION_CREDENTIALS
// (path to a service account file).
package gcpauth

import (
	"errors"
	"fmt"
	"os"

	"google.golang.org/api/option"
)

const (
	EnvCredentialsJSON = "GOOGLE_CREDENTIALS"
	EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"
)

// ErrNoCredentials is returned by JSON when neither variable is set.
var ErrNoCredentials = errors.New("neither GOOGLE_CREDENTIALS nor GOOGLE_APPLICATION_CREDENTIALS is set")

// ClientOptions returns the client option for the configured credentials.
// With neither variable set it returns no options, leaving the client on
// Application Default Credentials, and explicit is false.
func ClientOptions() (opts []option.ClientOption, explicit bool) {
	if credJSON := os.Getenv(EnvCredentialsJSON); credJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}, true
	}
	if credFile := os.Getenv(EnvCredentialsFile); credFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credFile)}, true
	}
	return nil, false
}

// JSON returns the raw service account JSON.
func JSON() ([]byte, error) {
	if credJSON := os.Getenv(EnvCredentialsJSON); credJSON != "" {
		return []byte(credJSON), nil
	}
	credFile := os.Getenv(EnvCredentialsFile)
	if credFile == "" {
		return nil, ErrNoCredentials
	}
	data, err := os.ReadFile(credFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return data, nil
}
