package clip

import (
	"context"
	"errors"
	"os"
)

// ErrNoCredential is returned by a CredentialProvider that has nothing to
// offer.
var ErrNoCredential = errors.New("clip: no credential available")

// CredentialProvider supplies the key used to authorize asset downloads.
type CredentialProvider interface {
	Credential(ctx context.Context) (string, error)
}

// CredentialFunc adapts a function to CredentialProvider.
type CredentialFunc func(ctx context.Context) (string, error)

// Credential implements CredentialProvider.
func (f CredentialFunc) Credential(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticCredential always returns key.
func StaticCredential(key string) CredentialProvider {
	return CredentialFunc(func(context.Context) (string, error) {
		if key == "" {
			return "", ErrNoCredential
		}
		return key, nil
	})
}

// Environment variables consulted by EnvCredential, in order.
var CredentialEnvVars = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}

// EnvCredential reads the key from the environment on every call.
func EnvCredential() CredentialProvider {
	return CredentialFunc(func(context.Context) (string, error) {
		for _, name := range CredentialEnvVars {
			if v := os.Getenv(name); v != "" {
				return v, nil
			}
		}
		return "", ErrNoCredential
	})
}
