// Package secret stores the AI provider API key in the OS keyring.
package secret

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Service is the keyring service name.
const Service = "com.github.starford.kamus"

// ErrNoKey is returned when no key is stored for the provider.
var ErrNoKey = errors.New("no api key in keyring")

// Get returns the stored key for provider.
func Get(provider string) (string, error) {
	key, err := keyring.Get(Service, provider)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoKey
		}
		return "", fmt.Errorf("keyring: get %s: %w", provider, err)
	}
	return key, nil
}

// Set stores key for provider.
func Set(provider, key string) error {
	if key == "" {
		return fmt.Errorf("keyring: empty key for %s", provider)
	}
	if err := keyring.Set(Service, provider, key); err != nil {
		return fmt.Errorf("keyring: set %s: %w", provider, err)
	}
	return nil
}

// Delete removes the stored key. A missing key is not an error.
func Delete(provider string) error {
	if err := keyring.Delete(Service, provider); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("keyring: delete %s: %w", provider, err)
	}
	return nil
}

// Resolve returns configured when set, otherwise the keyring entry.
func Resolve(configured, provider string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	return Get(provider)
}
