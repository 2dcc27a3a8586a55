package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "notion-mcp"
	keyringUser    = "notion-api-key"

	// KeyringSourceName labels tokens read from the OS keyring.
	KeyringSourceName = "keyring:" + keyringService
)

// KeyringSource reads the token saved by StoreToken.
func KeyringSource() Source {
	return Source{
		Name: KeyringSourceName,
		Lookup: func() (string, error) {
			value, err := keyring.Get(keyringService, keyringUser)
			if errors.Is(err, keyring.ErrNotFound) {
				return "", nil
			}
			return value, err
		},
	}
}

// StoreToken saves token in the system keyring.
func StoreToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token is empty")
	}
	if err := keyring.Set(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("failed to store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the stored token. Removing a missing token is not an error.
func DeleteToken() error {
	err := keyring.Delete(keyringService, keyringUser)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete token from keyring: %w", err)
	}
	return nil
}

// HasStoredToken reports whether the keyring holds a token.
func HasStoredToken() bool {
	_, err := keyring.Get(keyringService, keyringUser)
	return err == nil
}
