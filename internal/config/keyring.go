package config

import (
	"fmt"
	"log/slog"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "gitrhythm"

	// KeyringTokenItem is the key for the GitHub token
	KeyringTokenItem = "github-token"
)

// KeyringManager handles secure credential storage in OS keychain
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{
		logger: slog.Default().With("component", "keyring"),
	}
}

// SetToken stores the GitHub token securely in the OS keychain
// This uses OS-level encryption:
// - macOS: Keychain Access.app → "gitrhythm" → "github-token"
// - Windows: Credential Manager → "gitrhythm"
// - Linux: Secret Service (requires libsecret)
func (km *KeyringManager) SetToken(token string) error {
	if token == "" {
		return fmt.Errorf("github token cannot be empty")
	}

	if err := keyring.Set(KeyringService, KeyringTokenItem, token); err != nil {
		km.logger.Error("failed to save token to keychain", "error", err)
		return fmt.Errorf("save to OS keychain: %w", err)
	}

	km.logger.Info("github token saved to keychain", "service", KeyringService)
	return nil
}

// GetToken retrieves the GitHub token from the OS keychain. A missing entry
// is not an error; it returns an empty string.
func (km *KeyringManager) GetToken() (string, error) {
	token, err := keyring.Get(KeyringService, KeyringTokenItem)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		km.logger.Error("failed to get token from keychain", "error", err)
		return "", fmt.Errorf("read from OS keychain: %w", err)
	}

	km.logger.Debug("github token retrieved from keychain")
	return token, nil
}

// DeleteToken removes the GitHub token from the OS keychain
func (km *KeyringManager) DeleteToken() error {
	err := keyring.Delete(KeyringService, KeyringTokenItem)
	if err == keyring.ErrNotFound {
		// Already deleted, not an error
		return nil
	}
	if err != nil {
		km.logger.Error("failed to delete token from keychain", "error", err)
		return fmt.Errorf("delete from OS keychain: %w", err)
	}

	km.logger.Info("github token deleted from keychain")
	return nil
}

// IsAvailable checks if OS keychain is available
// Returns false on headless systems (CI/CD) where keychain isn't available
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "test-availability")
	if err == keyring.ErrNotFound {
		return true
	}
	if err != nil {
		km.logger.Debug("keychain not available", "error", err)
		return false
	}
	return true
}
