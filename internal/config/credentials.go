package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// CredentialManager handles GitHub token retrieval with a priority chain:
// Environment Variables → Keychain → Credentials File → Interactive Prompt
type CredentialManager struct {
	keyring   *KeyringManager
	credsPath string
}

// Credentials holds user credentials persisted outside the main config.
type Credentials struct {
	GitHubToken string `yaml:"github_token"`
}

// NewCredentialManager creates a new credential manager
func NewCredentialManager() *CredentialManager {
	homeDir, _ := os.UserHomeDir()
	return &CredentialManager{
		keyring:   NewKeyringManager(),
		credsPath: filepath.Join(homeDir, ".config", "gitrhythm", "credentials.yaml"),
	}
}

// GetGitHubToken retrieves the GitHub token using the priority chain. The
// token is optional for public repositories, so an empty result is not an
// error.
func (cm *CredentialManager) GetGitHubToken() (string, error) {
	// 1. Environment variable (highest priority)
	for _, envVar := range []string{"GITHUB_TOKEN", "GH_TOKEN"} {
		if token := os.Getenv(envVar); token != "" {
			return token, nil
		}
	}

	// 2. Keychain
	if cm.keyring.IsAvailable() {
		if token, err := cm.keyring.GetToken(); err == nil && token != "" {
			return token, nil
		}
	}

	// 3. Credentials file
	if creds, err := cm.loadCredsFile(); err == nil && creds.GitHubToken != "" {
		return creds.GitHubToken, nil
	}

	// 4. Interactive prompt
	if isInteractive() {
		fmt.Println("\nGitHub token not found (optional).")
		fmt.Println("  Required for: private repos, higher rate limits")
		fmt.Println("  Create one at: https://github.com/settings/tokens")
		fmt.Println()
		fmt.Print("Enter GitHub token (or press Enter to skip): ")

		token, _ := cm.readSecurely()
		if token != "" {
			if cm.keyring.IsAvailable() {
				cm.keyring.SetToken(token)
			}
			return token, nil
		}
	}

	return "", nil
}

// PromptToken always asks for a token, even when one is already stored.
// Returns an empty string when stdin is not a terminal.
func (cm *CredentialManager) PromptToken() (string, error) {
	if !isInteractive() {
		return "", fmt.Errorf("stdin is not a terminal")
	}

	fmt.Println("Create a token at: https://github.com/settings/tokens")
	fmt.Print("Enter GitHub token: ")
	return cm.readSecurely()
}

// SaveToken saves the token to keychain (preferred) or credentials file.
func (cm *CredentialManager) SaveToken(token string) error {
	if token == "" {
		return fmt.Errorf("github token cannot be empty")
	}

	if cm.keyring.IsAvailable() {
		return cm.keyring.SetToken(token)
	}
	return cm.saveCredsFile(Credentials{GitHubToken: token})
}

// DeleteToken removes the token from keychain and credentials file.
func (cm *CredentialManager) DeleteToken() error {
	if cm.keyring.IsAvailable() {
		if err := cm.keyring.DeleteToken(); err != nil {
			return err
		}
	}
	if err := os.Remove(cm.credsPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove credentials file: %w", err)
	}
	return nil
}

// loadCredsFile loads credentials from the credentials file
func (cm *CredentialManager) loadCredsFile() (*Credentials, error) {
	data, err := os.ReadFile(cm.credsPath)
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

// saveCredsFile saves credentials with user-only permissions
func (cm *CredentialManager) saveCredsFile(creds Credentials) error {
	dir := filepath.Dir(cm.credsPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(creds)
	if err != nil {
		return err
	}

	return os.WriteFile(cm.credsPath, data, 0600)
}

// readSecurely reads a token from stdin without echoing
func (cm *CredentialManager) readSecurely() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		bytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println() // new line after password input
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(bytes)), nil
	}

	// Piped input fallback
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// isInteractive returns true if stdin is a terminal (not piped)
func isInteractive() bool {
	return term.IsTerminal(int(syscall.Stdin))
}

// ConfigPath returns the path to the credentials file
func (cm *CredentialManager) ConfigPath() string {
	return cm.credsPath
}
