package main

import (
	"fmt"

	"github.com/avandyck/gitrhythm/internal/config"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub token in the OS keychain",
	Long: `Prompt for a GitHub personal access token and store it securely in the
OS keychain (or, on headless systems, a user-only credentials file).

The token is optional for public repositories but required for private ones
and for the higher API rate limits.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored GitHub token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.NewCredentialManager().DeleteToken(); err != nil {
			return fmt.Errorf("delete token: %w", err)
		}
		fmt.Println("GitHub token removed.")
		return nil
	},
}

func runLogin(cmd *cobra.Command, args []string) error {
	cm := config.NewCredentialManager()

	token, err := cm.PromptToken()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("no token entered")
	}

	if err := cm.SaveToken(token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	fmt.Println("GitHub token saved.")
	return nil
}
