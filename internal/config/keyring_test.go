package config

import "testing"

func TestKeyringManagerSaveAndGetToken(t *testing.T) {
	km := NewKeyringManager()

	// Headless systems (CI) have no keychain.
	if !km.IsAvailable() {
		t.Skip("keychain not available, skipping test")
	}

	defer km.DeleteToken()

	token := "ghp_test123456789"
	if err := km.SetToken(token); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}

	got, err := km.GetToken()
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	if got != token {
		t.Errorf("got %q, expected saved token", got)
	}
}

func TestKeyringManagerEmptyToken(t *testing.T) {
	km := NewKeyringManager()
	if err := km.SetToken(""); err == nil {
		t.Error("expected error for empty token")
	}
}

func TestKeyringManagerGetMissingToken(t *testing.T) {
	km := NewKeyringManager()
	if !km.IsAvailable() {
		t.Skip("keychain not available, skipping test")
	}

	km.DeleteToken()
	got, err := km.GetToken()
	if err != nil {
		t.Fatalf("GetToken failed: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, expected empty string for a missing entry", got)
	}
}

func TestKeyringManagerDeleteMissingToken(t *testing.T) {
	km := NewKeyringManager()
	if !km.IsAvailable() {
		t.Skip("keychain not available, skipping test")
	}

	km.DeleteToken()
	if err := km.DeleteToken(); err != nil {
		t.Errorf("deleting an absent token should not fail: %v", err)
	}
}
