// Package config – secrets.go resolves credentials using the OS keyring
// (Linux: Secret Service/GNOME Keyring, macOS: Keychain, Windows:
// Credential Manager) before falling back to environment variables.
//
// Priority for resolving secrets:
//  1. OS keyring (encrypted by the OS, requires user session)
//  2. Environment variable (also covers values loaded from .env)
//  3. Value from config.yaml, if any (least secure — plaintext on disk)
package config

import (
	"fmt"
	"os"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const (
	// keyringService is the service name used in the OS keyring.
	keyringService = "styrbot"

	keyBotToken     = "mattermost_bot_token"
	keyGeminiAPIKey = "gemini_api_key"
)

// SecretKeys lists the keyring entries styrbot manages.
var SecretKeys = map[string]string{
	"MATTERMOST_BOT_TOKEN": keyBotToken,
	"GEMINI_API_KEY":       keyGeminiAPIKey,
}

// ResolveSecret returns the first non-empty value among keyring, env,
// and the provided fallback.
func ResolveSecret(keyringKey, envName, fallback string) string {
	if v := GetKeyring(keyringKey); v != "" {
		return v
	}
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return fallback
}

// StoreKeyring saves a secret to the OS keyring.
func StoreKeyring(key, value string) error {
	return keyring.Set(keyringService, key, value)
}

// GetKeyring retrieves a secret from the OS keyring.
// Returns empty string if not found.
func GetKeyring(key string) string {
	val, err := keyring.Get(keyringService, key)
	if err != nil {
		return ""
	}
	return val
}

// DeleteKeyring removes a secret from the OS keyring.
func DeleteKeyring(key string) error {
	return keyring.Delete(keyringService, key)
}

// KeyringAvailable checks if the OS keyring is accessible by writing and
// removing a probe entry.
func KeyringAvailable() bool {
	const probe = "styrbot_probe"
	if err := keyring.Set(keyringService, probe, "ok"); err != nil {
		return false
	}
	_ = keyring.Delete(keyringService, probe)
	return true
}

// PromptSecret reads a secret from the terminal without echoing it.
func PromptSecret(label string) (string, error) {
	fmt.Printf("%s: ", label)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return string(b), nil
}

// StdinIsTerminal reports whether stdin is an interactive terminal.
// Wizard-style commands refuse to run without one.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
