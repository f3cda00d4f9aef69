package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/config"
)

// newSetupCmd creates the `styrbot setup` command.
func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive setup wizard",
		Long: `Walks through the settings styrbot needs and writes config.yaml.
Secrets (bot token, API key) go to the OS keyring when one is available,
otherwise to a .env file next to the config. They are never written to
config.yaml.

Examples:
  styrbot setup`,
		RunE: runSetup,
	}
}

func runSetup(_ *cobra.Command, _ []string) error {
	if !config.StdinIsTerminal() {
		return errors.New("setup needs an interactive terminal")
	}

	cfg := config.Default()
	var botToken, geminiKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Assistentens namn").
				Value(&cfg.Name),
			huh.NewInput().
				Title("Mattermost server-URL").
				Placeholder("https://chat.example.se").
				Value(&cfg.ServerURL),
			huh.NewInput().
				Title("Mattermost bot-token").
				EchoMode(huh.EchoModePassword).
				Value(&botToken),
			huh.NewInput().
				Title("Gemini API-nyckel").
				EchoMode(huh.EchoModePassword).
				Value(&geminiKey),
			huh.NewInput().
				Title("Gemini-modell").
				Value(&cfg.Model),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Google service-account JSON (sökväg, valfritt)").
				Value(&cfg.GoogleCredentials),
			huh.NewInput().
				Title("Google Drive mapp-ID (valfritt)").
				Value(&cfg.DriveFolderID),
			huh.NewInput().
				Title("Google Kalender-ID (valfritt)").
				Value(&cfg.CalendarID),
			huh.NewInput().
				Title("Standarddeltagare, e-post (valfritt)").
				Value(&cfg.DefaultAttendee),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("setup aborted: %w", err)
	}

	if cfg.ServerURL == "" || botToken == "" || geminiKey == "" {
		return errors.New("server URL, bot token, and API key are required")
	}

	// Secrets first, so a config.yaml never exists without them.
	if err := storeSecrets(botToken, geminiKey); err != nil {
		return err
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile("config.yaml", data, 0o600); err != nil {
		return fmt.Errorf("writing config.yaml: %w", err)
	}

	fmt.Println()
	fmt.Println("config.yaml skriven. Starta med `styrbot serve`.")
	return nil
}

// storeSecrets writes the secrets to the OS keyring, or to .env when no
// keyring is available.
func storeSecrets(botToken, geminiKey string) error {
	if config.KeyringAvailable() {
		if err := config.StoreKeyring(config.SecretKeys["MATTERMOST_BOT_TOKEN"], botToken); err != nil {
			return fmt.Errorf("storing bot token: %w", err)
		}
		if err := config.StoreKeyring(config.SecretKeys["GEMINI_API_KEY"], geminiKey); err != nil {
			return fmt.Errorf("storing API key: %w", err)
		}
		fmt.Println("Hemligheterna sparades i operativsystemets nyckelring.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("MATTERMOST_BOT_TOKEN=" + botToken + "\n")
	sb.WriteString("GEMINI_API_KEY=" + geminiKey + "\n")
	if err := os.WriteFile(".env", []byte(sb.String()), 0o600); err != nil {
		return fmt.Errorf("writing .env: %w", err)
	}
	fmt.Println("Ingen nyckelring hittades; hemligheterna sparades i .env.")
	return nil
}
