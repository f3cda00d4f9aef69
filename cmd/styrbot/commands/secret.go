package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/config"
)

// newSecretCmd creates the `styrbot secret` command group for managing
// keyring-stored credentials.
func newSecretCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage secrets in the OS keyring",
	}
	cmd.AddCommand(newSecretSetCmd(), newSecretDeleteCmd(), newSecretListCmd())
	return cmd
}

func newSecretSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Store a secret (prompted, not echoed)",
		Long: `Stores a secret in the OS keyring. Valid names:
  MATTERMOST_BOT_TOKEN
  GEMINI_API_KEY`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, err := secretKey(args[0])
			if err != nil {
				return err
			}
			if !config.StdinIsTerminal() {
				return errors.New("secret set needs an interactive terminal")
			}
			value, err := config.PromptSecret(args[0])
			if err != nil {
				return err
			}
			if value == "" {
				return errors.New("empty secret not stored")
			}
			if err := config.StoreKeyring(key, value); err != nil {
				return fmt.Errorf("storing secret: %w", err)
			}
			fmt.Println("Sparad.")
			return nil
		},
	}
}

func newSecretDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a secret from the keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, err := secretKey(args[0])
			if err != nil {
				return err
			}
			if err := config.DeleteKeyring(key); err != nil {
				return fmt.Errorf("deleting secret: %w", err)
			}
			fmt.Println("Borttagen.")
			return nil
		},
	}
}

func newSecretListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show which secrets are present in the keyring",
		RunE: func(_ *cobra.Command, _ []string) error {
			names := make([]string, 0, len(config.SecretKeys))
			for name := range config.SecretKeys {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				state := "saknas"
				if config.GetKeyring(config.SecretKeys[name]) != "" {
					state = "finns"
				}
				fmt.Printf("%-24s %s\n", name, state)
			}
			return nil
		},
	}
}

// secretKey maps a user-facing secret name to its keyring key.
func secretKey(name string) (string, error) {
	key, ok := config.SecretKeys[strings.ToUpper(name)]
	if !ok {
		return "", fmt.Errorf("unknown secret %q (valid: MATTERMOST_BOT_TOKEN, GEMINI_API_KEY)", name)
	}
	return key, nil
}
