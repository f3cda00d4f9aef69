// Package commands implements the styrbot CLI commands using cobra.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "styrbot",
		Short: "Styrbot - elevkårens styrelseassistent",
		Long: `Styrbot is the student-union board assistant. It connects a Mattermost
bot account to a generative backend and the board's Google Drive and
Calendar, handles board templates and meeting scheduling from chat, and
posts meeting reminders automatically.

Examples:
  styrbot serve
  styrbot chat "Hur skriver jag ett mötesprotokoll?"
  styrbot setup`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newSetupCmd(),
		newSecretCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	return rootCmd
}
