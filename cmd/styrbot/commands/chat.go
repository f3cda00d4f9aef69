package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/hjalmarsson/styrbot/pkg/styrbot/gemini"
)

// newChatCmd creates the `styrbot chat` command for talking to the
// assistant from the terminal, without Mattermost.
func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the assistant from the terminal",
		Long: `Sends one message to the assistant, or starts an interactive session
when no message is given. Uses the same model and system prompt as serve.

Examples:
  styrbot chat "Hur skriver jag ett mötesprotokoll?"
  styrbot chat`,
		Args: cobra.ArbitraryArgs,
		RunE: runChat,
	}
	cmd.Flags().StringP("model", "m", "", "override the configured model")
	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is not configured (run `styrbot setup`)")
	}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		cfg.Model = model
	}
	logger := newLogger(cmd, cfg)
	gen := gemini.New(cfg.GeminiAPIKey, cfg.Model, cfg.SystemPrompt, logger)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) > 0 {
		reply, err := gen.Generate(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(reply)
		return nil
	}

	rl, err := readline.New("du> ")
	if err != nil {
		return fmt.Errorf("starting interactive session: %w", err)
	}
	defer rl.Close()

	fmt.Printf("%s (%s) — tom rad eller Ctrl+D avslutar.\n", cfg.Name, cfg.Model)
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl+D, readline.ErrInterrupt on Ctrl+C
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}

		reply, err := gen.Generate(ctx, line)
		if err != nil {
			fmt.Printf("fel: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", reply)
	}
}
