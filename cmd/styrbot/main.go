// Package main is the entry point of the styrbot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/hjalmarsson/styrbot/cmd/styrbot/commands"
)

// version is injected at build time via ldflags.
var version = "dev"

func main() {
	rootCmd := commands.NewRootCmd(version)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fel: %v\n", err)
		os.Exit(1)
	}
}
