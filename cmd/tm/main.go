// Package main is the entry point for the tm CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/runoshun/tm/internal/app"
	"github.com/runoshun/tm/internal/cli"
	"github.com/runoshun/tm/internal/domain"
	"github.com/runoshun/tm/internal/tui"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := cli.NewRootCommand(app.New, version)
	return rootCmd.Execute()
}

// reportError prints err for the user. A cancelled picker prints nothing.
func reportError(w io.Writer, err error) {
	if errors.Is(err, tui.ErrCancelled) {
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %s\n", domain.UserMessage(err))
}
