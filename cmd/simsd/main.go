package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/simsearch/internal/cli"
	"github.com/cloo-solutions/simsearch/internal/cli/admin"
)

func main() {
	rootCmd := admin.NewRootCmd()

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	handled, err := cli.HandleHelpJSON(os.Stdout, rootCmd, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if handled {
		return
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
