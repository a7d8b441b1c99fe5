// Package main is the entry point for the Manor CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/scallionlabs/manor/internal/cli"
)

func main() {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
