package main

import (
	"os"

	"github.com/rmfonseca/glicolog/internal/exitcode"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
