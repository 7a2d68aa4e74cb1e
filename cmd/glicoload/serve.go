package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rmfonseca/glicolog/internal/api"
	"github.com/rmfonseca/glicolog/internal/exitcode"
	"github.com/rmfonseca/glicolog/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the workbook intake API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Bind address for the intake API")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, verbose)

	if err := cfg.Policy.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	log.Info().Str("addr", cfg.ListenAddr).Msg("intake API listening")
	return api.Router(log, cfg.Policy).Run(cfg.ListenAddr)
}
