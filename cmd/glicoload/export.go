package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmfonseca/glicolog/internal/exitcode"
	"github.com/rmfonseca/glicolog/internal/export"
	"github.com/rmfonseca/glicolog/internal/ingest"
	"github.com/rmfonseca/glicolog/internal/logging"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [paths...]",
	Short: "Parse workbooks and write a flattened Parquet extract",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportOut, "out", "glicolog.parquet", "Output Parquet path")
	f.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Parallel file parses")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, verbose)

	cfg.Paths = args
	cfg.DryRun = true
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	out, err := ingest.Run(context.Background(), nil, log, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("parse failed")
		os.Exit(exitcode.ParseError)
	}

	n, err := export.WriteParquetFile(exportOut, out.Records)
	if err != nil {
		log.Error().Err(err).Msg("export failed")
		os.Exit(exitcode.PersistError)
	}

	fmt.Printf("Wrote %d rows from %d patients to %s\n", n, len(out.Records), exportOut)
	if len(out.Failures) > 0 {
		printFailures(out.Failures)
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
