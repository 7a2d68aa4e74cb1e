package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmfonseca/glicolog/internal/db"
	"github.com/rmfonseca/glicolog/internal/exitcode"
	"github.com/rmfonseca/glicolog/internal/ingest"
	"github.com/rmfonseca/glicolog/internal/logging"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Parse workbooks and load them into the database",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Parallel file parses")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Parse and report without writing")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, verbose)
	ctx := context.Background()

	cfg.Paths = args
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	store := db.NewStore(pool)
	out, err := ingest.Run(ctx, store, log, &cfg)
	if err != nil {
		if pe, ok := err.(*ingest.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("ingest failed")
			switch pe.Phase {
			case "discover":
				os.Exit(exitcode.ValidationError)
			case "parse":
				os.Exit(exitcode.ParseError)
			default:
				os.Exit(exitcode.PersistError)
			}
		}
		log.Error().Err(err).Msg("ingest failed")
		os.Exit(exitcode.ParseError)
	}

	if cfg.DryRun {
		fmt.Printf("Dry run: %d/%d files parsed, %d rows (%.1fs)\n",
			out.Summary.FilesParsed, out.Summary.FilesSeen,
			out.Summary.RowsAccepted, out.Summary.DurationTotal.Seconds())
	} else {
		_, readings, _, serr := store.BatchStats(ctx, out.BatchID)
		if serr != nil {
			log.Warn().Err(serr).Msg("could not read back batch stats")
		}
		fmt.Printf("Batch %s: %d/%d files loaded, %d readings in database (%.1fs)\n",
			out.BatchID, out.Summary.FilesParsed, out.Summary.FilesSeen,
			readings, out.Summary.DurationTotal.Seconds())
	}

	if len(out.Failures) > 0 {
		printFailures(out.Failures)
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
