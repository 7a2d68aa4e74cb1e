package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rmfonseca/glicolog/internal/exitcode"
	"github.com/rmfonseca/glicolog/internal/ingest"
	"github.com/rmfonseca/glicolog/internal/logging"
	"github.com/rmfonseca/glicolog/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [paths...]",
	Short: "Parse workbooks and request treatment recommendations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.StringVar(&cfg.RecommendURL, "url", cfg.RecommendURL, "Recommendation service base URL")
	f.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Parallel file parses")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, verbose)
	ctx := context.Background()

	cfg.Paths = args
	cfg.DryRun = true
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	if cfg.RecommendURL == "" {
		log.Error().Msg("--url or recommend_url in the config file is required")
		os.Exit(exitcode.UsageError)
	}

	out, err := ingest.Run(ctx, nil, log, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("parse failed")
		os.Exit(exitcode.ParseError)
	}

	client := recommend.NewClient(cfg.RecommendURL)
	failed := 0
	for _, rec := range out.Records {
		reply, err := client.Recommend(ctx, rec)
		if err != nil {
			log.Error().Str("patient", rec.PatientName).Err(err).Msg("recommendation failed")
			failed++
			continue
		}
		fmt.Printf("%s (IG %s): %s\n", rec.PatientName, rec.Age, reply)
	}

	if failed > 0 || len(out.Failures) > 0 {
		if len(out.Failures) > 0 {
			printFailures(out.Failures)
		}
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
