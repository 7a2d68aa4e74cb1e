package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rmfonseca/glicolog/internal/exitcode"
	"github.com/rmfonseca/glicolog/internal/ingest"
	"github.com/rmfonseca/glicolog/internal/logging"
	"github.com/rmfonseca/glicolog/internal/model"
)

var parseJSON bool

var parseCmd = &cobra.Command{
	Use:   "parse [paths...]",
	Short: "Dry-run parse and per-file report (no writes)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

func init() {
	f := parseCmd.Flags()
	f.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "Parallel file parses")
	f.BoolVar(&parseJSON, "json", false, "Emit records and failures as JSON")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
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

	if parseJSON {
		if err := printJSON(out); err != nil {
			log.Error().Err(err).Msg("encode failed")
			os.Exit(exitcode.ParseError)
		}
	} else {
		printReport(out)
	}

	switch {
	case out.Summary.FilesParsed == 0:
		os.Exit(exitcode.ParseError)
	case out.Summary.FilesFailed > 0:
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}

func printJSON(out *ingest.Outcome) error {
	reply := struct {
		Parsed   int                            `json:"parsed"`
		Failed   int                            `json:"failed"`
		Records  []*model.PatientRecord         `json:"records"`
		Failures map[string][]model.FileFailure `json:"failures,omitempty"`
	}{len(out.Records), len(out.Failures), out.Records, ingest.GroupFailures(out.Failures)}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(reply)
}

func printReport(out *ingest.Outcome) {
	fmt.Println("=== glicoload parse ===")
	fmt.Printf("Files: %d seen, %d parsed, %d failed\n\n",
		out.Summary.FilesSeen, out.Summary.FilesParsed, out.Summary.FilesFailed)

	for _, rec := range out.Records {
		age := rec.Age.String()
		if rec.Age.IsZero() {
			age = "unknown"
		}
		insulin := ""
		if rec.UsesInsulin {
			insulin = ", insulin"
		}
		fmt.Printf("  %-36s %-24s IG %-8s %3d rows%s\n",
			rec.SourceFile, rec.PatientName, age, len(rec.Readings), insulin)
		for _, w := range rec.Warnings {
			fmt.Printf("    warning: %s\n", w)
		}
	}
	if len(out.Failures) > 0 {
		printFailures(out.Failures)
	}
}

// printFailures renders the failure buckets with stable ordering.
func printFailures(failures []model.FileFailure) {
	groups := ingest.GroupFailures(failures)
	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Println("\nFailures:")
	for _, label := range labels {
		fmt.Printf("  %s:\n", label)
		for _, f := range groups[label] {
			fmt.Printf("    %s: %s\n", f.FileName, f.Message)
		}
	}
}
