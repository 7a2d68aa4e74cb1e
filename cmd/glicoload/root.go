package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rmfonseca/glicolog/internal/config"
)

var (
	cfg     = config.Default()
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:               "glicoload",
	Short:             "Clinician spreadsheet → Postgres glycemic data loader",
	Long:              "Parses the glycemic-control spreadsheets clinicians keep per patient, normalizes readings and gestational ages, and bulk-loads them into Postgres.",
	PersistentPreRunE: loadConfigFile,
}

func init() {
	// .env is optional; deployed environments set DATABASE_URL directly.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&cfgFile, "config", "", "YAML file with policy and pipeline overrides")
}

// loadConfigFile merges the optional YAML config file. Flags given on
// the command line outrank file values.
func loadConfigFile(cmd *cobra.Command, _ []string) error {
	if cfgFile == "" {
		return nil
	}
	flagConc := cfg.Concurrency
	concChanged := cmd.Flags().Changed("concurrency")
	if err := cfg.LoadFromFile(cfgFile); err != nil {
		return err
	}
	if concChanged {
		cfg.Concurrency = flagConc
	}
	return nil
}
