package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"aadhaarclean/internal/config"
	"aadhaarclean/internal/logger"
	"aadhaarclean/internal/pipeline"
	"aadhaarclean/internal/report"
	"aadhaarclean/internal/verify"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:   "clean-aadhaar",
		Short: "Clean the UIDAI Aadhaar enrolment, demographic and biometric CSV exports",
		Long: `clean-aadhaar reads the raw CSV parts of each category, removes exact duplicates,
standardizes states, districts, dates and pincodes, sorts by date, state and district,
and writes Excel-sized shards plus a cleaning report and a split-files summary.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(gf)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return runClean(cmd, cfg, log)
		},
	}
	rootCmd.PersistentFlags().StringVar(&gf.configPath, "config", "", "Optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&gf.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	var categories []string
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check written shards for order, caps and canonical states",
		Long: `The verify command reads each category's shards back in numeric order and checks
headers, row caps, canonical state names and the global sort order. When the SQLite
export exists its row counts are compared too. Results are printed as JSON.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(gf)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			return runVerify(cmd, cfg, log, categories)
		},
	}
	verifyCmd.Flags().StringSliceVar(&categories, "category", nil, "Category prefix to verify (repeatable; default all)")

	rootCmd.AddCommand(verifyCmd)
	return rootCmd
}

func setup(gf globalFlags) (config.Config, zerolog.Logger, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if gf.logLevel != "" {
		cfg.LogLevel = gf.logLevel
		if err := cfg.Validate(); err != nil {
			return config.Config{}, zerolog.Nop(), err
		}
	}
	level, _ := cfg.Level()
	return cfg, logger.Console(level), nil
}

func runClean(cmd *cobra.Command, cfg config.Config, log zerolog.Logger) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("mkdir output: %w", err)
	}
	runID := uuid.NewString()
	log.Info().Str("run_id", runID).Str("input_root", cfg.InputRoot).Str("output_dir", cfg.OutputDir).Int("max_rows", cfg.MaxRows).Msg("cleaning started")

	stats, failures, runErr := pipeline.NewRunner(cfg.Options(), log).RunAll(pipeline.Categories())

	rep := report.Report{
		RunID:           runID,
		GeneratedAt:     time.Now(),
		MaxRowsPerShard: cfg.MaxRows,
		Stats:           stats,
		Failures:        failures,
	}
	reportPath, manifestPath, err := report.WriteFiles(cfg.OutputDir, rep)
	if err != nil {
		return errors.Join(runErr, fmt.Errorf("write reports: %w", err))
	}

	out := cmd.OutOrStdout()
	for _, st := range stats {
		fmt.Fprintf(out, "%s: %d rows read, %d duplicates removed, %d rows written in %d file(s)\n",
			st.Dataset, st.OriginalRows, st.DuplicatesRemoved, st.FinalRows, len(st.Files))
	}
	for _, f := range failures {
		fmt.Fprintf(out, "%s: FAILED: %v\n", f.Dataset, f.Err)
	}
	fmt.Fprintf(out, "Report: %s\n", reportPath)
	fmt.Fprintf(out, "Summary: %s\n", manifestPath)
	if p := cfg.SQLitePath(); p != "" && len(stats) > 0 {
		fmt.Fprintf(out, "SQLite: %s\n", p)
	}
	return runErr
}

func runVerify(cmd *cobra.Command, cfg config.Config, log zerolog.Logger, prefixes []string) error {
	cats := pipeline.Categories()
	if len(prefixes) > 0 {
		cats = cats[:0]
		for _, p := range prefixes {
			c, ok := pipeline.CategoryByPrefix(p)
			if !ok {
				return fmt.Errorf("unknown category %q", p)
			}
			cats = append(cats, c)
		}
	}

	db := cfg.SQLitePath()
	if db != "" {
		if _, err := os.Stat(db); err != nil {
			db = ""
		}
	}

	var (
		results []verify.Result
		errs    []error
	)
	for _, c := range cats {
		res, err := verify.Dir(cfg.OutputDir, c.Prefix, cfg.MaxRows)
		if err == nil && db != "" {
			err = verify.SQLite(&res, db)
		}
		if err != nil {
			log.Error().Err(err).Str("category", c.Name).Msg("verify failed")
			errs = append(errs, err)
		} else {
			log.Info().Str("category", c.Name).Int("rows", res.Rows).Int("parts", len(res.Parts)).Msg("verified")
		}
		results = append(results, res)
	}

	payload, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(payload))
	return errors.Join(errs...)
}
