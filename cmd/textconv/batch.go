// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/textconv/internal/batch"
	"github.com/pdiddy/textconv/internal/convert"
	"github.com/pdiddy/textconv/internal/ledger"
	"github.com/pdiddy/textconv/internal/logging"
	"github.com/pdiddy/textconv/pkg/types"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Convert all .txt files from the input to the output directory",
	Long: `Batch scans INPUT_DIR for .txt files (case-insensitive), relocates any
other files to a sibling error_files directory, and converts the rest
concurrently into OUTPUT_DIR with a progress bar. Each file's outcome is
independent: one failed file never aborts the batch.

The run is recorded in a SQLite ledger (see "textconv history") unless
--no-ledger is given. The process exits nonzero only when configuration
prevents the batch from starting at all.`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Int("workers", 0, "concurrent conversions (default: number of CPUs)")
	batchCmd.Flags().Bool("no-ledger", false, "do not record this run in the ledger")

	rootCmd.AddCommand(batchCmd)
}

// batchConfigFromViper assembles the run configuration from environment
// variables, the config file, and defaults.
func batchConfigFromViper() types.BatchConfig {
	return types.BatchConfig{
		InputDir:        viper.GetString("input_dir"),
		OutputDir:       viper.GetString("output_dir"),
		Workers:         viper.GetInt("workers"),
		CreateOutputDir: viper.GetBool("create_output_dir"),
		MoveNonMatching: viper.GetBool("move_non_matching"),
		LedgerPath:      viper.GetString("ledger_path"),
		Converter:       types.ConverterConfig{ChunkSize: viper.GetInt("chunk_size")},
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	log := rootLogger()

	cfg := batchConfigFromViper()
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Workers = workers
	}
	if err := batch.ValidateDirs(cfg, logging.Named(log, "batch")); err != nil {
		return err
	}

	started := time.Now()

	requests, relocated, err := batch.Scan(cfg, logging.Named(log, "batch"))
	if err != nil {
		return err
	}

	conv := convert.New(cfg.Converter, logging.Named(log, "converter"))
	outcomes, summary := batch.Run(cmd.Context(), conv, requests, cfg.Workers, os.Stdout, logging.Named(log, "batch"))
	summary.Relocated = relocated

	noLedger, _ := cmd.Flags().GetBool("no-ledger")
	if !noLedger {
		if err := recordRun(cmd, cfg, started, outcomes, summary); err != nil {
			// Ledger trouble is not a conversion failure; the batch
			// result stands either way.
			log.Warn().Err(err).Msg("could not record run in ledger")
		}
	}

	fmt.Printf("\nBatch summary: %d converted (%d via latin-1 fallback), %d failed, %d relocated (total: %d)\n",
		summary.Converted, summary.FallbackUsed, summary.Failed, summary.Relocated, summary.Total())
	return nil
}

// recordRun appends the finished run and its per-file outcomes to the
// ledger database.
func recordRun(cmd *cobra.Command, cfg types.BatchConfig, started time.Time, outcomes []batch.Outcome, summary batch.Summary) error {
	path := cfg.LedgerPath
	if path == "" {
		path = filepath.Join(cfg.OutputDir, ledger.DefaultFileName)
	}

	store, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	files := make([]ledger.FileRecord, len(outcomes))
	for i, o := range outcomes {
		files[i] = ledger.FileRecord{
			SourcePath: o.Request.SourcePath,
			DestPath:   o.Request.DestPath,
			Status:     o.Result.Status,
			Encoding:   o.Result.Encoding,
			Error:      o.Result.ErrorDetail(),
		}
	}

	run := ledger.Run{
		StartedAt:  started,
		FinishedAt: time.Now(),
		InputDir:   cfg.InputDir,
		OutputDir:  cfg.OutputDir,
		Converted:  summary.Converted,
		Fallback:   summary.FallbackUsed,
		Failed:     summary.Failed,
		Relocated:  summary.Relocated,
	}
	_, err = store.RecordRun(cmd.Context(), run, files)
	return err
}
