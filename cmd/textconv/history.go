// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/textconv/internal/ledger"
	"github.com/pdiddy/textconv/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent batch runs from the ledger",
	Long: `History lists the batch runs recorded in the SQLite ledger, newest
first. Use "history export" to dump runs with their per-file outcomes
as YAML.`,
	RunE: runHistory,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history with per-file outcomes as YAML",
	RunE:  runHistoryExport,
}

func init() {
	historyCmd.PersistentFlags().String("ledger", "", "ledger database path (default: OUTPUT_DIR/"+ledger.DefaultFileName+")")
	historyCmd.PersistentFlags().Int("limit", 20, "maximum number of runs")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

// ledgerPath resolves the database location from the flag, the config,
// or the output directory default.
func ledgerPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("ledger"); path != "" {
		return path, nil
	}
	if path := viper.GetString("ledger_path"); path != "" {
		return path, nil
	}
	if outDir := viper.GetString("output_dir"); outDir != "" {
		return filepath.Join(outDir, ledger.DefaultFileName), nil
	}
	return "", fmt.Errorf("%w: ledger location unknown: pass --ledger or set OUTPUT_DIR", types.ErrConfiguration)
}

func openLedger(cmd *cobra.Command) (*ledger.Store, error) {
	path, err := ledgerPath(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no ledger at %s: %w", path, err)
	}
	return ledger.Open(path)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-4s  %-20s  %-9s  %-8s  %-6s  %-9s  %s\n",
		"Run", "Started", "Converted", "Fallback", "Failed", "Relocated", "Input")
	for _, r := range runs {
		fmt.Printf("%-4d  %-20s  %-9d  %-8d  %-6d  %-9d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime),
			r.Converted, r.Fallback, r.Failed, r.Relocated, r.InputDir)
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := openLedger(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return store.ExportYAML(cmd.Context(), out, limit)
}
