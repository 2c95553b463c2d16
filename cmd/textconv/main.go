// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the textconv CLI, a batch
// converter that normalizes text files to UTF-8 with a one-time Latin-1
// fallback for files that fail strict UTF-8 decoding.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/textconv/internal/convert"
	"github.com/pdiddy/textconv/internal/logging"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the textconv CLI.
var rootCmd = &cobra.Command{
	Use:   "textconv",
	Short: "Convert text files to UTF-8 with Latin-1 fallback",
	Long: `textconv converts text files to UTF-8 encoding. Files are read in
fixed-size chunks and decoded incrementally: decoding starts as strict
UTF-8 and falls back to Latin-1 exactly once when a file turns out not
to be valid UTF-8. Output is always UTF-8.

Use "convert" for a single file or "batch" to convert every .txt file
from the input directory into the output directory concurrently. The
directories come from the INPUT_DIR and OUTPUT_DIR environment
variables or a config file.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./textconv.yaml or ~/.config/textconv/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: trace, debug, info, warn, or error")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("textconv")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "textconv"))
		}
	}

	viper.SetDefault("workers", 0)
	viper.SetDefault("chunk_size", convert.DefaultChunkSize)
	viper.SetDefault("create_output_dir", true)
	viper.SetDefault("move_non_matching", true)

	// The directory settings are read verbatim from INPUT_DIR and
	// OUTPUT_DIR, without a prefix.
	viper.BindEnv("input_dir", "INPUT_DIR")
	viper.BindEnv("output_dir", "OUTPUT_DIR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// rootLogger builds the process logger from the persistent flags.
func rootLogger() zerolog.Logger {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	format, _ := rootCmd.PersistentFlags().GetString("log-format")
	return logging.New(logging.Options{Level: level, Format: format})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
