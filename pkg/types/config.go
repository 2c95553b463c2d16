// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the configuration and result types shared between
// the conversion core, the batch orchestrator, and the CLI.
package types

// ConverterConfig holds settings for the streaming converter.
type ConverterConfig struct {
	// ChunkSize is the read buffer size in bytes (default 4096). Larger
	// chunks reduce decode-boundary overhead, smaller chunks bound peak
	// memory.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
}

// BatchConfig holds settings for a batch conversion run.
type BatchConfig struct {
	// InputDir is the directory scanned for .txt files. Sourced from the
	// INPUT_DIR environment variable or the config file.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir is the directory converted files are written to. Sourced
	// from the OUTPUT_DIR environment variable or the config file.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers is the number of concurrent conversions (default NumCPU).
	Workers int `json:"workers" yaml:"workers"`

	// CreateOutputDir controls whether a missing output directory is
	// created before the run (default true). When false a missing output
	// directory is a configuration error.
	CreateOutputDir bool `json:"create_output_dir" yaml:"create_output_dir"`

	// MoveNonMatching controls whether non-.txt files found in InputDir
	// are relocated to a sibling error_files directory before the run
	// (default true).
	MoveNonMatching bool `json:"move_non_matching" yaml:"move_non_matching"`

	// LedgerPath is the SQLite file recording run history. Empty selects
	// textconv.db inside OutputDir.
	LedgerPath string `json:"ledger_path" yaml:"ledger_path"`

	Converter ConverterConfig `yaml:",inline"`
}
