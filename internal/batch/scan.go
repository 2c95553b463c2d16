// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch orchestrates a directory conversion run: it scans the
// input directory, relocates non-matching files, fans the matching ones
// out to a worker pool, and collects one outcome per file.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/textconv/pkg/types"
)

// errorFilesDir is the sibling directory non-matching files are moved to.
const errorFilesDir = "error_files"

// matchExt is the extension selecting files for conversion, compared
// case-insensitively.
const matchExt = ".txt"

// Scan lists the input directory and builds one conversion request per
// matching file, mirroring names into the output directory. When
// cfg.MoveNonMatching is set, non-matching files are relocated to an
// error_files directory next to the input directory before the run
// starts; the returned count says how many were moved. Subdirectories
// are not descended and never relocated.
func Scan(cfg types.BatchConfig, log zerolog.Logger) (requests []types.Request, relocated int, err error) {
	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return nil, 0, fmt.Errorf("reading input directory %s: %w", cfg.InputDir, err)
	}

	var matching, other []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), matchExt) {
			matching = append(matching, entry.Name())
		} else {
			other = append(other, entry.Name())
		}
	}

	if len(other) > 0 {
		log.Warn().Int("count", len(other)).Msgf("found %d non-%s files in input directory", len(other), matchExt)
	}

	if cfg.MoveNonMatching && len(other) > 0 {
		errDir := filepath.Join(filepath.Dir(cfg.InputDir), errorFilesDir)
		if err := os.MkdirAll(errDir, 0o755); err != nil {
			return nil, 0, fmt.Errorf("creating %s directory: %w", errorFilesDir, err)
		}
		for _, name := range other {
			src := filepath.Join(cfg.InputDir, name)
			if err := os.Rename(src, filepath.Join(errDir, name)); err != nil {
				return nil, relocated, fmt.Errorf("relocating %s: %w", src, err)
			}
			relocated++
		}
	}

	for _, name := range matching {
		requests = append(requests, types.Request{
			SourcePath: filepath.Join(cfg.InputDir, name),
			DestPath:   filepath.Join(cfg.OutputDir, name),
		})
	}
	return requests, relocated, nil
}
