// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// ExportEntry holds one run and its file outcomes for export.
type ExportEntry struct {
	Run   Run          `json:"run" yaml:"run"`
	Files []FileRecord `json:"files" yaml:"files"`
}

// ExportYAML writes the most recent runs with their file outcomes to w
// as YAML, newest first, up to limit runs.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer, limit int) error {
	runs, err := s.Runs(ctx, limit)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(runs))
	for i, r := range runs {
		files, err := s.Files(ctx, r.ID)
		if err != nil {
			return fmt.Errorf("querying files for export: %w", err)
		}
		entries[i] = ExportEntry{Run: r, Files: files}
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
