// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/pdiddy/textconv/pkg/types"
)

// ValidateDirs fails fast when the configured directories are unusable:
// unset, missing, or not directories. A missing output directory is
// created when cfg.CreateOutputDir is set; otherwise it is a
// configuration error.
func ValidateDirs(cfg types.BatchConfig, log zerolog.Logger) error {
	if cfg.InputDir == "" || cfg.OutputDir == "" {
		return fmt.Errorf("%w: INPUT_DIR and OUTPUT_DIR must be set", types.ErrConfiguration)
	}

	info, err := os.Stat(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("%w: input directory %s does not exist", types.ErrConfiguration, cfg.InputDir)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: input path %s is not a directory", types.ErrConfiguration, cfg.InputDir)
	}

	info, err = os.Stat(cfg.OutputDir)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w: output path %s is not a directory", types.ErrConfiguration, cfg.OutputDir)
	case err != nil && cfg.CreateOutputDir:
		log.Info().Str("dir", cfg.OutputDir).Msg("output directory does not exist, creating it")
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("%w: creating output directory: %v", types.ErrConfiguration, err)
		}
	case err != nil:
		return fmt.Errorf("%w: output directory %s does not exist", types.ErrConfiguration, cfg.OutputDir)
	}
	return nil
}
