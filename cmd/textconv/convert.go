// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/textconv/internal/convert"
	"github.com/pdiddy/textconv/internal/logging"
	"github.com/pdiddy/textconv/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert SOURCE [DEST]",
	Short: "Convert a single text file to UTF-8",
	Long: `Convert reads SOURCE in chunks, decodes it as UTF-8 with a one-time
Latin-1 fallback, and writes the result to DEST as UTF-8. When DEST is
omitted the file is written under OUTPUT_DIR with the same name.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	src := args[0]

	var dst string
	switch {
	case len(args) == 2:
		dst = args[1]
	case viper.GetString("output_dir") != "":
		dst = filepath.Join(viper.GetString("output_dir"), filepath.Base(src))
	default:
		return fmt.Errorf("%w: destination required: pass DEST or set OUTPUT_DIR", types.ErrConfiguration)
	}

	log := rootLogger()
	conv := convert.New(
		types.ConverterConfig{ChunkSize: viper.GetInt("chunk_size")},
		logging.Named(log, "converter"),
	)

	result := conv.Convert(types.Request{SourcePath: src, DestPath: dst})
	if result.Failed() {
		return fmt.Errorf("converting %s: %w", src, result.Err)
	}

	fmt.Printf("converted: %s (%s)\n", dst, result.Encoding)
	return nil
}
