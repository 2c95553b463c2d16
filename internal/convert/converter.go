// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert implements streaming conversion of text files to
// UTF-8. Files are read in fixed-size chunks and decoded incrementally,
// starting as strict UTF-8 and falling back to Latin-1 exactly once on
// the first invalid sequence. Output is always UTF-8 regardless of the
// input encoding, and is committed to the destination atomically.
package convert

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pdiddy/textconv/pkg/types"
)

// DefaultChunkSize is the read buffer size used when the configuration
// does not set one.
const DefaultChunkSize = 4096

// Converter converts single files to UTF-8. It holds no per-file state,
// so one Converter may serve any number of concurrent conversions.
type Converter struct {
	chunkSize int
	log       zerolog.Logger
}

// New returns a Converter using cfg.ChunkSize, or DefaultChunkSize when
// unset.
func New(cfg types.ConverterConfig, log zerolog.Logger) *Converter {
	size := cfg.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	return &Converter{chunkSize: size, log: log}
}

// Convert reads req.SourcePath, decodes it to UTF-8 text, and writes
// the result to req.DestPath. The destination is written through a
// temporary file in the same directory and renamed into place only
// after the whole file decoded, so a failed conversion never leaves a
// partial destination behind.
func (c *Converter) Convert(req types.Request) types.Result {
	c.log.Info().Str("source", req.SourcePath).Msg("starting conversion")

	dec := newStreamDecoder()
	result := c.convert(req, dec)

	if result.Failed() {
		c.log.Error().
			Str("source", req.SourcePath).
			Err(result.Err).
			Msg("conversion failed")
		return result
	}

	c.log.Info().
		Str("dest", req.DestPath).
		Str("encoding", string(result.Encoding)).
		Msg("file converted")
	return result
}

func (c *Converter) convert(req types.Request, dec *streamDecoder) types.Result {
	src, err := os.Open(req.SourcePath)
	if err != nil {
		return failure(dec, fmt.Errorf("%w: %v", ErrSourceRead, err))
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(req.DestPath), ".textconv-*.tmp")
	if err != nil {
		return failure(dec, fmt.Errorf("%w: %v", ErrDestinationWrite, err))
	}
	tmpPath := tmp.Name()
	discard := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	out := bufio.NewWriter(tmp)
	buf := make([]byte, c.chunkSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if err := c.writeDecoded(out, dec, buf[:n], false, req.SourcePath); err != nil {
				discard()
				return failure(dec, err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			discard()
			return failure(dec, fmt.Errorf("%w: %v", ErrSourceRead, readErr))
		}
	}

	// Final flush: a multi-byte sequence may still be buffered awaiting
	// input that will never arrive.
	if err := c.writeDecoded(out, dec, nil, true, req.SourcePath); err != nil {
		discard()
		return failure(dec, err)
	}

	if err := out.Flush(); err != nil {
		discard()
		return failure(dec, fmt.Errorf("%w: %v", ErrDestinationWrite, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return failure(dec, fmt.Errorf("%w: %v", ErrDestinationWrite, err))
	}
	if err := os.Rename(tmpPath, req.DestPath); err != nil {
		os.Remove(tmpPath)
		return failure(dec, fmt.Errorf("%w: %v", ErrDestinationWrite, err))
	}

	return types.Result{Status: types.StatusSuccess, Encoding: dec.Encoding()}
}

// writeDecoded feeds one chunk (or the final flush) through the decoder
// and writes the output, logging the fallback transition when it fires.
func (c *Converter) writeDecoded(out *bufio.Writer, dec *streamDecoder, chunk []byte, final bool, source string) error {
	hadFallback := dec.FellBack()

	var decoded []byte
	var err error
	if final {
		decoded, err = dec.Flush()
	} else {
		decoded, err = dec.Decode(chunk)
	}
	if err != nil {
		return err
	}

	if !hadFallback && dec.FellBack() {
		c.log.Warn().
			Str("source", source).
			Msg("failed to decode as UTF-8, switching to latin-1")
	}

	if len(decoded) == 0 {
		return nil
	}
	if _, err := out.Write(decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrDestinationWrite, err)
	}
	return nil
}

func failure(dec *streamDecoder, err error) types.Result {
	return types.Result{Status: types.StatusFailed, Encoding: dec.Encoding(), Err: err}
}
