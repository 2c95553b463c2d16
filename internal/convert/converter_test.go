// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/textconv/pkg/types"
)

// writeSource creates a source file with content and returns a request
// pointing at it with a destination in a fresh output directory.
func writeSource(t *testing.T, content []byte) types.Request {
	t.Helper()
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "input.txt")
	if err := os.WriteFile(srcPath, content, 0o644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(tmpDir, "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return types.Request{
		SourcePath: srcPath,
		DestPath:   filepath.Join(outDir, "input.txt"),
	}
}

func newTestConverter(chunkSize int) *Converter {
	return New(types.ConverterConfig{ChunkSize: chunkSize}, zerolog.Nop())
}

func TestConvert(t *testing.T) {
	latin1Hello := []byte{'H', 0xE9, 'l', 'l', 'o'} // "Héllo" in Latin-1

	tests := []struct {
		name         string
		content      []byte
		wantOutput   string
		wantEncoding types.Encoding
	}{
		{
			name:         "valid UTF-8 round-trips unchanged",
			content:      []byte("héllo wörld 日本語\n"),
			wantOutput:   "héllo wörld 日本語\n",
			wantEncoding: types.EncodingUTF8,
		},
		{
			name:         "latin-1 content falls back",
			content:      latin1Hello,
			wantOutput:   "Héllo",
			wantEncoding: types.EncodingLatin1,
		},
		{
			name:         "empty file",
			content:      nil,
			wantOutput:   "",
			wantEncoding: types.EncodingUTF8,
		},
		{
			name:         "truncated multi-byte tail at EOF",
			content:      append([]byte("abc"), 0xC3),
			wantOutput:   "abcÃ",
			wantEncoding: types.EncodingLatin1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := writeSource(t, tt.content)

			result := newTestConverter(0).Convert(req)

			if result.Status != types.StatusSuccess {
				t.Fatalf("status = %q (%v), want success", result.Status, result.Err)
			}
			if result.Encoding != tt.wantEncoding {
				t.Errorf("encoding = %q, want %q", result.Encoding, tt.wantEncoding)
			}
			data, err := os.ReadFile(req.DestPath)
			if err != nil {
				t.Fatalf("reading output: %v", err)
			}
			if string(data) != tt.wantOutput {
				t.Errorf("output = %q, want %q", data, tt.wantOutput)
			}
		})
	}
}

func TestConvert_ChunkSizeIndependence(t *testing.T) {
	// Chunked decoding must be byte-identical to a whole-file decode for
	// chunk sizes {1, 4096, file-length}. Valid UTF-8 exercises the
	// tail-buffering path; Latin-1 content (ASCII plus high bytes, no
	// valid multi-byte sequences before the first invalid one) exercises
	// the fallback path. Content where valid multi-byte UTF-8 precedes
	// an invalid region is deliberately excluded: there the fallback
	// point itself depends on chunking, which is specified behavior.
	contents := map[string][]byte{
		"valid utf-8": []byte("héllo 日本語 çà, more text to span chunks"),
		"latin-1":     {'H', 0xE9, 'l', 'l', 'o', ' ', 'w', 0xF6, 'r', 'l', 'd'},
	}

	for name, content := range contents {
		t.Run(name, func(t *testing.T) {
			outputs := map[int][]byte{}
			for _, chunkSize := range []int{1, DefaultChunkSize, len(content)} {
				req := writeSource(t, content)

				result := newTestConverter(chunkSize).Convert(req)
				if result.Status != types.StatusSuccess {
					t.Fatalf("chunk size %d: %v", chunkSize, result.Err)
				}

				data, err := os.ReadFile(req.DestPath)
				if err != nil {
					t.Fatal(err)
				}
				outputs[chunkSize] = data
			}

			whole := outputs[len(content)]
			for chunkSize, data := range outputs {
				if !bytes.Equal(data, whole) {
					t.Errorf("chunk size %d output differs from whole-file decode:\n%q\n%q",
						chunkSize, data, whole)
				}
			}
		})
	}
}

func TestConvert_SourceUnreadable(t *testing.T) {
	tmpDir := t.TempDir()
	req := types.Request{
		SourcePath: filepath.Join(tmpDir, "does-not-exist.txt"),
		DestPath:   filepath.Join(tmpDir, "out.txt"),
	}

	result := newTestConverter(0).Convert(req)

	if !result.Failed() {
		t.Fatal("expected failure for missing source")
	}
	if !errors.Is(result.Err, ErrSourceRead) {
		t.Errorf("err = %v, want ErrSourceRead", result.Err)
	}
	if _, err := os.Stat(req.DestPath); !os.IsNotExist(err) {
		t.Error("destination should not exist after failed conversion")
	}
}

func TestConvert_DestinationUnwritable(t *testing.T) {
	req := writeSource(t, []byte("content"))
	req.DestPath = filepath.Join(t.TempDir(), "missing-dir", "out.txt")

	result := newTestConverter(0).Convert(req)

	if !result.Failed() {
		t.Fatal("expected failure for unwritable destination")
	}
	if !errors.Is(result.Err, ErrDestinationWrite) {
		t.Errorf("err = %v, want ErrDestinationWrite", result.Err)
	}
}

func TestConvert_NoTempFileLeftBehind(t *testing.T) {
	req := writeSource(t, []byte("héllo"))

	result := newTestConverter(0).Convert(req)
	if result.Failed() {
		t.Fatal(result.Err)
	}

	entries, err := os.ReadDir(filepath.Dir(req.DestPath))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".textconv-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
