// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/pdiddy/textconv/pkg/types"
)

// decoderMode is the active encoding of a streamDecoder. The only legal
// transition is modeUTF8 -> modeLatin1, taken at most once per stream.
type decoderMode int

const (
	modeUTF8 decoderMode = iota
	modeLatin1
)

// streamDecoder incrementally decodes a byte stream to UTF-8 text. It
// starts in strict UTF-8 mode; the first invalid sequence switches it
// to Latin-1 for the remainder of the stream. Output already emitted
// for earlier chunks is not revisited, but bytes consumed by the failed
// UTF-8 attempt (including a buffered multi-byte tail from a previous
// chunk) are re-decoded under Latin-1, so no byte is lost or duplicated.
type streamDecoder struct {
	mode    decoderMode
	pending []byte // incomplete multi-byte tail awaiting more input; UTF-8 mode only
	latin1  *encoding.Decoder
}

func newStreamDecoder() *streamDecoder {
	return &streamDecoder{mode: modeUTF8}
}

// Encoding returns the encoding the decoder is currently using.
func (d *streamDecoder) Encoding() types.Encoding {
	if d.mode == modeLatin1 {
		return types.EncodingLatin1
	}
	return types.EncodingUTF8
}

// FellBack reports whether the one-time Latin-1 fallback has latched.
func (d *streamDecoder) FellBack() bool {
	return d.mode == modeLatin1
}

// Decode consumes one chunk and returns the decoded UTF-8 bytes.
func (d *streamDecoder) Decode(chunk []byte) ([]byte, error) {
	return d.decode(chunk, false)
}

// Flush signals end of input and returns any trailing output. A
// truncated multi-byte sequence still buffered at EOF is a decode error
// under UTF-8 and triggers the fallback like any other invalid input.
func (d *streamDecoder) Flush() ([]byte, error) {
	return d.decode(nil, true)
}

func (d *streamDecoder) decode(chunk []byte, final bool) ([]byte, error) {
	if d.mode == modeLatin1 {
		return d.decodeLatin1(chunk)
	}

	src := chunk
	if len(d.pending) > 0 {
		src = append(d.pending, chunk...)
		d.pending = nil
	}
	if len(src) == 0 {
		return nil, nil
	}

	dst := make([]byte, len(src))
	nDst, nSrc, err := encoding.UTF8Validator.Transform(dst, src, final)
	switch err {
	case nil:
		return dst[:nDst], nil
	case transform.ErrShortSrc:
		// Valid so far; the chunk ends mid-sequence. Buffer the tail for
		// the next chunk.
		d.pending = append([]byte(nil), src[nSrc:]...)
		return dst[:nDst], nil
	case encoding.ErrInvalidUTF8:
		// One-time fallback: the whole current chunk, tail included, is
		// re-decoded under Latin-1. Output from prior chunks stands.
		d.mode = modeLatin1
		d.latin1 = charmap.ISO8859_1.NewDecoder()
		return d.decodeLatin1(src)
	default:
		return nil, fmt.Errorf("decoding chunk: %w", err)
	}
}

// decodeLatin1 maps every byte to the code point of the same value.
// This cannot fail for any input, so a returned error here means the
// fallback itself broke, which is fatal for the conversion.
func (d *streamDecoder) decodeLatin1(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}
	out, err := d.latin1.Bytes(src)
	if err != nil {
		return nil, fmt.Errorf("%w: latin-1 decode: %v", ErrUnsupportedEncoding, err)
	}
	return out, nil
}
