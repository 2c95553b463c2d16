// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Encoding names a character encoding used to decode a source file.
type Encoding string

const (
	// EncodingUTF8 means the whole file decoded as valid UTF-8.
	EncodingUTF8 Encoding = "utf-8"

	// EncodingLatin1 means decoding fell back to Latin-1 at some point.
	// Latin-1 maps every byte value 0x00-0xFF to the code point of the
	// same value, so it is used as a byte-preserving fallback rather
	// than a language-correct transliteration.
	EncodingLatin1 Encoding = "latin-1"
)

// Status is the outcome of a single file conversion.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Request names one file to convert. It is created once per file by the
// orchestrator and consumed exactly once by the converter.
type Request struct {
	// SourcePath is the file to read. Must reference a readable file.
	SourcePath string `json:"source_path" yaml:"source_path"`

	// DestPath is the UTF-8 output file. Its parent directory must be
	// writable; creating it is the orchestrator's job.
	DestPath string `json:"dest_path" yaml:"dest_path"`
}

// Result is the outcome of one conversion. Immutable after creation.
type Result struct {
	// Status is success or failed.
	Status Status `json:"status" yaml:"status"`

	// Encoding is the encoding actually used to decode the source. Set
	// on success; on failure it reflects the encoding active when the
	// conversion aborted.
	Encoding Encoding `json:"encoding" yaml:"encoding"`

	// Err carries the failure cause when Status is StatusFailed.
	Err error `json:"-" yaml:"-"`
}

// Failed reports whether the conversion did not complete.
func (r Result) Failed() bool {
	return r.Status == StatusFailed
}

// ErrorDetail returns the failure cause as a string, or "" on success.
func (r Result) ErrorDetail() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
