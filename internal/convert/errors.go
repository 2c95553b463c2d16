// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "errors"

var (
	// ErrSourceRead marks failures reading the source file.
	ErrSourceRead = errors.New("source read failed")

	// ErrDestinationWrite marks failures writing or committing the
	// destination file.
	ErrDestinationWrite = errors.New("destination write failed")

	// ErrUnsupportedEncoding marks a decode failure after the one-time
	// Latin-1 fallback has already been used. Latin-1 accepts every byte
	// value, so with the current decoder pair this cannot be reached
	// through file content alone; the sentinel exists so the invariant
	// is checkable and the fatal path stays explicit.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)
