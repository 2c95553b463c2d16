// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "errors"

// ErrConfiguration marks missing or invalid configuration: unset or
// nonexistent directories, bad settings. Configuration errors are the
// only failures that abort a batch before it starts.
var ErrConfiguration = errors.New("configuration error")
