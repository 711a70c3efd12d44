// Copyright 2026 The eem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package caryeclipse

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotSupported is returned by LoadSpectralCorrections: the instrument
// ships correction factors but loading them is not implemented.
var ErrNotSupported = errors.New("caryeclipse: spectral correction loading not supported")

// LoadError reports a file that could not be read at all: unreadable
// stream, empty file, or a header row yielding zero columns.
type LoadError struct {
	Path string // empty when decoding from a plain reader
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("caryeclipse: could not load input: %v", e.Err)
	}
	return fmt.Sprintf("caryeclipse: could not load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FormatError reports an input that is readable but does not follow the
// Cary Eclipse export layout.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "caryeclipse: invalid export format: " + e.Reason
}

func formatErrf(format string, args ...interface{}) error {
	return &FormatError{Reason: fmt.Sprintf(format, args...)}
}
