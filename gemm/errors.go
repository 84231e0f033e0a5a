// Copyright 2025 go-gemm Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gemm

import (
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// ErrorKind names the defect classes a kernel can raise. Every one of
// them signals a caller-side programming error (shape or type mismatch,
// wrong invocation order), so they are raised as unrecoverable panics
// rather than returned: there is nothing sensible to retry.
type ErrorKind int

const (
	// ConfigurationError: mismatched precisions, incompatible inner
	// dimensions, or a buffer too short for the required tile padding.
	ConfigurationError ErrorKind = iota

	// UnsupportedDataType: the precision/shape combination is not one the
	// tile geometry table covers.
	UnsupportedDataType

	// UnconfiguredKernel: Run was called before a successful Configure.
	UnconfiguredKernel

	// InvalidSubwindow: Run was called with a window not contained in the
	// kernel's canonical window.
	InvalidSubwindow

	// NotImplemented: the half-precision path was requested on hardware
	// without half-precision support.
	NotImplemented
)

// String returns the canonical name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ConfigurationError:
		return "ConfigurationError"
	case UnsupportedDataType:
		return "UnsupportedDataType"
	case UnconfiguredKernel:
		return "UnconfiguredKernelError"
	case InvalidSubwindow:
		return "InvalidSubwindowError"
	case NotImplemented:
		return "NotImplemented"
	}
	return "UnknownError"
}

// Error is the value carried by a kernel panic. It wraps an error built
// with github.com/pkg/errors, so it carries a stack trace of the raise
// site.
type Error struct {
	Kind ErrorKind
	err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// raisef raises a named, unrecoverable error that aborts the current
// operation. It never returns.
func raisef(kind ErrorKind, format string, args ...any) {
	panic(&Error{Kind: kind, err: errors.Errorf(format, args...)})
}

// Try runs fn and converts a kernel panic back into an error value.
// It returns nil if fn completed. Panics that do not carry a *Error
// propagate unchanged.
func Try(fn func()) *Error {
	return exceptions.TryCatch[*Error](fn)
}
