// Copyright 2025 go-ndassign Authors
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

package nd

import (
	"fmt"
	"strings"
)

// Kind categorizes an assignment failure.
type Kind string

const (
	KindShapeMismatch     Kind = "shape_mismatch"     // broadcasting impossible
	KindReadOnlyTarget    Kind = "read_only_target"   // destination not writeable
	KindUnsafeCast        Kind = "unsafe_cast"        // casting rule violated
	KindNotImplemented    Kind = "not_implemented"    // multi-NA payload preservation
	KindUnsupportedNA     Kind = "unsupported_na"     // NA into an array without NA support
	KindAllocationFailure Kind = "allocation_failure" // temporary or scratch memory
	KindTransferFailure   Kind = "transfer_failure"   // a cast kernel reported an error
	KindIterationSetup    Kind = "iteration_setup"    // raw iteration operands disagree
)

// Error is the error type returned by every assignment entry point.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Cause  error
}

// Sentinels for errors.Is. An *Error matches a sentinel of the same Kind.
var (
	ErrShapeMismatch     = &Error{Kind: KindShapeMismatch}
	ErrReadOnlyTarget    = &Error{Kind: KindReadOnlyTarget}
	ErrUnsafeCast        = &Error{Kind: KindUnsafeCast}
	ErrNotImplemented    = &Error{Kind: KindNotImplemented}
	ErrUnsupportedNA     = &Error{Kind: KindUnsupportedNA}
	ErrAllocationFailure = &Error{Kind: KindAllocationFailure}
	ErrTransferFailure   = &Error{Kind: KindTransferFailure}
	ErrIterationSetup    = &Error{Kind: KindIterationSetup}
)

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("nd: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func newError(kind Kind, op, format string, args ...any) *Error {
	e := &Error{Kind: kind, Op: op}
	if len(args) > 0 {
		e.Detail = fmt.Sprintf(format, args...)
	} else {
		e.Detail = format
	}
	return e
}

func wrapError(kind Kind, op string, cause error, format string, args ...any) *Error {
	e := newError(kind, op, format, args...)
	e.Cause = cause
	return e
}

// KindOf returns the Kind of err if it is or wraps an *Error, and "" otherwise.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
