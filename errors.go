// SPDX-License-Identifier: MIT

package flzma2

import (
	"errors"
	"fmt"
)

// Kind classifies an Error the way the upstream status codes do.
type Kind int

const (
	// KindOptions marks a violated constraint in an Options value.
	KindOptions Kind = iota
	// KindMemory marks an allocation failure.
	KindMemory
	// KindProgram marks an internal invariant breach (overrun, bad worker state).
	KindProgram
	// KindTimedOut marks worker coordination exceeding Lzma2Timeout.
	KindTimedOut
	// KindBuffer marks a caller output buffer too small for a mandatory emission.
	KindBuffer
)

func (k Kind) String() string {
	switch k {
	case KindOptions:
		return "options"
	case KindMemory:
		return "memory"
	case KindProgram:
		return "program"
	case KindTimedOut:
		return "timed out"
	case KindBuffer:
		return "buffer"
	default:
		return "unknown"
	}
}

// Error is the error type returned across the package's public surface.
// Callers should match on Kind with errors.Is against the ErrKind* sentinels,
// or errors.As(&target) to recover the wrapped cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "flzma2: " + e.Kind.String()
	}
	return fmt.Sprintf("flzma2: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, allowing
// errors.Is(err, ErrKindOptions) style checks regardless of the wrapped cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinel Kind anchors for errors.Is. These carry no wrapped cause; compare
// only the Kind field via (*Error).Is.
var (
	ErrKindOptions  = &Error{Kind: KindOptions}
	ErrKindMemory   = &Error{Kind: KindMemory}
	ErrKindProgram  = &Error{Kind: KindProgram}
	ErrKindTimedOut = &Error{Kind: KindTimedOut}
	ErrKindBuffer   = &Error{Kind: KindBuffer}
)

// newError wraps cause into an *Error of the given Kind.
func newError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// errCanceled is the cause wrapped into the *Error that Encode returns on use
// after Close or after a finished stream, and that Compress returns when the
// stream did not end.
var errCanceled = errors.New("flzma2: build canceled")
