// Copyright 2025 UMH Systems GmbH
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

// Package sperr defines the error taxonomy shared by every tahu package.
//
// Every public operation returns one of these kinds wrapped in *Error, so
// callers can branch with errors.Is(err, sperr.OutOfRange) instead of string
// matching, and still get a human message and an optional wrapped cause via
// errors.Unwrap.
package sperr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of failure. Kind values are sentinels: they
// carry no message of their own and are compared with errors.Is.
type Kind string

const (
	InvalidArgument Kind = "invalid_argument"
	InvalidType     Kind = "invalid_type"
	OutOfRange      Kind = "out_of_range"
	UnknownType     Kind = "unknown_type"
	NotAuthorized   Kind = "not_authorized"
	NotConnected    Kind = "not_connected"
	SequenceGap     Kind = "sequence_gap"
	BdSeqMismatch   Kind = "bd_seq_mismatch"
	Timeout         Kind = "timeout"
	Internal        Kind = "internal"
)

// Error implements the "e2e" wrapped-error pattern.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, sperr.OutOfRange) work directly against a Kind, by
// treating Kind as a sentinel comparable to itself through *Error.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind == k
}

// Error makes Kind itself usable as an errors.Is target and, in a pinch, as a
// plain error value.
func (k Kind) Error() string { return string(k) }

// New builds an *Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around a lower-level cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the Kind from err, or Internal if err isn't a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
