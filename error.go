// SPDX-FileCopyrightText: 2026 The typedrpc Authors
// SPDX-License-Identifier: BSD-3-Clause

package typedrpc

import (
	"fmt"

	"golang.org/x/xerrors"
)

// Error represents a JSON-RPC error.
//
// Message is always the canonical short description for Code; anything
// the caller wants to say about the specific failure goes into Data.
type Error struct {
	// Code a number indicating the error type that occurred.
	Code Code `json:"code"`

	// Message a string providing a short description of the error.
	Message string `json:"message"`

	// Data a Primitive or Structured value that contains additional
	// information about the error. Encoded as null when absent.
	Data any `json:"data"`

	frame xerrors.Frame
	err   error
}

// compile time check whether the Error implements error and xerrors interfaces.
var (
	_ error             = (*Error)(nil)
	_ fmt.Formatter     = (*Error)(nil)
	_ xerrors.Formatter = (*Error)(nil)
)

// Error implements error.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Format implements fmt.Formatter.
func (e *Error) Format(s fmt.State, c rune) {
	xerrors.FormatError(e, s, c)
}

// FormatError implements xerrors.Formatter.
func (e *Error) FormatError(p xerrors.Printer) (next error) {
	if e.Message == "" {
		p.Printf("code=%v", e.Code)
	} else {
		p.Printf("%s (code=%v)", e.Message, e.Code)
	}
	e.frame.Format(p)

	return e.err
}

// Unwrap implements errors.Unwrap.
//
// Returns the error underlying the receiver, which may be nil.
func (e *Error) Unwrap() error { return e.err }

// NewError builds an Error for the supplied code carrying data as its
// additional payload.
func NewError(c Code, data any) *Error {
	e := &Error{
		Code:    c,
		Message: c.String(),
		Data:    data,
		frame:   xerrors.Caller(1),
	}
	e.err = xerrors.New(e.Message)

	return e
}

// Errorf builds an Error for the supplied code whose data payload is the
// formatted message.
func Errorf(c Code, format string, args ...any) *Error {
	e := &Error{
		Code:    c,
		Message: c.String(),
		Data:    fmt.Sprintf(format, args...),
		frame:   xerrors.Caller(1),
	}
	e.err = xerrors.New(e.Message)

	return e
}
