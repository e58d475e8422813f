// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ciff

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a byte stream is not a well-formed CIFF image.
//
//go:generate stringer -type=ErrorKind
type ErrorKind int

const (
	// BadMagic signals that the first 4 bytes are not "CIFF".
	BadMagic ErrorKind = iota + 1
	// TruncatedInput signals that fewer bytes were available than a field required.
	TruncatedInput
	// UnterminatedCaption signals that the input ended before the caption's line feed.
	UnterminatedCaption
	// InvalidTagData signals a line feed inside the tag region.
	InvalidTagData
	// MalformedHeaderTermination signals that the header region did not end on a tag terminator.
	MalformedHeaderTermination
	// SizeMismatch signals that content_size != width*height*3.
	SizeMismatch
	// TrailingData signals bytes after the content region.
	TrailingData
	// InvalidHeaderSize signals a header_size below MinHeaderSize.
	InvalidHeaderSize
	// LimitExceeded signals a header or content size above the configured maximum.
	LimitExceeded
	// IO signals a read or open failure other than end of input.
	IO
)

// IsTruncation reports whether k means the input ended too early.
func (k ErrorKind) IsTruncation() bool {
	return k == TruncatedInput || k == UnterminatedCaption
}

// FormatError describes the first validation rule an input violated.
type FormatError struct {
	Kind ErrorKind
	// Offset is the number of bytes consumed when the error was detected.
	Offset uint64
	Msg    string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ciff: %s at offset %d: %s: %v", e.Kind, e.Offset, e.Msg, e.Err)
	}
	return fmt.Sprintf("ciff: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is makes every *FormatError match ErrInvalidFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// ErrInvalidFormat matches any *FormatError with errors.Is.
var ErrInvalidFormat = errors.New("ciff: invalid format")

// IsInvalidFormat reports whether err is a CIFF validation failure.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}

// IsKind reports whether err is a *FormatError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FormatError
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

func newFormatErrorf(kind ErrorKind, offset uint64, format string, args ...any) *FormatError {
	return &FormatError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
