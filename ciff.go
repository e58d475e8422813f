// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package ciff decodes and encodes CIFF images: a fixed header with sizes
// and dimensions, a caption, a list of tags and uncompressed RGB pixels.
//
// The decoder treats its input as untrusted. Every structural rule is
// checked, declared sizes are bounded by configurable limits before anything
// is allocated, and all failures are reported as a Result, never as a panic.
package ciff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const (
	// DefaultMaxHeaderSize is the default limit for header_size.
	// 10 MB should be plenty for a caption and tags.
	DefaultMaxHeaderSize = 10 * 1024 * 1024

	// DefaultMaxContentSize is the default limit for content_size.
	DefaultMaxContentSize = 256 * 1024 * 1024
)

// Options contains the options for the Decode functions.
// The zero value is ready to use.
type Options struct {
	// ByteOrder of the 8 byte size fields.
	// Defaults to binary.LittleEndian.
	ByteOrder binary.ByteOrder

	// MaxHeaderSize is the largest header_size accepted.
	// Default value is DefaultMaxHeaderSize.
	MaxHeaderSize uint64

	// MaxContentSize is the largest content_size accepted.
	// Default value is DefaultMaxContentSize.
	MaxContentSize uint64

	// AllowHeaderPadding accepts empty tags (a lone null byte) anywhere in the
	// tag region. By default only the last byte of the header region may be one.
	AllowHeaderPadding bool

	// Warnf will be called with the reason when an input is rejected.
	Warnf func(string, ...any)
}

func (o Options) withDefaults() Options {
	if o.ByteOrder == nil {
		o.ByteOrder = binary.LittleEndian
	}
	if o.MaxHeaderSize == 0 {
		o.MaxHeaderSize = DefaultMaxHeaderSize
	}
	if o.MaxContentSize == 0 {
		o.MaxContentSize = DefaultMaxContentSize
	}
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
	return o
}

// Result is the outcome of a decode.
// Exactly one of Record and Err is set.
type Result struct {
	// Record is the decoded image, nil if the input is not a valid CIFF image.
	Record *Record
	// Err describes the first rule the input violated.
	Err *FormatError
}

// Valid reports whether the input was a well-formed CIFF image.
func (r Result) Valid() bool {
	return r.Err == nil && r.Record != nil
}

// Kind returns the error kind, or 0 if the result is valid.
func (r Result) Kind() ErrorKind {
	if r.Err == nil {
		return 0
	}
	return r.Err.Kind
}

// Error returns the error as an error interface, nil if the result is valid.
func (r Result) Error() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

func (r Result) String() string {
	if r.Valid() {
		return fmt.Sprintf("valid %dx%d %q", r.Record.Width(), r.Record.Height(), r.Record.Caption())
	}
	return fmt.Sprintf("invalid: %s", r.Err)
}

// Decode reads a CIFF image from r. r must contain the image and nothing else.
func Decode(r io.Reader, opts Options) Result {
	opts = opts.withDefaults()

	if r == nil {
		return invalid(opts, &FormatError{Kind: IO, Msg: "no reader provided"})
	}

	c := newByteCursor(r, opts.ByteOrder)
	defer c.release()

	dec := &decoder{
		byteCursor: c,
		opts:       opts,
		text:       newTextCodec(),
	}

	rec, err := dec.decode()
	if err != nil {
		return invalid(opts, err)
	}
	return Result{Record: rec}
}

// DecodeBytes decodes a CIFF image held in memory.
func DecodeBytes(b []byte, opts Options) Result {
	return Decode(bytes.NewReader(b), opts)
}

// DecodeFile opens, decodes and closes the named file.
func DecodeFile(filename string, opts Options) Result {
	f, err := os.Open(filename)
	if err != nil {
		return invalid(opts.withDefaults(), &FormatError{Kind: IO, Msg: "failed to open file", Err: err})
	}
	defer f.Close()
	return Decode(f, opts)
}

func invalid(opts Options, err *FormatError) Result {
	opts.Warnf("%s", err)
	return Result{Err: err}
}
