// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ciff

import (
	"errors"
	"fmt"
	"io"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestStringer(t *testing.T) {
	c := qt.New(t)

	var kind ErrorKind
	c.Assert(BadMagic.String(), qt.Equals, "BadMagic")
	c.Assert(MalformedHeaderTermination.String(), qt.Equals, "MalformedHeaderTermination")
	c.Assert(IO.String(), qt.Equals, "IO")
	c.Assert(kind.String(), qt.Equals, "ErrorKind(0)")
	c.Assert(ErrorKind(42).String(), qt.Equals, "ErrorKind(42)")
}

func TestErrorKindIsTruncation(t *testing.T) {
	c := qt.New(t)

	c.Assert(TruncatedInput.IsTruncation(), qt.IsTrue)
	c.Assert(UnterminatedCaption.IsTruncation(), qt.IsTrue)
	c.Assert(TrailingData.IsTruncation(), qt.IsFalse)
	c.Assert(BadMagic.IsTruncation(), qt.IsFalse)
}

func TestFormatError(t *testing.T) {
	c := qt.New(t)

	err := newFormatErrorf(SizeMismatch, 36, "content size %d does not match", 7)
	c.Assert(err, qt.ErrorMatches, "ciff: SizeMismatch at offset 36: content size 7 does not match")
	c.Assert(IsInvalidFormat(err), qt.IsTrue)
	c.Assert(IsKind(err, SizeMismatch), qt.IsTrue)
	c.Assert(IsKind(err, BadMagic), qt.IsFalse)

	wrapped := fmt.Errorf("decoding foo.ciff: %w", err)
	c.Assert(IsInvalidFormat(wrapped), qt.IsTrue)
	c.Assert(IsKind(wrapped, SizeMismatch), qt.IsTrue)

	withCause := &FormatError{Kind: TruncatedInput, Offset: 3, Msg: "failed to read magic", Err: io.ErrUnexpectedEOF}
	c.Assert(withCause, qt.ErrorMatches, "ciff: TruncatedInput at offset 3: failed to read magic: unexpected EOF")
	c.Assert(errors.Is(withCause, io.ErrUnexpectedEOF), qt.IsTrue)

	c.Assert(IsInvalidFormat(io.EOF), qt.IsFalse)
	c.Assert(IsKind(io.EOF, TruncatedInput), qt.IsFalse)
}

func TestTextCodec(t *testing.T) {
	c := qt.New(t)

	tc := newTextCodec()
	c.Assert(tc.decode([]byte("plain")), qt.Equals, "plain")
	c.Assert(tc.decode([]byte{'c', 'a', 'f', 0xe9}), qt.Equals, "café")

	b, err := tc.encode("café")
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, []byte{'c', 'a', 'f', 0xe9})

	// Every byte value survives a round trip.
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	b, err = tc.encode(tc.decode(all))
	c.Assert(err, qt.IsNil)
	c.Assert(b, qt.DeepEquals, all)

	_, err = tc.encode("🌍")
	c.Assert(err, qt.IsNotNil)
}

func BenchmarkTextDecode(b *testing.B) {
	tc := newTextCodec()
	runBench := func(b *testing.B, name string, s []byte) {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = tc.decode(s)
			}
		})
	}

	runBench(b, "ASCII", []byte("Hello, World!"))
	runBench(b, "Latin1", []byte("Jølstravatnet"))
}
