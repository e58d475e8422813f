// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ciff

import (
	"bufio"
	"errors"
	"io"
)

// Encode writes r to w as a CIFF image.
// Only opts.ByteOrder is used.
//
// The header size written is recomputed from the caption and the tags;
// images without tags get a single null byte as header terminator.
func Encode(w io.Writer, r *Record, opts Options) error {
	if r == nil {
		return errors.New("ciff: nil record")
	}
	opts = opts.withDefaults()

	tc := newTextCodec()
	headerSize, err := headerSizeOf(tc, r.caption, r.tags)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	var buf [8]byte
	put8 := func(v uint64) {
		opts.ByteOrder.PutUint64(buf[:], v)
		bw.Write(buf[:])
	}

	bw.WriteString(Magic)
	put8(headerSize)
	put8(r.contentSize)
	put8(r.width)
	put8(r.height)

	caption, err := tc.encode(r.caption)
	if err != nil {
		return err
	}
	bw.Write(caption)
	bw.WriteByte('\n')

	for _, tag := range r.tags {
		b, err := tc.encode(tag)
		if err != nil {
			return err
		}
		bw.Write(b)
		bw.WriteByte(0)
	}
	if len(r.tags) == 0 {
		bw.WriteByte(0)
	}

	for _, p := range r.pixels {
		bw.Write([]byte{p.R, p.G, p.B})
	}

	// bufio.Writer keeps the first write error and returns it here.
	return bw.Flush()
}
