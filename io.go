// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ciff

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"sync"
)

var bufioReaderPool = &sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 32*1024)
	},
}

func getBufioReader(r io.Reader) *bufio.Reader {
	br := bufioReaderPool.Get().(*bufio.Reader)
	br.Reset(r)
	return br
}

func putBufioReader(br *bufio.Reader) {
	br.Reset(nil)
	bufioReaderPool.Put(br)
}

// byteCursor is a sequential reader that keeps track of how many bytes
// have been consumed. It does no validation of its own.
// Note that this is not thread safe.
type byteCursor struct {
	r         *bufio.Reader
	byteOrder binary.ByteOrder

	buf []byte

	n      uint64
	pooled bool
}

func newByteCursor(r io.Reader, byteOrder binary.ByteOrder) *byteCursor {
	if br, ok := r.(*bufio.Reader); ok {
		return &byteCursor{r: br, byteOrder: byteOrder}
	}
	return &byteCursor{r: getBufioReader(r), byteOrder: byteOrder, pooled: true}
}

// release returns the pooled reader, if any. The cursor must not be used after.
func (c *byteCursor) release() {
	if c.pooled && c.r != nil {
		putBufioReader(c.r)
	}
	c.r = nil
}

// consumed returns the number of bytes read so far.
func (c *byteCursor) consumed() uint64 {
	return c.n
}

func (c *byteCursor) allocateBuf(length int) {
	if length > cap(c.buf) {
		c.buf = make([]byte, length)
	}
}

// readN reads exactly n bytes. The returned slice is only valid until the next read.
// A read that ends early returns io.ErrUnexpectedEOF, or io.EOF if no bytes were available.
func (c *byteCursor) readN(n int) ([]byte, error) {
	c.allocateBuf(n)
	n2, err := io.ReadFull(c.r, c.buf[:n])
	c.n += uint64(n2)
	if err != nil {
		return nil, err
	}
	return c.buf[:n], nil
}

func (c *byteCursor) read8() (uint64, error) {
	const n = 8
	b, err := c.readN(n)
	if err != nil {
		return 0, err
	}
	return c.byteOrder.Uint64(b), nil
}

// tryReadOne reads a single byte. ok is false on a clean end of input.
func (c *byteCursor) tryReadOne() (b byte, ok bool, err error) {
	b, err = c.r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	c.n++
	return b, true, nil
}

// peekOne returns the next byte without consuming it.
func (c *byteCursor) peekOne() (b byte, ok bool, err error) {
	p, err := c.r.Peek(1)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return p[0], true, nil
}
