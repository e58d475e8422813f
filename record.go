// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ciff

import (
	"fmt"
	"math/bits"
	"slices"
)

const (
	// Magic is the 4 byte signature every CIFF file starts with.
	Magic = "CIFF"

	// MinHeaderSize is the smallest legal header_size:
	// magic, four 8 byte fields, the caption's line feed and one tag terminator.
	MinHeaderSize = 4 + 4*8 + 1 + 1

	// fixedHeaderSize is the length of magic and the four size fields.
	fixedHeaderSize = 4 + 4*8

	bytesPerPixel = 3
)

// RGB is one pixel.
type RGB struct {
	R, G, B uint8
}

// Record is a decoded CIFF image.
// A Record is never modified after it has been created.
type Record struct {
	headerSize  uint64
	contentSize uint64
	width       uint64
	height      uint64
	caption     string
	tags        []string
	pixels      []RGB
}

// Magic returns the file signature, which is always "CIFF".
func (r *Record) Magic() string {
	return Magic
}

// HeaderSize returns the length in bytes of the header region.
func (r *Record) HeaderSize() uint64 {
	return r.headerSize
}

// ContentSize returns the length in bytes of the pixel region.
func (r *Record) ContentSize() uint64 {
	return r.contentSize
}

func (r *Record) Width() uint64 {
	return r.width
}

func (r *Record) Height() uint64 {
	return r.height
}

// Caption returns the caption without its line feed terminator.
func (r *Record) Caption() string {
	return r.caption
}

// Tags returns a copy of the tags in file order.
func (r *Record) Tags() []string {
	return slices.Clone(r.tags)
}

// NumPixels returns width*height.
func (r *Record) NumPixels() int {
	return len(r.pixels)
}

// Pixels returns a copy of the pixels in row-major order.
func (r *Record) Pixels() []RGB {
	return slices.Clone(r.pixels)
}

// PixelAt returns the pixel at column x and row y.
// ok is false if the coordinates are outside the image.
func (r *Record) PixelAt(x, y uint64) (p RGB, ok bool) {
	if x >= r.width || y >= r.height {
		return RGB{}, false
	}
	return r.pixels[y*r.width+x], true
}

// HasTag reports whether tag is one of the image's tags.
func (r *Record) HasTag(tag string) bool {
	return slices.Contains(r.tags, tag)
}

// NewRecord creates a Record from its parts, e.g. for Encode.
// The header and content sizes are computed the way Encode writes them.
func NewRecord(caption string, tags []string, width, height uint64, pixels []RGB) (*Record, error) {
	if err := validateCaption(caption); err != nil {
		return nil, err
	}
	for _, tag := range tags {
		if err := validateTag(tag); err != nil {
			return nil, err
		}
	}

	contentSize, ok := contentSizeOf(width, height)
	if !ok {
		return nil, fmt.Errorf("dimensions %dx%d overflow the content size", width, height)
	}
	if uint64(len(pixels)) != width*height {
		return nil, fmt.Errorf("got %d pixels, expected %d for %dx%d", len(pixels), width*height, width, height)
	}

	headerSize, err := headerSizeOf(newTextCodec(), caption, tags)
	if err != nil {
		return nil, err
	}

	return &Record{
		headerSize:  headerSize,
		contentSize: contentSize,
		width:       width,
		height:      height,
		caption:     caption,
		tags:        slices.Clone(tags),
		pixels:      slices.Clone(pixels),
	}, nil
}

// headerSizeOf returns the header_size Encode writes for caption and tags.
func headerSizeOf(tc textCodec, caption string, tags []string) (uint64, error) {
	size := uint64(fixedHeaderSize)
	b, err := tc.encode(caption)
	if err != nil {
		return 0, err
	}
	size += uint64(len(b)) + 1
	for _, tag := range tags {
		b, err := tc.encode(tag)
		if err != nil {
			return 0, err
		}
		size += uint64(len(b)) + 1
	}
	if len(tags) == 0 {
		// Lone header terminator.
		size++
	}
	return size, nil
}

// contentSizeOf returns width*height*3. ok is false on overflow.
func contentSizeOf(width, height uint64) (size uint64, ok bool) {
	hi, n := bits.Mul64(width, height)
	if hi != 0 {
		return 0, false
	}
	hi, size = bits.Mul64(n, bytesPerPixel)
	if hi != 0 {
		return 0, false
	}
	return size, true
}

// recordBuilder accumulates fields while decoding.
// It only produces a Record once every state has succeeded.
type recordBuilder struct {
	headerSize  uint64
	contentSize uint64
	width       uint64
	height      uint64
	caption     string
	tags        []string
	pixels      []RGB
}

func (b *recordBuilder) build() *Record {
	return &Record{
		headerSize:  b.headerSize,
		contentSize: b.contentSize,
		width:       b.width,
		height:      b.height,
		caption:     b.caption,
		tags:        b.tags,
		pixels:      b.pixels,
	}
}
