// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ciff

import (
	"errors"
	"io"
)

// Number of pixels read per chunk.
const pixelChunkSize = 4096

type decoder struct {
	*byteCursor
	opts Options
	text textCodec

	b       recordBuilder
	scratch []byte
}

// decode runs the states in order and stops at the first failure.
func (d *decoder) decode() (*Record, *FormatError) {
	states := []func() *FormatError{
		d.readMagic,
		d.readHeaderSize,
		d.readContentSize,
		d.readDimensions,
		d.checkSizes,
		d.readCaption,
		d.readTags,
		d.readPixels,
		d.checkTrailing,
		d.checkPixelCount,
	}
	for _, state := range states {
		if err := state(); err != nil {
			return nil, err
		}
	}
	return d.b.build(), nil
}

func (d *decoder) errorf(kind ErrorKind, format string, args ...any) *FormatError {
	return newFormatErrorf(kind, d.consumed(), format, args...)
}

// readError converts a failed read of what into a FormatError.
func (d *decoder) readError(err error, what string) *FormatError {
	kind := IO
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		kind = TruncatedInput
	}
	return &FormatError{Kind: kind, Offset: d.consumed(), Msg: "failed to read " + what, Err: err}
}

func (d *decoder) readMagic() *FormatError {
	b, err := d.readN(len(Magic))
	if err != nil {
		return d.readError(err, "magic")
	}
	if string(b) != Magic {
		return d.errorf(BadMagic, "expected %q, got %q", Magic, b)
	}
	return nil
}

func (d *decoder) readHeaderSize() *FormatError {
	v, err := d.read8()
	if err != nil {
		return d.readError(err, "header size")
	}
	if v < MinHeaderSize {
		return d.errorf(InvalidHeaderSize, "header size %d is less than %d", v, MinHeaderSize)
	}
	if v > d.opts.MaxHeaderSize {
		return d.errorf(LimitExceeded, "header size %d exceeds max %d", v, d.opts.MaxHeaderSize)
	}
	d.b.headerSize = v
	return nil
}

func (d *decoder) readContentSize() *FormatError {
	v, err := d.read8()
	if err != nil {
		return d.readError(err, "content size")
	}
	d.b.contentSize = v
	return nil
}

func (d *decoder) readDimensions() *FormatError {
	w, err := d.read8()
	if err != nil {
		return d.readError(err, "width")
	}
	h, err := d.read8()
	if err != nil {
		return d.readError(err, "height")
	}
	d.b.width, d.b.height = w, h
	return nil
}

// checkSizes validates content_size against the dimensions before
// anything is allocated for the pixels.
func (d *decoder) checkSizes() *FormatError {
	expected, ok := contentSizeOf(d.b.width, d.b.height)
	if !ok {
		return d.errorf(SizeMismatch, "%dx%d pixels overflow a 64 bit content size", d.b.width, d.b.height)
	}
	if expected != d.b.contentSize {
		return d.errorf(SizeMismatch, "content size %d does not match %dx%dx3 = %d", d.b.contentSize, d.b.width, d.b.height, expected)
	}
	if d.b.contentSize > d.opts.MaxContentSize {
		return d.errorf(LimitExceeded, "content size %d exceeds max %d", d.b.contentSize, d.opts.MaxContentSize)
	}
	return nil
}

func (d *decoder) readCaption() *FormatError {
	caption := d.scratch[:0]
	for {
		if d.consumed() >= d.b.headerSize {
			return d.errorf(MalformedHeaderTermination, "caption runs past the header region of %d bytes", d.b.headerSize)
		}
		c, ok, err := d.tryReadOne()
		if err != nil {
			return d.readError(err, "caption")
		}
		if !ok {
			return d.errorf(UnterminatedCaption, "input ended before the caption's line feed")
		}
		if c == '\n' {
			break
		}
		caption = append(caption, c)
	}
	d.b.caption = d.text.decode(caption)
	d.scratch = caption
	return nil
}

func (d *decoder) readTags() *FormatError {
	tag := d.scratch[:0]
	for d.consumed() < d.b.headerSize {
		c, ok, err := d.tryReadOne()
		if err != nil {
			return d.readError(err, "tags")
		}
		if !ok {
			return d.errorf(TruncatedInput, "input ended inside the tag region")
		}
		switch c {
		case '\n':
			return d.errorf(InvalidTagData, "line feed in tag region")
		case 0:
			if len(tag) == 0 {
				// The header terminator for images without tags.
				if d.consumed() != d.b.headerSize && !d.opts.AllowHeaderPadding {
					return d.errorf(MalformedHeaderTermination, "empty tag inside the header region")
				}
				continue
			}
			d.b.tags = append(d.b.tags, d.text.decode(tag))
			tag = tag[:0]
		default:
			tag = append(tag, c)
		}
	}
	if len(tag) > 0 {
		return d.errorf(MalformedHeaderTermination, "header region ends inside tag %q", d.text.decode(tag))
	}
	d.scratch = tag
	return nil
}

func (d *decoder) readPixels() *FormatError {
	// Bounded by content_size, which checkSizes has cross-checked and limited.
	remaining := d.b.contentSize / bytesPerPixel
	d.b.pixels = make([]RGB, 0, min(remaining, pixelChunkSize))
	for remaining > 0 {
		k := min(remaining, pixelChunkSize)
		b, err := d.readN(int(k) * bytesPerPixel)
		if err != nil {
			return d.readError(err, "pixels")
		}
		for i := 0; i+2 < len(b); i += bytesPerPixel {
			d.b.pixels = append(d.b.pixels, RGB{R: b[i], G: b[i+1], B: b[i+2]})
		}
		remaining -= k
	}
	return nil
}

func (d *decoder) checkTrailing() *FormatError {
	_, ok, err := d.peekOne()
	if err != nil {
		return d.readError(err, "end of input")
	}
	if ok {
		return d.errorf(TrailingData, "unexpected data after the content region")
	}
	return nil
}

func (d *decoder) checkPixelCount() *FormatError {
	if uint64(len(d.b.pixels)) != d.b.width*d.b.height {
		return d.errorf(SizeMismatch, "decoded %d pixels, expected %d", len(d.b.pixels), d.b.width*d.b.height)
	}
	return nil
}
