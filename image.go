// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ciff

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
)

func init() {
	image.RegisterFormat("ciff", Magic, DecodeImage, DecodeConfig)
}

// maxImagePixels is the largest image the image.Image bridge will build.
const maxImagePixels = math.MaxInt32 / 4

func fitsImage(width, height uint64) bool {
	return width <= math.MaxInt32 && height <= math.MaxInt32 && width*height <= maxImagePixels
}

// Image converts r to an *image.NRGBA with opaque pixels.
func (r *Record) Image() (*image.NRGBA, error) {
	if !fitsImage(r.width, r.height) {
		return nil, fmt.Errorf("ciff: %dx%d image is too large to convert", r.width, r.height)
	}
	w, h := int(r.width), int(r.height)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i, p := range r.pixels {
		o := i * 4
		img.Pix[o+0] = p.R
		img.Pix[o+1] = p.G
		img.Pix[o+2] = p.B
		img.Pix[o+3] = 0xff
	}
	return img, nil
}

// FromImage creates a Record from any image.Image.
func FromImage(img image.Image, caption string, tags []string) (*Record, error) {
	b := img.Bounds()
	pixels := make([]RGB, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pixels = append(pixels, RGB{R: c.R, G: c.G, B: c.B})
		}
	}
	return NewRecord(caption, tags, uint64(b.Dx()), uint64(b.Dy()), pixels)
}

// DecodeImage decodes a CIFF image from r using the default options.
// It is registered with the image package under the name "ciff".
func DecodeImage(r io.Reader) (image.Image, error) {
	res := Decode(r, Options{})
	if !res.Valid() {
		return nil, res.Err
	}
	img, err := res.Record.Image()
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeConfig returns the dimensions of a CIFF image without reading
// the caption, the tags or the pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	opts := Options{}.withDefaults()
	c := newByteCursor(r, opts.ByteOrder)
	defer c.release()

	d := &decoder{byteCursor: c, opts: opts}
	for _, state := range []func() *FormatError{
		d.readMagic,
		d.readHeaderSize,
		d.readContentSize,
		d.readDimensions,
		d.checkSizes,
	} {
		if err := state(); err != nil {
			return image.Config{}, err
		}
	}
	if !fitsImage(d.b.width, d.b.height) {
		return image.Config{}, fmt.Errorf("ciff: %dx%d image is too large", d.b.width, d.b.height)
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(d.b.width),
		Height:     int(d.b.height),
	}, nil
}
