// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Writes the CIFF test fixtures in ../testdata/images.
//
//go:generate go run main.go
package main

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/bep/ciff"
)

func main() {
	base := filepath.Join("..", "testdata", "images")

	red := []ciff.RGB{{R: 255}}

	var gradient []ciff.RGB
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			gradient = append(gradient, ciff.RGB{R: uint8(x * 64), G: uint8(y * 85), B: 128})
		}
	}

	valid := map[string][]byte{
		"red_1x1.ciff":      encode("x", nil, 1, 1, red),
		"empty_0x0.ciff":    encode("", nil, 0, 0, nil),
		"gradient_4x3.ciff": encode("gradient", []string{"test", "gradient", "test"}, 4, 3, gradient),
		"latin1_2x2.ciff": encode("Benalmádena", []string{"spain", "café"}, 2, 2,
			[]ciff.RGB{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}, {R: 7, G: 8, B: 9}, {R: 10, G: 11, B: 12}}),
		// No tag region at all; the caption's line feed ends the header.
		"header_exact_38.ciff": raw("CIFF", 38, 3, 1, 1, []byte("x\n"), []byte{0, 255, 0}),
	}

	corrupt := map[string][]byte{
		"lowercase_magic.ciff":      raw("ciff", 39, 3, 1, 1, []byte("x\n\x00"), []byte{255, 0, 0}),
		"short_magic.ciff":          raw("CIF", 39, 3, 1, 1, []byte("x\n\x00"), []byte{255, 0, 0}),
		"header_size_zero.ciff":     raw("CIFF", 0, 3, 1, 1, []byte("x\n\x00"), []byte{255, 0, 0}),
		"content_size_max.ciff":     raw("CIFF", 39, math.MaxUint64, 0, 0, []byte("x\n\x00")),
		"height_max.ciff":           raw("CIFF", 39, 3, 1, math.MaxUint64, []byte("x\n\x00"), []byte{255, 0, 0}),
		"trailing_byte.ciff":        append(encode("x", nil, 1, 1, red), 0),
		"newline_in_tags.ciff":      raw("CIFF", 42, 3, 1, 1, []byte("x\n"), []byte("a\nb\x00"), []byte{255, 0, 0}),
		"unterminated_tag.ciff":     raw("CIFF", 41, 3, 1, 1, []byte("x\n"), []byte("abc"), []byte{255, 0, 0}),
		"truncated_pixels.ciff":     truncate(encode("x", nil, 2, 1, []ciff.RGB{{R: 255}, {B: 255}}), 2),
		"unterminated_caption.ciff": raw("CIFF", 100, 3, 1, 1, []byte("no line feed")),
	}

	write(filepath.Join(base, "valid"), valid)
	write(filepath.Join(base, "corrupt"), corrupt)
}

func encode(caption string, tags []string, width, height uint64, pixels []ciff.RGB) []byte {
	r, err := ciff.NewRecord(caption, tags, width, height, pixels)
	if err != nil {
		log.Fatal(err)
	}
	var buf bytes.Buffer
	if err := ciff.Encode(&buf, r, ciff.Options{}); err != nil {
		log.Fatal(err)
	}
	return buf.Bytes()
}

// raw writes the fields as given, without any of Encode's checks.
func raw(magic string, headerSize, contentSize, width, height uint64, body ...[]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(magic)
	for _, v := range []uint64{headerSize, contentSize, width, height} {
		binary.Write(&buf, binary.LittleEndian, v)
	}
	for _, b := range body {
		buf.Write(b)
	}
	return buf.Bytes()
}

func truncate(b []byte, n int) []byte {
	return b[:len(b)-n]
}

func write(dir string, files map[string][]byte) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal(err)
	}
	for name, b := range files {
		if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
			log.Fatal(err)
		}
	}
}
