// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package ciff

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Captions and tags are single-byte text. ISO 8859-1 maps every byte value
// to exactly one rune, so decoding never fails and encoding a decoded string
// gives back the original bytes.
type textCodec struct {
	dec *encoding.Decoder
	enc *encoding.Encoder
}

func newTextCodec() textCodec {
	return textCodec{
		dec: charmap.ISO8859_1.NewDecoder(),
		enc: charmap.ISO8859_1.NewEncoder(),
	}
}

func (t textCodec) decode(b []byte) string {
	if isASCII(b) {
		return string(b)
	}
	s, err := t.dec.Bytes(b)
	if err != nil {
		// Not reachable for ISO 8859-1.
		return string(b)
	}
	return string(s)
}

func (t textCodec) encode(s string) ([]byte, error) {
	b, err := t.enc.String(s)
	if err != nil {
		return nil, fmt.Errorf("text %q is not representable in a single byte charset: %w", s, err)
	}
	return []byte(b), nil
}

// validateCaption checks s before it is written as a caption.
func validateCaption(s string) error {
	if strings.ContainsRune(s, '\n') {
		return fmt.Errorf("caption must not contain a line feed")
	}
	return nil
}

// validateTag checks s before it is written as a tag.
func validateTag(s string) error {
	if s == "" {
		return fmt.Errorf("tag must not be empty")
	}
	if strings.ContainsAny(s, "\n\x00") {
		return fmt.Errorf("tag %q must not contain a line feed or a null byte", s)
	}
	return nil
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= 0x80 {
			return false
		}
	}
	return true
}
