// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package stream turns raw chunks of a task log stream into displayable text.
// Chunk boundaries chosen by the transport do not line up with UTF-8 rune
// boundaries, so a multi-byte rune may arrive split across two reads.
package stream

import (
	"strings"
	"unicode/utf8"
)

// Decoder converts successive byte chunks into well-formed UTF-8 text.
// A trailing incomplete rune is held back until the next chunk arrives.
// Invalid bytes are replaced with utf8.RuneError. The zero value is ready to use.
type Decoder struct {
	pending []byte
}

// Feed consumes chunk and returns the text that is complete so far.
// The result is the same whichever way a byte stream is split into chunks.
func (d *Decoder) Feed(chunk []byte) string {
	buf := chunk
	if len(d.pending) > 0 {
		buf = append(d.pending, chunk...)
		d.pending = nil
	}

	var sb strings.Builder
	sb.Grow(len(buf))
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size <= 1 {
			if !utf8.FullRune(buf) {
				// incomplete tail; wait for more bytes
				d.pending = append([]byte(nil), buf...)
				break
			}
			sb.WriteRune(utf8.RuneError)
			buf = buf[1:]
			continue
		}
		sb.Write(buf[:size])
		buf = buf[size:]
	}
	return sb.String()
}

// Flush ends the stream. An incomplete trailing rune is dropped rather than
// emitted as garbage; the number of dropped bytes is returned.
func (d *Decoder) Flush() int {
	n := len(d.pending)
	d.pending = nil
	return n
}
