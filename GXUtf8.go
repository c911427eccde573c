package gxserialstream

// --------------------------------------------------------------------------
//
//	Gurux Ltd
//
// Filename:        $HeadURL$
//
// Version:         $Revision$,
//
//	$Date$
//	$Author$
//
// # Copyright (c) Gurux Ltd
//
// ---------------------------------------------------------------------------
//
//	DESCRIPTION
//
// This file is a part of Gurux Device Framework.
//
// Gurux Device Framework is Open Source software; you can redistribute it
// and/or modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2 of the License.
// Gurux Device Framework is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU General Public License for more details.
//
// More information of Gurux products: https://www.gurux.org
//
// This code is licensed under the GNU General Public License v2.
// Full text may be retrieved at http://www.gnu.org/licenses/gpl-2.0.txt

import (
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// seqLen returns the encoded length announced by the lead byte b,
// or 0 when b can not start a UTF-8 sequence.
func seqLen(b byte) int {
	switch {
	case b&0x80 == 0:
		return 1
	case b&0xE0 == 0xC0:
		if b < 0xC2 {
			// Always overlong.
			return 0
		}
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		if b > 0xF4 {
			// Above U+10FFFF.
			return 0
		}
		return 4
	}
	return 0
}

// charWidth returns the width of the character starting at p[i]. It is 0
// when p[i] can not start a character: a continuation byte, or a lead
// whose following bytes do not form a valid sequence. It is -1 when the
// sequence looks valid so far but its continuation bytes have not arrived.
func charWidth(p []byte, i int) int {
	n := seqLen(p[i])
	if n == 0 {
		return 0
	}
	for k := 1; k < n; k++ {
		if i+k >= len(p) {
			return -1
		}
		if p[i+k]&0xC0 != 0x80 {
			return 0
		}
	}
	if n > 1 {
		// Overlong forms, surrogates and values above U+10FFFF.
		if r, size := utf8.DecodeRune(p[i : i+n]); r == utf8.RuneError && size == 1 {
			return 0
		}
	}
	return n
}

// firstBoundary returns the index of the first character whose whole
// sequence is inside p. Bytes that can not start a character are skipped.
// A lead that is still waiting for its continuation bytes is not a boundary
// yet and -1 is returned.
func firstBoundary(p []byte) int {
	for i := 0; i < len(p); i++ {
		switch w := charWidth(p, i); {
		case w > 0:
			return i
		case w < 0:
			return -1
		}
	}
	return -1
}

// firstLead returns the index of the first byte that starts a valid or a
// still incomplete sequence, or -1.
func firstLead(p []byte) int {
	for i := range p {
		if charWidth(p, i) != 0 {
			return i
		}
	}
	return -1
}

// lastComplete returns offset and width of the newest character whose
// sequence is complete in p. Offset is -1 when there is none.
func lastComplete(p []byte) (int, int) {
	for i := len(p) - 1; i >= 0; i-- {
		if n := charWidth(p, i); n > 0 {
			return i, n
		}
	}
	return -1, 0
}

// charEnd walks p from a boundary and counts completed characters, at most
// limit of them when limit >= 0. It returns the end offset of the last counted
// character and the count. A byte that can not start a character is counted
// as one character, the same way decodeText turns it into one U+FFFD, so it
// never stalls the stream.
func charEnd(p []byte, limit int) (int, int) {
	end, count := 0, 0
	for end < len(p) && (limit < 0 || count < limit) {
		n := charWidth(p, end)
		if n < 0 {
			break
		}
		if n == 0 {
			n = 1
		}
		end += n
		count++
	}
	return end, count
}

// decodeText converts p to a string. Ill-formed sequences become U+FFFD.
func decodeText(p []byte) string {
	ret, _, err := transform.Bytes(runes.ReplaceIllFormed(), p)
	if err != nil {
		return string(p)
	}
	return string(ret)
}
